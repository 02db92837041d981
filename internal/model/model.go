// Package model contains the domain models shared across layers.
// Types carry JSON tags only; persistence mapping lives in the repository implementations.
package model

// Content types a scan can be saved as.
const (
	ContentTypeDocument = "document"
	ContentTypeImage    = "image"
)

// Categories the analysis may assign.
var Categories = []string{
	"passport", "invoice", "receipt", "photo", "document",
	"contract", "form", "certificate", "other",
}

// Image quality tiers reported by the enhancement block.
var ImageQualities = []string{"excellent", "good", "fair", "poor"}

// Readability tiers reported by the enhancement block.
var Readabilities = []string{"high", "medium", "low"}

// Document structure tiers reported by the insights block.
var DocumentStructures = []string{"well-organized", "partially-structured", "unstructured"}

// ValidContentType reports whether ct is a known scan content type.
func ValidContentType(ct string) bool {
	return ct == ContentTypeDocument || ct == ContentTypeImage
}

// OneOf reports whether v is a member of set.
func OneOf(v string, set []string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
