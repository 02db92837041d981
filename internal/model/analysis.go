package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// AnalysisResult is the structured output of the remote vision call.
// Every field is optional: a nil pointer means the model omitted it or sent an unusable value.
type AnalysisResult struct {
	ExtractedText *string      `json:"extractedText,omitempty"`
	AISummary     *string      `json:"aiSummary,omitempty"`
	AITags        []string     `json:"aiTags,omitempty"`
	Category      *string      `json:"category,omitempty"`
	IsSensitive   *bool        `json:"isSensitive,omitempty"`
	Translation   *Translation `json:"translation,omitempty"`
	Enhancement   *Enhancement `json:"enhancement,omitempty"`
	SmartInsights *Insights    `json:"smartInsights,omitempty"`
	Metadata      *Metadata    `json:"metadata,omitempty"`
}

// Translation is the language detection and translation block.
type Translation struct {
	OriginalLanguage *string  `json:"originalLanguage,omitempty"`
	TranslatedText   *string  `json:"translatedText,omitempty"`
	Confidence       *float64 `json:"confidence,omitempty"`
}

// Enhancement carries image quality feedback.
type Enhancement struct {
	ImageQuality *string  `json:"imageQuality,omitempty"`
	Suggestions  []string `json:"suggestions,omitempty"`
	Readability  *string  `json:"readability,omitempty"`
}

// Insights carries the key points and entities found in the content.
type Insights struct {
	KeyPoints         []string `json:"keyPoints,omitempty"`
	ActionItems       []string `json:"actionItems,omitempty"`
	Entities          []string `json:"entities,omitempty"`
	DocumentStructure *string  `json:"documentStructure,omitempty"`
}

// Metadata describes the processed content. Stored as jsonb.
type Metadata struct {
	Language       *string  `json:"language,omitempty"`
	Confidence     *float64 `json:"confidence,omitempty"`
	DocumentType   *string  `json:"documentType,omitempty"`
	ProcessingTime *string  `json:"processingTime,omitempty"`
	TextRegions    *int     `json:"textRegions,omitempty"`
	EstimatedWords *int     `json:"estimatedWords,omitempty"`
}

// Value implements driver.Valuer.
func (m Metadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *Metadata) Scan(src any) error {
	return scanJSON(src, m)
}

// Details groups the sub-blocks rendered by the detail view. Stored as jsonb.
type Details struct {
	Translation   *Translation `json:"translation,omitempty"`
	Enhancement   *Enhancement `json:"enhancement,omitempty"`
	SmartInsights *Insights    `json:"smartInsights,omitempty"`
}

// Value implements driver.Valuer.
func (d Details) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner.
func (d *Details) Scan(src any) error {
	return scanJSON(src, d)
}

// Empty reports whether no sub-block is present.
func (d Details) Empty() bool {
	return d.Translation == nil && d.Enhancement == nil && d.SmartInsights == nil
}

// Details extracts the detail sub-blocks, or nil when none are present.
func (a AnalysisResult) Details() *Details {
	d := Details{Translation: a.Translation, Enhancement: a.Enhancement, SmartInsights: a.SmartInsights}
	if d.Empty() {
		return nil
	}
	return &d
}

// Analysis holds the analysis columns shared by ScanRecord and ScanDocument.
type Analysis struct {
	ExtractedText *string   `json:"extracted_text,omitempty"`
	AISummary     *string   `json:"ai_summary,omitempty"`
	AITags        []string  `json:"ai_tags,omitempty"`
	Category      *string   `json:"category,omitempty"`
	IsSensitive   bool      `json:"is_sensitive"`
	Metadata      *Metadata `json:"metadata,omitempty"`
	Details       *Details  `json:"details,omitempty"`
}

// AnalysisFrom maps a parsed result onto the persisted analysis columns.
func AnalysisFrom(r AnalysisResult) Analysis {
	a := Analysis{
		ExtractedText: r.ExtractedText,
		AISummary:     r.AISummary,
		AITags:        r.AITags,
		Category:      r.Category,
		Metadata:      r.Metadata,
		Details:       r.Details(),
	}
	if r.IsSensitive != nil {
		a.IsSensitive = *r.IsSensitive
	}
	return a
}

// Analyzed reports whether any analysis column has been filled.
func (a Analysis) Analyzed() bool {
	return a.ExtractedText != nil || a.AISummary != nil || len(a.AITags) > 0 ||
		a.Category != nil || a.Metadata != nil || a.Details != nil
}

func scanJSON(src any, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("unsupported jsonb source type")
	}
}
