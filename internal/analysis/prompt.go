package analysis

import (
	"fmt"
	"strings"
	"time"

	"scanapi/internal/model"
)

const systemPromptTemplate = `You are an assistant that performs document and image analysis. Read the provided image or document and extract every relevant piece of information.

Reply with a single JSON object in exactly this shape:
{
  "extractedText": "all visible text found in the image or document",
  "aiSummary": "a concise summary of the key points",
  "aiTags": ["tags", "describing", "the", "content"],
  "category": "%s",
  "isSensitive": false,
  "translation": {
    "originalLanguage": "detected language",
    "translatedText": "English translation when the text is not English, otherwise null",
    "confidence": 0.95
  },
  "enhancement": {
    "imageQuality": "%s",
    "suggestions": ["capture improvement", "another improvement"],
    "readability": "%s"
  },
  "smartInsights": {
    "keyPoints": ["key point"],
    "actionItems": ["action item"],
    "entities": ["people", "dates", "amounts", "locations"],
    "documentStructure": "%s"
  },
  "metadata": {
    "language": "detected language ISO code",
    "confidence": 0.95,
    "documentType": "specific document type",
    "processingTime": "%s",
    "textRegions": 1,
    "estimatedWords": 100
  }
}

Use only the listed values for category, imageQuality, readability and documentStructure. Set isSensitive to true when the content holds personal identifiers, financial account data or credentials.`

// SystemPrompt renders the schema instruction sent as the system message.
func SystemPrompt(now time.Time) string {
	return fmt.Sprintf(systemPromptTemplate,
		strings.Join(model.Categories, "|"),
		strings.Join(model.ImageQualities, "|"),
		strings.Join(model.Readabilities, "|"),
		strings.Join(model.DocumentStructures, "|"),
		FormatTimestamp(now),
	)
}

// UserPrompt renders the text part of the user message.
func UserPrompt(req Request) string {
	kind := strings.TrimSpace(req.ContentType)
	if kind == "" {
		kind = "image"
	}

	var b strings.Builder
	b.WriteString("Please analyze this ")
	b.WriteString(kind)
	if title := strings.TrimSpace(req.Title); title != "" {
		fmt.Fprintf(&b, " titled %q", title)
	}
	b.WriteString(".")
	if desc := strings.TrimSpace(req.Description); desc != "" {
		b.WriteString(" Description: ")
		b.WriteString(desc)
		b.WriteString(".")
	}
	b.WriteString(" Provide comprehensive analysis including OCR, categorization, and insights.")
	return b.String()
}

// FormatTimestamp renders t as an ISO 8601 UTC string with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
