package analysis

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"strings"

	"scanapi/internal/model"
)

// ParseAnalysis decodes the model's message content. The content must be a single JSON
// object; anything else fails with ErrParseAnalysis.
//
// Known keys are checked against their expected type. A value of the wrong type, or an
// enum outside its allowed set, is set to null in the returned field map and left nil in
// the typed result. Unknown keys are kept as sent. Numbers are kept as json.Number so
// re-encoding the field map reproduces them exactly.
func ParseAnalysis(content string) (model.AnalysisResult, map[string]any, error) {
	fields, err := decodeObject(content)
	if err != nil {
		return model.AnalysisResult{}, nil, errors.Join(ErrParseAnalysis, err)
	}

	r := model.AnalysisResult{
		ExtractedText: stringField(fields, "extractedText"),
		AISummary:     stringField(fields, "aiSummary"),
		AITags:        stringsField(fields, "aiTags"),
		Category:      enumField(fields, "category", model.Categories),
		IsSensitive:   boolField(fields, "isSensitive"),
	}

	if obj := objectField(fields, "translation"); obj != nil {
		r.Translation = &model.Translation{
			OriginalLanguage: stringField(obj, "originalLanguage"),
			TranslatedText:   stringField(obj, "translatedText"),
			Confidence:       floatField(obj, "confidence"),
		}
	}
	if obj := objectField(fields, "enhancement"); obj != nil {
		r.Enhancement = &model.Enhancement{
			ImageQuality: enumField(obj, "imageQuality", model.ImageQualities),
			Suggestions:  stringsField(obj, "suggestions"),
			Readability:  enumField(obj, "readability", model.Readabilities),
		}
	}
	if obj := objectField(fields, "smartInsights"); obj != nil {
		r.SmartInsights = &model.Insights{
			KeyPoints:         stringsField(obj, "keyPoints"),
			ActionItems:       stringsField(obj, "actionItems"),
			Entities:          stringsField(obj, "entities"),
			DocumentStructure: enumField(obj, "documentStructure", model.DocumentStructures),
		}
	}
	if obj := objectField(fields, "metadata"); obj != nil {
		r.Metadata = &model.Metadata{
			Language:       stringField(obj, "language"),
			Confidence:     floatField(obj, "confidence"),
			DocumentType:   stringField(obj, "documentType"),
			ProcessingTime: stringField(obj, "processingTime"),
			TextRegions:    intField(obj, "textRegions"),
			EstimatedWords: intField(obj, "estimatedWords"),
		}
	}

	return r, fields, nil
}

func decodeObject(content string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("content is null")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON object")
	}
	return fields, nil
}

// lookup returns the value for key, or false when the key is absent or null.
func lookup(m map[string]any, key string) (any, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func stringField(m map[string]any, key string) *string {
	v, ok := lookup(m, key)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		m[key] = nil
		return nil
	}
	return &s
}

func enumField(m map[string]any, key string, allowed []string) *string {
	s := stringField(m, key)
	if s == nil {
		return nil
	}
	if !model.OneOf(*s, allowed) {
		m[key] = nil
		return nil
	}
	return s
}

func boolField(m map[string]any, key string) *bool {
	v, ok := lookup(m, key)
	if !ok {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		m[key] = nil
		return nil
	}
	return &b
}

func floatField(m map[string]any, key string) *float64 {
	v, ok := lookup(m, key)
	if !ok {
		return nil
	}
	n, ok := v.(json.Number)
	if !ok {
		m[key] = nil
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		m[key] = nil
		return nil
	}
	return &f
}

func intField(m map[string]any, key string) *int {
	v, ok := lookup(m, key)
	if !ok {
		return nil
	}
	n, ok := v.(json.Number)
	if !ok {
		m[key] = nil
		return nil
	}
	i, ok := wholeNumber(n)
	if !ok {
		m[key] = nil
		return nil
	}
	return &i
}

// wholeNumber accepts integral values in any JSON spelling, e.g. 12, 12.0 or 1.2e1.
func wholeNumber(n json.Number) (int, bool) {
	if i, err := n.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
		return int(i), true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt || f >= math.MaxInt {
		return 0, false
	}
	return int(f), true
}

func stringsField(m map[string]any, key string) []string {
	v, ok := lookup(m, key)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		m[key] = nil
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		s, ok := it.(string)
		if !ok {
			m[key] = nil
			return nil
		}
		out = append(out, s)
	}
	return out
}

func objectField(m map[string]any, key string) map[string]any {
	v, ok := lookup(m, key)
	if !ok {
		return nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		m[key] = nil
		return nil
	}
	return obj
}
