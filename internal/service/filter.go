package service

import (
	"strings"

	"scanapi/internal/model"
)

// CategoryAll disables category filtering.
const CategoryAll = "all"

// ScanFilter narrows a scan listing. A zero Limit returns every match.
type ScanFilter struct {
	Query    string
	Category string
	Limit    int
	Offset   int
}

// FilterScans keeps the records whose title, description or extracted text contains query
// (case-insensitive) and whose content type or category equals category. An empty category
// or CategoryAll matches every record. Order is preserved.
func FilterScans(records []model.ScanRecord, query, category string) []model.ScanRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	category = strings.TrimSpace(category)

	out := make([]model.ScanRecord, 0, len(records))
	for _, r := range records {
		if matchesQuery(r, q) && matchesCategory(r, category) {
			out = append(out, r)
		}
	}
	return out
}

func matchesQuery(r model.ScanRecord, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Title), q) {
		return true
	}
	if r.Description != nil && strings.Contains(strings.ToLower(*r.Description), q) {
		return true
	}
	return r.ExtractedText != nil && strings.Contains(strings.ToLower(*r.ExtractedText), q)
}

func matchesCategory(r model.ScanRecord, category string) bool {
	if category == "" || strings.EqualFold(category, CategoryAll) {
		return true
	}
	if r.ContentType == category {
		return true
	}
	return r.Category != nil && *r.Category == category
}

// Categories returns the distinct analysis categories of records in first-seen order.
// Content types are not included; every record has one and they are offered separately.
func Categories(records []model.ScanRecord) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range records {
		if r.Category == nil || *r.Category == "" {
			continue
		}
		if _, ok := seen[*r.Category]; ok {
			continue
		}
		seen[*r.Category] = struct{}{}
		out = append(out, *r.Category)
	}
	return out
}

func paginate(records []model.ScanRecord, limit, offset int) []model.ScanRecord {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(records) {
		return []model.ScanRecord{}
	}
	records = records[offset:]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records
}
