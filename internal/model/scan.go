package model

import "time"

// ScanRecord is a user-saved capture made of one or more documents.
// FilePath points at the primary (first) document.
type ScanRecord struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	ContentType string  `json:"content_type"`
	FilePath    string  `json:"file_path"`
	Analysis
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Documents []ScanDocument `json:"documents,omitempty"`
}
