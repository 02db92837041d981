package model

import "time"

// ScanDocument is one uploaded file of a scan. Analysis is scoped per document.
type ScanDocument struct {
	ID          string `json:"id"`
	ScanID      string `json:"scan_id"`
	StoragePath string `json:"storage_path"`
	FileName    string `json:"file_name"`
	FileSize    int64  `json:"file_size"`
	FileType    string `json:"file_type"`
	Position    int    `json:"position"`
	Analysis
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
