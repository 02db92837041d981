package repository

import (
	"context"

	"scanapi/internal/model"
)

// ScanRepository defines data access for scan records using SQL queries only.
// Every read and write is scoped to the owning user.
type ScanRepository interface {
	// Create inserts a new scan record and returns the stored row.
	Create(ctx context.Context, scan *model.ScanRecord) (*model.ScanRecord, error)

	// FindByID returns the user's scan by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, userID, id string) (*model.ScanRecord, error)

	// ListByUser returns the user's scans ordered by creation time, newest first.
	ListByUser(ctx context.Context, userID string, pq PageQuery) (*PageResult[model.ScanRecord], error)

	// UpdateAnalysis writes the analysis columns onto the scan.
	UpdateAnalysis(ctx context.Context, userID, id string, a model.Analysis) error

	// Delete removes the user's scan. Document rows go with it.
	Delete(ctx context.Context, userID, id string) error
}

// ScanDocumentRepository defines data access for the per-file rows of a scan.
type ScanDocumentRepository interface {
	// Create inserts a document row and returns the stored row.
	Create(ctx context.Context, doc *model.ScanDocument) (*model.ScanDocument, error)

	// FindByID returns a document of the given scan, or sql.ErrNoRows.
	FindByID(ctx context.Context, scanID, id string) (*model.ScanDocument, error)

	// ListByScan returns the documents of a scan in upload order.
	ListByScan(ctx context.Context, scanID string) ([]model.ScanDocument, error)

	// UpdateAnalysis writes the analysis columns onto the document.
	UpdateAnalysis(ctx context.Context, id string, a model.Analysis) error
}
