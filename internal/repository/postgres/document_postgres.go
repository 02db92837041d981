package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"scanapi/internal/model"
	"scanapi/internal/repository"
)

// ScanDocumentPostgres is a PostgreSQL implementation of repository.ScanDocumentRepository.
type ScanDocumentPostgres struct {
	db *sql.DB
}

// NewScanDocumentPostgres creates a new ScanDocumentPostgres repository.
func NewScanDocumentPostgres(db *sql.DB) *ScanDocumentPostgres {
	return &ScanDocumentPostgres{db: db}
}

var _ repository.ScanDocumentRepository = (*ScanDocumentPostgres)(nil)

const documentColumns = `id, scan_id, storage_path, file_name, file_size, file_type, position,
		extracted_text, ai_summary, ai_tags, category, is_sensitive, metadata, details,
		created_at, updated_at`

func scanDocument(row rowScanner) (*model.ScanDocument, error) {
	var d model.ScanDocument
	if err := row.Scan(
		&d.ID,
		&d.ScanID,
		&d.StoragePath,
		&d.FileName,
		&d.FileSize,
		&d.FileType,
		&d.Position,
		&d.ExtractedText,
		&d.AISummary,
		(*pq.StringArray)(&d.AITags),
		&d.Category,
		&d.IsSensitive,
		&d.Metadata,
		&d.Details,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a document row and returns the stored record.
func (r *ScanDocumentPostgres) Create(ctx context.Context, doc *model.ScanDocument) (*model.ScanDocument, error) {
	const q = `
		INSERT INTO scan_documents (id, scan_id, storage_path, file_name, file_size, file_type,
			position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.ScanID,
		doc.StoragePath,
		doc.FileName,
		doc.FileSize,
		doc.FileType,
		doc.Position,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a document belonging to scanID.
func (r *ScanDocumentPostgres) FindByID(ctx context.Context, scanID, id string) (*model.ScanDocument, error) {
	const q = `SELECT ` + documentColumns + `
		FROM scan_documents
		WHERE id = $1 AND scan_id = $2`
	return scanDocument(r.db.QueryRowContext(ctx, q, id, scanID))
}

// ListByScan returns the documents of a scan in upload order.
func (r *ScanDocumentPostgres) ListByScan(ctx context.Context, scanID string) ([]model.ScanDocument, error) {
	const q = `SELECT ` + documentColumns + `
		FROM scan_documents
		WHERE scan_id = $1
		ORDER BY position ASC, created_at ASC`
	rows, err := r.db.QueryContext(ctx, q, scanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]model.ScanDocument, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

// UpdateAnalysis writes the analysis columns. It returns sql.ErrNoRows when nothing matched.
func (r *ScanDocumentPostgres) UpdateAnalysis(ctx context.Context, id string, a model.Analysis) error {
	const q = `
		UPDATE scan_documents
		SET extracted_text = $2, ai_summary = $3, ai_tags = $4, category = $5,
			is_sensitive = $6, metadata = $7, details = $8, updated_at = now()
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id,
		a.ExtractedText,
		a.AISummary,
		pq.Array(a.AITags),
		a.Category,
		a.IsSensitive,
		a.Metadata,
		a.Details,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
