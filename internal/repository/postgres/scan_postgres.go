package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"scanapi/internal/model"
	"scanapi/internal/repository"
)

// ScanPostgres is a PostgreSQL implementation of repository.ScanRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type ScanPostgres struct {
	db *sql.DB
}

// NewScanPostgres creates a new ScanPostgres repository.
func NewScanPostgres(db *sql.DB) *ScanPostgres {
	return &ScanPostgres{db: db}
}

var _ repository.ScanRepository = (*ScanPostgres)(nil)

const scanColumns = `id, user_id, title, description, content_type, file_path,
		extracted_text, ai_summary, ai_tags, category, is_sensitive, metadata, details,
		created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*model.ScanRecord, error) {
	var s model.ScanRecord
	if err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.Title,
		&s.Description,
		&s.ContentType,
		&s.FilePath,
		&s.ExtractedText,
		&s.AISummary,
		(*pq.StringArray)(&s.AITags),
		&s.Category,
		&s.IsSensitive,
		&s.Metadata,
		&s.Details,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new scan row and returns the stored record.
func (r *ScanPostgres) Create(ctx context.Context, scan *model.ScanRecord) (*model.ScanRecord, error) {
	const q = `
		INSERT INTO scans (id, user_id, title, description, content_type, file_path,
			extracted_text, ai_summary, ai_tags, category, is_sensitive, metadata, details,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + scanColumns
	row := r.db.QueryRowContext(ctx, q,
		scan.ID,
		scan.UserID,
		scan.Title,
		scan.Description,
		scan.ContentType,
		scan.FilePath,
		scan.ExtractedText,
		scan.AISummary,
		pq.Array(scan.AITags),
		scan.Category,
		scan.IsSensitive,
		scan.Metadata,
		scan.Details,
		scan.CreatedAt,
		scan.UpdatedAt,
	)
	return scanRecord(row)
}

// FindByID fetches a single scan owned by userID.
func (r *ScanPostgres) FindByID(ctx context.Context, userID, id string) (*model.ScanRecord, error) {
	const q = `SELECT ` + scanColumns + `
		FROM scans
		WHERE id = $1 AND user_id = $2`
	return scanRecord(r.db.QueryRowContext(ctx, q, id, userID))
}

// ListByUser returns the user's scans newest first, with a total count.
func (r *ScanPostgres) ListByUser(ctx context.Context, userID string, page repository.PageQuery) (*repository.PageResult[model.ScanRecord], error) {
	const qCount = `SELECT COUNT(*) FROM scans WHERE user_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, userID).Scan(&total); err != nil {
		return nil, err
	}

	// A NULL limit returns every row.
	var limit any
	if page.Limit > 0 {
		limit = page.Limit
	}
	const qList = `SELECT ` + scanColumns + `
		FROM scans
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, qList, userID, limit, page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ScanRecord, 0)
	for rows.Next() {
		s, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.ScanRecord]{
		Items: items,
		Total: total,
	}, nil
}

// UpdateAnalysis writes the analysis columns. It returns sql.ErrNoRows when nothing matched.
func (r *ScanPostgres) UpdateAnalysis(ctx context.Context, userID, id string, a model.Analysis) error {
	const q = `
		UPDATE scans
		SET extracted_text = $3, ai_summary = $4, ai_tags = $5, category = $6,
			is_sensitive = $7, metadata = $8, details = $9, updated_at = now()
		WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, userID,
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

// Delete removes a scan by ID. It does not return an error if the row does not exist.
func (r *ScanPostgres) Delete(ctx context.Context, userID, id string) error {
	const q = `DELETE FROM scans WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
