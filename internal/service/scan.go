package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"scanapi/internal/analysis"
	"scanapi/internal/logging"
	"scanapi/internal/model"
	"scanapi/internal/repository"
	"scanapi/internal/storage"
)

var (
	ErrIDRequired         = errors.New("id is required")
	ErrUserRequired       = errors.New("user id is required")
	ErrTitleRequired      = errors.New("title is required")
	ErrNoFiles            = errors.New("at least one file is required")
	ErrInvalidContentType = errors.New("content type must be document or image")
	ErrReaderNil          = errors.New("reader is nil")
	ErrNotFound           = errors.New("scan not found")
)

const defaultPresignExpiry = 15 * time.Minute

// FileUpload is one file of a multi-file scan.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// CreateScanInput carries everything needed to save a new scan.
type CreateScanInput struct {
	UserID      string
	Title       string
	Description string
	ContentType string
	Files       []FileUpload
}

// ScanListResult is the service-level DTO for a filtered page of scans.
type ScanListResult struct {
	Items      []model.ScanRecord `json:"data"`
	Total      int                `json:"total"`
	Categories []string           `json:"categories"`
}

// Download is an open stream of a stored document. The caller closes Body.
type Download struct {
	Body        io.ReadCloser
	FileName    string
	ContentType string
	Size        int64
}

// ScanService defines the use cases for saving, analyzing and browsing scans.
type ScanService interface {
	// Create uploads each file sequentially, then saves the record and one document row per file.
	// Uploaded objects are removed again if any later step fails.
	Create(ctx context.Context, in CreateScanInput) (*model.ScanRecord, error)

	// List returns the user's scans matching filter, newest first.
	List(ctx context.Context, userID string, filter ScanFilter) (*ScanListResult, error)

	// Get returns a scan with its documents.
	Get(ctx context.Context, userID, id string) (*model.ScanRecord, error)

	// Delete removes every stored object of the scan, then the record.
	Delete(ctx context.Context, userID, id string) error

	// Process analyzes the scan's documents one at a time and writes each result back.
	// Per-document failures are reported in the results, not as the returned error.
	Process(ctx context.Context, userID, id string) (ProcessResults, error)

	// Download opens a document's stored bytes.
	Download(ctx context.Context, userID, scanID, docID string) (*Download, error)

	// PresignDownload returns a time-limited URL for a document.
	PresignDownload(ctx context.Context, userID, scanID, docID string) (string, error)
}

// Option customizes the scan service.
type Option func(*scanService)

// WithLogger sets the logger; the slog default is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(s *scanService) { s.log = l }
}

// WithPresignExpiry sets the lifetime of presigned download URLs.
func WithPresignExpiry(d time.Duration) Option {
	return func(s *scanService) {
		if d > 0 {
			s.presignExpiry = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *scanService) { s.now = now }
}

type scanService struct {
	store         storage.Storage
	scans         repository.ScanRepository
	docs          repository.ScanDocumentRepository
	analyzer      analysis.Analyzer
	log           *slog.Logger
	presignExpiry time.Duration
	now           func() time.Time
}

// NewScanService constructs a new ScanService.
func NewScanService(
	store storage.Storage,
	scans repository.ScanRepository,
	docs repository.ScanDocumentRepository,
	analyzer analysis.Analyzer,
	opts ...Option,
) ScanService {
	s := &scanService{
		store:         store,
		scans:         scans,
		docs:          docs,
		analyzer:      analyzer,
		log:           slog.Default(),
		presignExpiry: defaultPresignExpiry,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *scanService) Create(ctx context.Context, in CreateScanInput) (*model.ScanRecord, error) {
	contentType, err := validateCreate(&in)
	if err != nil {
		return nil, err
	}

	scanID := uuid.New().String()
	uploadedAt := s.now()
	createdAt := uploadedAt.UTC()

	docs := make([]model.ScanDocument, 0, len(in.Files))
	uploaded := make([]string, 0, len(in.Files))
	for i, f := range in.Files {
		key := storage.ObjectKey(in.UserID, scanID, uploadedAt, i, f.Name)
		info, err := s.store.Put(ctx, key, f.Reader, storage.PutObjectOptions{
			Size:        f.Size,
			ContentType: f.ContentType,
			Metadata: map[string]string{
				"original-filename": f.Name,
			},
		})
		if err != nil {
			return nil, s.rollback(ctx, uploaded, fmt.Errorf("upload %s to storage: %w", f.Name, err))
		}
		uploaded = append(uploaded, key)

		size := info.Size
		if size <= 0 {
			size = f.Size
		}
		docs = append(docs, model.ScanDocument{
			ID:          uuid.New().String(),
			ScanID:      scanID,
			StoragePath: key,
			FileName:    f.Name,
			FileSize:    size,
			FileType:    f.ContentType,
			Position:    i,
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
		})
	}

	rec := &model.ScanRecord{
		ID:          scanID,
		UserID:      in.UserID,
		Title:       in.Title,
		ContentType: contentType,
		FilePath:    uploaded[0],
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if d := strings.TrimSpace(in.Description); d != "" {
		rec.Description = &d
	}

	stored, err := s.scans.Create(ctx, rec)
	if err != nil {
		return nil, s.rollback(ctx, uploaded, fmt.Errorf("db save failed: %w", err))
	}

	stored.Documents = make([]model.ScanDocument, 0, len(docs))
	for i := range docs {
		doc, err := s.docs.Create(ctx, &docs[i])
		if err != nil {
			// Document rows cascade with the record.
			if delErr := s.scans.Delete(ctx, in.UserID, scanID); delErr != nil {
				s.log.Error("scan_rollback_failed", "scan_id", scanID, logging.Err(delErr))
			}
			return nil, s.rollback(ctx, uploaded, fmt.Errorf("db save failed: %w", err))
		}
		stored.Documents = append(stored.Documents, *doc)
	}

	s.log.Info("scan_created",
		"scan_id", scanID,
		"user_id", in.UserID,
		"documents", len(stored.Documents),
	)
	return stored, nil
}

func validateCreate(in *CreateScanInput) (string, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return "", ErrUserRequired
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return "", ErrTitleRequired
	}
	if len(in.Files) == 0 {
		return "", ErrNoFiles
	}
	for _, f := range in.Files {
		if f.Reader == nil {
			return "", ErrReaderNil
		}
	}
	ct := strings.TrimSpace(in.ContentType)
	if ct == "" {
		ct = model.ContentTypeDocument
	}
	if !model.ValidContentType(ct) {
		return "", ErrInvalidContentType
	}
	return ct, nil
}

// rollback deletes already uploaded objects and returns cause, annotated when cleanup fails.
func (s *scanService) rollback(ctx context.Context, keys []string, cause error) error {
	var failed []error
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", key, err))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%w; rollback delete failed: %v", cause, errors.Join(failed...))
	}
	return cause
}

func (s *scanService) List(ctx context.Context, userID string, filter ScanFilter) (*ScanListResult, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}

	res, err := s.scans.ListByUser(ctx, userID, repository.PageQuery{})
	if err != nil {
		return nil, err
	}

	matched := FilterScans(res.Items, filter.Query, filter.Category)
	return &ScanListResult{
		Items:      paginate(matched, filter.Limit, filter.Offset),
		Total:      len(matched),
		Categories: Categories(res.Items),
	}, nil
}

func (s *scanService) Get(ctx context.Context, userID, id string) (*model.ScanRecord, error) {
	rec, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	docs, err := s.docs.ListByScan(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	rec.Documents = docs
	return rec, nil
}

func (s *scanService) Delete(ctx context.Context, userID, id string) error {
	rec, err := s.find(ctx, userID, id)
	if err != nil {
		return err
	}
	docs, err := s.docs.ListByScan(ctx, rec.ID)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	keys := make([]string, 0, len(docs)+1)
	for _, d := range docs {
		keys = append(keys, d.StoragePath)
	}
	if len(keys) == 0 && rec.FilePath != "" {
		keys = append(keys, rec.FilePath)
	}

	// Storage first; the row stays when an object cannot be removed so the path is not lost.
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			return fmt.Errorf("delete storage: %w", err)
		}
	}
	if err := s.scans.Delete(ctx, userID, rec.ID); err != nil {
		return err
	}

	s.log.Info("scan_deleted", "scan_id", rec.ID, "user_id", userID, "objects", len(keys))
	return nil
}

func (s *scanService) Process(ctx context.Context, userID, id string) (ProcessResults, error) {
	rec, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	docs, err := s.docs.ListByScan(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	var description string
	if rec.Description != nil {
		description = *rec.Description
	}

	results := make(ProcessResults, 0, len(docs))
	mirrored := false
	for _, doc := range docs {
		item := ProcessResult{DocumentID: doc.ID, FilePath: doc.StoragePath}

		res, err := s.analyzer.Analyze(ctx, analysis.Request{
			FilePath:    doc.StoragePath,
			ContentType: rec.ContentType,
			Title:       rec.Title,
			Description: description,
		})
		if err != nil {
			item.Err = err
			s.log.Warn("scan_document_analysis_failed",
				"scan_id", rec.ID,
				"document_id", doc.ID,
				logging.Err(err),
			)
			results = append(results, item)
			continue
		}

		result := res.Analysis
		item.Analysis = &result
		stored := model.AnalysisFrom(result)

		if err := s.docs.UpdateAnalysis(ctx, doc.ID, stored); err != nil {
			item.Err = fmt.Errorf("save document analysis: %w", err)
			s.log.Warn("scan_document_update_failed",
				"scan_id", rec.ID,
				"document_id", doc.ID,
				logging.Err(err),
			)
			results = append(results, item)
			continue
		}

		// The scan row mirrors the first document whose analysis it actually stored.
		if !mirrored {
			if err := s.scans.UpdateAnalysis(ctx, userID, rec.ID, stored); err != nil {
				item.Err = fmt.Errorf("save scan analysis: %w", err)
				s.log.Warn("scan_update_failed", "scan_id", rec.ID, logging.Err(err))
			} else {
				mirrored = true
			}
		}
		results = append(results, item)
	}

	s.log.Info("scan_processed",
		"scan_id", rec.ID,
		"succeeded", len(results.Succeeded()),
		"failed", len(results.Failed()),
	)
	return results, nil
}

func (s *scanService) Download(ctx context.Context, userID, scanID, docID string) (*Download, error) {
	doc, err := s.findDocument(ctx, userID, scanID, docID)
	if err != nil {
		return nil, err
	}

	body, info, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get storage: %w", err)
	}

	contentType := doc.FileType
	if contentType == "" {
		contentType = info.ContentType
	}
	name := doc.FileName
	if name == "" {
		name = path.Base(doc.StoragePath)
	}
	size := info.Size
	if size <= 0 {
		size = doc.FileSize
	}
	return &Download{Body: body, FileName: name, ContentType: contentType, Size: size}, nil
}

func (s *scanService) PresignDownload(ctx context.Context, userID, scanID, docID string) (string, error) {
	doc, err := s.findDocument(ctx, userID, scanID, docID)
	if err != nil {
		return "", err
	}
	url, err := s.store.PresignGet(ctx, doc.StoragePath, s.presignExpiry)
	if err != nil {
		return "", fmt.Errorf("presign: %w", err)
	}
	return url, nil
}

func (s *scanService) find(ctx context.Context, userID, id string) (*model.ScanRecord, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	if id == "" {
		return nil, ErrIDRequired
	}
	rec, err := s.scans.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *scanService) findDocument(ctx context.Context, userID, scanID, docID string) (*model.ScanDocument, error) {
	if docID == "" {
		return nil, ErrIDRequired
	}
	rec, err := s.find(ctx, userID, scanID)
	if err != nil {
		return nil, err
	}
	doc, err := s.docs.FindByID(ctx, rec.ID, docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}
