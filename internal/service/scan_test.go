package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"scanapi/internal/analysis"
	analysisMocks "scanapi/internal/analysis/mocks"
	"scanapi/internal/model"
	"scanapi/internal/repository"
	repoMocks "scanapi/internal/repository/mocks"
	"scanapi/internal/storage"
	storeMocks "scanapi/internal/storage/mocks"
)

type fixture struct {
	store    *storeMocks.MockStorage
	scans    *repoMocks.MockScanRepository
	docs     *repoMocks.MockScanDocumentRepository
	analyzer *analysisMocks.MockAnalyzer
	svc      ScanService
}

func newFixture() *fixture {
	f := &fixture{
		store:    new(storeMocks.MockStorage),
		scans:    new(repoMocks.MockScanRepository),
		docs:     new(repoMocks.MockScanDocumentRepository),
		analyzer: new(analysisMocks.MockAnalyzer),
	}
	f.svc = NewScanService(f.store, f.scans, f.docs, f.analyzer,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time { return time.UnixMilli(1700000000000) }),
		WithPresignExpiry(5*time.Minute),
	)
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.store.AssertExpectations(t)
	f.scans.AssertExpectations(t)
	f.docs.AssertExpectations(t)
	f.analyzer.AssertExpectations(t)
}

func echoPut(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
	return storage.ObjectInfo{Key: key, Size: opt.Size, ContentType: opt.ContentType}
}

func files(names ...string) []FileUpload {
	out := make([]FileUpload, 0, len(names))
	for _, n := range names {
		out = append(out, FileUpload{Name: n, ContentType: "image/jpeg", Size: 5, Reader: strings.NewReader("bytes")})
	}
	return out
}

func strPtr(s string) *string { return &s }

func TestScanService_Create_MultiFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	var keys []string
	f.store.On("Put", ctx, mock.MatchedBy(func(key string) bool { return strings.HasPrefix(key, "u1/") }), mock.Anything, mock.Anything).
		Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
			keys = append(keys, key)
			return echoPut(ctx, key, r, opt)
		}, nil).Times(3)

	var scanID string
	f.scans.On("Create", ctx, mock.MatchedBy(func(s *model.ScanRecord) bool {
		return s.UserID == "u1" && s.ContentType == model.ContentTypeDocument && s.Title == "Trip"
	})).Return(func(_ context.Context, s *model.ScanRecord) *model.ScanRecord {
		scanID = s.ID
		cp := *s
		return &cp
	}, nil)

	var rows []*model.ScanDocument
	f.docs.On("Create", ctx, mock.Anything).Return(func(_ context.Context, d *model.ScanDocument) *model.ScanDocument {
		rows = append(rows, d)
		return d
	}, nil).Times(3)

	rec, err := f.svc.Create(ctx, CreateScanInput{
		UserID: "u1",
		Title:  "  Trip ",
		Files:  files("a.JPG", "b.png", "c"),
	})
	require.NoError(t, err)

	require.Len(t, keys, 3)
	require.Len(t, rows, 3)
	require.Len(t, rec.Documents, 3)
	assert.Equal(t, "u1/"+scanID+"/1700000000000-0.jpg", keys[0])
	assert.Equal(t, "u1/"+scanID+"/1700000000000-1.png", keys[1])
	assert.Equal(t, "u1/"+scanID+"/1700000000000-2", keys[2])
	assert.Equal(t, keys[0], rec.FilePath)
	assert.Nil(t, rec.Description)
	created := time.UnixMilli(1700000000000).UTC()
	assert.Equal(t, created, rec.CreatedAt)
	assert.Equal(t, created, rec.UpdatedAt)
	for i, d := range rows {
		assert.Equal(t, scanID, d.ScanID)
		assert.Equal(t, i, d.Position)
		assert.Equal(t, keys[i], d.StoragePath)
		assert.Equal(t, created, d.CreatedAt)
		assert.Equal(t, created, d.UpdatedAt)
	}
	f.assertExpectations(t)
}

func TestScanService_Create_Validation(t *testing.T) {
	tests := []struct {
		name    string
		in      CreateScanInput
		wantErr error
	}{
		{"missing user", CreateScanInput{Title: "t", Files: files("a.jpg")}, ErrUserRequired},
		{"missing title", CreateScanInput{UserID: "u1", Title: "  ", Files: files("a.jpg")}, ErrTitleRequired},
		{"no files", CreateScanInput{UserID: "u1", Title: "t"}, ErrNoFiles},
		{"nil reader", CreateScanInput{UserID: "u1", Title: "t", Files: []FileUpload{{Name: "a"}}}, ErrReaderNil},
		{"bad content type", CreateScanInput{UserID: "u1", Title: "t", ContentType: "video", Files: files("a.jpg")}, ErrInvalidContentType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.Create(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
			f.assertExpectations(t)
		})
	}
}

func TestScanService_Create_Rollback(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		setupMocks func(f *fixture)
		wantErrMsg string
	}{
		{
			name: "second upload fails",
			setupMocks: func(f *fixture) {
				f.store.On("Put", ctx, mock.MatchedBy(func(k string) bool { return strings.HasSuffix(k, "-0.jpg") }), mock.Anything, mock.Anything).
					Return(echoPut, nil).Once()
				f.store.On("Put", ctx, mock.MatchedBy(func(k string) bool { return strings.HasSuffix(k, "-1.jpg") }), mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("storage fail")).Once()
				f.store.On("Delete", ctx, mock.MatchedBy(func(k string) bool { return strings.HasSuffix(k, "-0.jpg") })).Return(nil).Once()
			},
			wantErrMsg: "upload b.jpg to storage: storage fail",
		},
		{
			name: "record insert fails",
			setupMocks: func(f *fixture) {
				f.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(echoPut, nil).Twice()
				f.scans.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				f.store.On("Delete", ctx, mock.Anything).Return(nil).Twice()
			},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name: "record insert fails and cleanup fails",
			setupMocks: func(f *fixture) {
				f.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(echoPut, nil).Twice()
				f.scans.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				f.store.On("Delete", ctx, mock.Anything).Return(errors.New("delete fail")).Twice()
			},
			wantErrMsg: "rollback delete failed",
		},
		{
			name: "document insert fails",
			setupMocks: func(f *fixture) {
				f.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(echoPut, nil).Twice()
				f.scans.On("Create", ctx, mock.Anything).Return(func(_ context.Context, s *model.ScanRecord) *model.ScanRecord {
					return s
				}, nil)
				f.docs.On("Create", ctx, mock.Anything).Return(nil, errors.New("fk fail")).Once()
				f.scans.On("Delete", ctx, "u1", mock.Anything).Return(nil)
				f.store.On("Delete", ctx, mock.Anything).Return(nil).Twice()
			},
			wantErrMsg: "db save failed: fk fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setupMocks(f)

			rec, err := f.svc.Create(ctx, CreateScanInput{UserID: "u1", Title: "t", Files: files("a.jpg", "b.jpg")})
			assert.Nil(t, rec)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErrMsg)
			f.assertExpectations(t)
		})
	}
}

func TestScanService_List(t *testing.T) {
	ctx := context.Background()
	records := []model.ScanRecord{
		{ID: "4", Title: "Lunch again", ContentType: "image", Analysis: model.Analysis{Category: strPtr("receipt")}},
		{ID: "3", Title: "Receipt lunch", ContentType: "document", Analysis: model.Analysis{Category: strPtr("receipt")}},
		{ID: "2", Title: "Holiday", ContentType: "image", Analysis: model.Analysis{Category: strPtr("photo")}},
		{ID: "1", Title: "Invoice", ContentType: "document", Analysis: model.Analysis{ExtractedText: strPtr("Total: $10 lunch")}},
	}

	tests := []struct {
		name    string
		filter  ScanFilter
		wantIDs []string
		total   int
	}{
		{"all", ScanFilter{}, []string{"4", "3", "2", "1"}, 4},
		{"query over title and text", ScanFilter{Query: "LUNCH"}, []string{"4", "3", "1"}, 3},
		{"category matches content type", ScanFilter{Category: "document"}, []string{"3", "1"}, 2},
		{"category matches category", ScanFilter{Category: "photo"}, []string{"2"}, 1},
		{"category all", ScanFilter{Category: "all"}, []string{"4", "3", "2", "1"}, 4},
		{"paged", ScanFilter{Limit: 1, Offset: 1}, []string{"3"}, 4},
		{"offset past end", ScanFilter{Offset: 10}, []string{}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.scans.On("ListByUser", ctx, "u1", repository.PageQuery{}).
				Return(&repository.PageResult[model.ScanRecord]{Items: records, Total: 4}, nil)

			res, err := f.svc.List(ctx, "u1", tt.filter)
			require.NoError(t, err)

			ids := make([]string, 0, len(res.Items))
			for _, r := range res.Items {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.total, res.Total)
			// Chips come from analysis categories only, deduplicated in listing order.
			assert.Equal(t, []string{"receipt", "photo"}, res.Categories)
		})
	}
}

func TestScanService_List_Errors(t *testing.T) {
	f := newFixture()
	_, err := f.svc.List(context.Background(), "", ScanFilter{})
	assert.ErrorIs(t, err, ErrUserRequired)

	f.scans.On("ListByUser", mock.Anything, "u1", mock.Anything).Return(nil, errors.New("db fail"))
	_, err = f.svc.List(context.Background(), "u1", ScanFilter{})
	assert.EqualError(t, err, "db fail")
}

func TestScanService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("with documents", func(t *testing.T) {
		f := newFixture()
		f.scans.On("FindByID", ctx, "u1", "s1").Return(&model.ScanRecord{ID: "s1"}, nil)
		f.docs.On("ListByScan", ctx, "s1").Return([]model.ScanDocument{{ID: "d1"}, {ID: "d2"}}, nil)

		rec, err := f.svc.Get(ctx, "u1", "s1")
		require.NoError(t, err)
		assert.Len(t, rec.Documents, 2)
		f.assertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		f.scans.On("FindByID", ctx, "u1", "s1").Return(nil, sql.ErrNoRows)

		_, err := f.svc.Get(ctx, "u1", "s1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing id", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Get(ctx, "u1", "")
		assert.ErrorIs(t, err, ErrIDRequired)
	})
}

func TestScanService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		setupMocks func(f *fixture)
		wantErr    error
		wantErrMsg string
	}{
		{
			name: "removes every document object then the row",
			setupMocks: func(f *fixture) {
				f.scans.On("FindByID", ctx, "u1", "s1").Return(&model.ScanRecord{ID: "s1", FilePath: "u1/s1/a"}, nil)
				f.docs.On("ListByScan", ctx, "s1").Return([]model.ScanDocument{{StoragePath: "u1/s1/a"}, {StoragePath: "u1/s1/b"}}, nil)
				f.store.On("Delete", ctx, "u1/s1/a").Return(nil)
				f.store.On("Delete", ctx, "u1/s1/b").Return(storage.ErrObjectNotFound)
				f.scans.On("Delete", ctx, "u1", "s1").Return(nil)
			},
		},
		{
			name: "legacy record without documents",
			setupMocks: func(f *fixture) {
				f.scans.On("FindByID", ctx, "u1", "s1").Return(&model.ScanRecord{ID: "s1", FilePath: "u1/old.jpg"}, nil)
				f.docs.On("ListByScan", ctx, "s1").Return([]model.ScanDocument{}, nil)
				f.store.On("Delete", ctx, "u1/old.jpg").Return(nil)
				f.scans.On("Delete", ctx, "u1", "s1").Return(nil)
			},
		},
		{
			name: "storage failure keeps the row",
			setupMocks: func(f *fixture) {
				f.scans.On("FindByID", ctx, "u1", "s1").Return(&model.ScanRecord{ID: "s1"}, nil)
				f.docs.On("ListByScan", ctx, "s1").Return([]model.ScanDocument{{StoragePath: "u1/s1/a"}}, nil)
				f.store.On("Delete", ctx, "u1/s1/a").Return(errors.New("s3 down"))
			},
			wantErrMsg: "delete storage: s3 down",
		},
		{
			name: "not found",
			setupMocks: func(f *fixture) {
				f.scans.On("FindByID", ctx, "u1", "s1").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setupMocks(f)

			err := f.svc.Delete(ctx, "u1", "s1")
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrMsg != "":
				assert.EqualError(t, err, tt.wantErrMsg)
			default:
				assert.NoError(t, err)
			}
			f.assertExpectations(t)
		})
	}
}

func TestScanService_Process(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.scans.On("FindByID", ctx, "u1", "s1").Return(&model.ScanRecord{
		ID: "s1", Title: "Invoice", ContentType: "document", Description: strPtr("March"),
	}, nil)
	f.docs.On("ListByScan", ctx, "s1").Return([]model.ScanDocument{
		{ID: "d1", StoragePath: "u1/s1/a.jpg"},
		{ID: "d2", StoragePath: "u1/s1/b.jpg"},
		{ID: "d3", StoragePath: "u1/s1/c.jpg"},
	}, nil)

	failure := &analysis.StorageError{Path: "u1/s1/a.jpg", Err: storage.ErrObjectNotFound}
	f.analyzer.On("Analyze", ctx, analysis.Request{FilePath: "u1/s1/a.jpg", ContentType: "document", Title: "Invoice", Description: "March"}).
		Return(nil, failure)

	second := model.AnalysisResult{Category: strPtr("invoice"), AITags: []string{"finance"}}
	third := model.AnalysisResult{Category: strPtr("receipt")}
	f.analyzer.On("Analyze", ctx, mock.MatchedBy(func(r analysis.Request) bool { return r.FilePath == "u1/s1/b.jpg" })).
		Return(&analysis.Result{FilePath: "u1/s1/b.jpg", Analysis: second}, nil)
	f.analyzer.On("Analyze", ctx, mock.MatchedBy(func(r analysis.Request) bool { return r.FilePath == "u1/s1/c.jpg" })).
		Return(&analysis.Result{FilePath: "u1/s1/c.jpg", Analysis: third}, nil)

	f.docs.On("UpdateAnalysis", ctx, "d2", model.AnalysisFrom(second)).Return(nil)
	f.docs.On("UpdateAnalysis", ctx, "d3", model.AnalysisFrom(third)).Return(nil)
	f.scans.On("UpdateAnalysis", ctx, "u1", "s1", model.AnalysisFrom(second)).Return(nil).Once()

	results, err := f.svc.Process(ctx, "u1", "s1")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "d1", results[0].DocumentID)
	assert.ErrorIs(t, results[0].Err, storage.ErrObjectNotFound)
	assert.Nil(t, results[0].Analysis)
	assert.Equal(t, "d2", results[1].DocumentID)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, "invoice", *results[1].Analysis.Category)
	assert.Equal(t, "d3", results[2].DocumentID)

	assert.Len(t, results.Succeeded(), 2)
	assert.Len(t, results.Failed(), 1)
	f.assertExpectations(t)
}

func TestScanService_Process_MirrorRetriesAfterFailedUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.scans.On("FindByID", ctx, "u1", "s1").Return(&model.ScanRecord{ID: "s1", Title: "Trip", ContentType: "image"}, nil)
	f.docs.On("ListByScan", ctx, "s1").Return([]model.ScanDocument{
		{ID: "d1", StoragePath: "u1/s1/a.jpg"},
		{ID: "d2", StoragePath: "u1/s1/b.jpg"},
		{ID: "d3", StoragePath: "u1/s1/c.jpg"},
	}, nil)

	first := model.AnalysisResult{Category: strPtr("photo")}
	second := model.AnalysisResult{Category: strPtr("receipt")}
	third := model.AnalysisResult{Category: strPtr("note")}
	for path, res := range map[string]model.AnalysisResult{"u1/s1/a.jpg": first, "u1/s1/b.jpg": second, "u1/s1/c.jpg": third} {
		path := path
		f.analyzer.On("Analyze", ctx, mock.MatchedBy(func(r analysis.Request) bool { return r.FilePath == path })).
			Return(&analysis.Result{FilePath: path, Analysis: res}, nil)
	}
	f.docs.On("UpdateAnalysis", ctx, mock.Anything, mock.Anything).Return(nil).Times(3)

	f.scans.On("UpdateAnalysis", ctx, "u1", "s1", model.AnalysisFrom(first)).Return(errors.New("conn reset")).Once()
	f.scans.On("UpdateAnalysis", ctx, "u1", "s1", model.AnalysisFrom(second)).Return(nil).Once()

	results, err := f.svc.Process(ctx, "u1", "s1")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.ErrorContains(t, results[0].Err, "save scan analysis")
	assert.NoError(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	f.scans.AssertNotCalled(t, "UpdateAnalysis", ctx, "u1", "s1", model.AnalysisFrom(third))
	f.assertExpectations(t)
}

func TestScanService_Process_NotFound(t *testing.T) {
	f := newFixture()
	f.scans.On("FindByID", mock.Anything, "u1", "s1").Return(nil, sql.ErrNoRows)

	_, err := f.svc.Process(context.Background(), "u1", "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScanService_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("streams the stored object", func(t *testing.T) {
		f := newFixture()
		f.scans.On("FindByID", ctx, "u1", "s1").Return(&model.ScanRecord{ID: "s1"}, nil)
		f.docs.On("FindByID", ctx, "s1", "d1").Return(&model.ScanDocument{
			ID: "d1", StoragePath: "u1/s1/1-0.pdf", FileName: "bill.pdf", FileType: "application/pdf", FileSize: 3,
		}, nil)
		f.store.On("Get", ctx, "u1/s1/1-0.pdf").
			Return(io.NopCloser(strings.NewReader("pdf")), storage.ObjectInfo{Size: 3}, nil)

		dl, err := f.svc.Download(ctx, "u1", "s1", "d1")
		require.NoError(t, err)
		defer dl.Body.Close()

		body, _ := io.ReadAll(dl.Body)
		assert.Equal(t, "pdf", string(body))
		assert.Equal(t, "bill.pdf", dl.FileName)
		assert.Equal(t, "application/pdf", dl.ContentType)
		assert.EqualValues(t, 3, dl.Size)
	})

	t.Run("missing object", func(t *testing.T) {
		f := newFixture()
		f.scans.On("FindByID", ctx, "u1", "s1").Return(&model.ScanRecord{ID: "s1"}, nil)
		f.docs.On("FindByID", ctx, "s1", "d1").Return(&model.ScanDocument{StoragePath: "k"}, nil)
		f.store.On("Get", ctx, "k").Return(nil, storage.ObjectInfo{}, storage.ErrObjectNotFound)

		_, err := f.svc.Download(ctx, "u1", "s1", "d1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("document of another scan", func(t *testing.T) {
		f := newFixture()
		f.scans.On("FindByID", ctx, "u1", "s1").Return(&model.ScanRecord{ID: "s1"}, nil)
		f.docs.On("FindByID", ctx, "s1", "d9").Return(nil, sql.ErrNoRows)

		_, err := f.svc.Download(ctx, "u1", "s1", "d9")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestScanService_PresignDownload(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.scans.On("FindByID", ctx, "u1", "s1").Return(&model.ScanRecord{ID: "s1"}, nil)
	f.docs.On("FindByID", ctx, "s1", "d1").Return(&model.ScanDocument{StoragePath: "u1/s1/a.jpg"}, nil)
	f.store.On("PresignGet", ctx, "u1/s1/a.jpg", 5*time.Minute).Return("https://minio/u1/s1/a.jpg?sig", nil)

	url, err := f.svc.PresignDownload(ctx, "u1", "s1", "d1")
	require.NoError(t, err)
	assert.Equal(t, "https://minio/u1/s1/a.jpg?sig", url)
	f.assertExpectations(t)
}
