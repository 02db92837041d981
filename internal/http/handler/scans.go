package handler

import (
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"scanapi/internal/http/middleware"
	"scanapi/internal/model"
	"scanapi/internal/service"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// processItem is one entry of the per-document process response.
type processItem struct {
	DocumentID string                `json:"document_id"`
	FilePath   string                `json:"file_path"`
	Success    bool                  `json:"success"`
	Analysis   *model.AnalysisResult `json:"analysis,omitempty"`
	Error      string                `json:"error,omitempty"`
}

type processResponse struct {
	ScanID    string        `json:"scan_id"`
	Results   []processItem `json:"results"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}

// CreateScan saves a new scan from a multipart form.
// Fields: title, description, contentType, and one or more "files" parts ("file" is accepted too).
//
// @Summary  Save a scan
// @Tags     scans
// @Accept   multipart/form-data
// @Produce  json
// @Param    X-User-ID    header    string  true   "owner"
// @Param    title        formData  string  true   "title"
// @Param    description  formData  string  false  "description"
// @Param    contentType  formData  string  false  "document or image"
// @Param    files        formData  file    true   "scan files"
// @Success  201  {object}  model.ScanRecord
// @Failure  400  {object}  errorPayload
// @Router   /scans [post]
func CreateScan(svc service.ScanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		headers := append(form.File["files"], form.File["file"]...)
		if len(headers) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		uploads := make([]service.FileUpload, 0, len(headers))
		opened := make([]multipart.File, 0, len(headers))
		defer func() {
			for _, f := range opened {
				f.Close()
			}
		}()
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			opened = append(opened, f)

			ct := fh.Header.Get("Content-Type")
			if ct == "" {
				ct = "application/octet-stream"
			}
			uploads = append(uploads, service.FileUpload{
				Name:        fh.Filename,
				ContentType: ct,
				Size:        fh.Size,
				Reader:      f,
			})
		}

		rec, err := svc.Create(c.UserContext(), service.CreateScanInput{
			UserID:      middleware.UserID(c),
			Title:       formValue(form, "title"),
			Description: formValue(form, "description"),
			ContentType: formValue(form, "contentType"),
			Files:       uploads,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

// ListScans lists the caller's scans with search, category filter and limit & offset.
//
// @Summary  List scans
// @Tags     scans
// @Produce  json
// @Param    X-User-ID  header  string  true   "owner"
// @Param    q          query   string  false  "search over title, description and extracted text"
// @Param    category   query   string  false  "content type or category; all matches everything"
// @Param    limit      query   int     false  "page size"
// @Param    offset     query   int     false  "page offset"
// @Success  200  {object}  service.ScanListResult
// @Failure  400  {object}  errorPayload
// @Router   /scans [get]
func ListScans(svc service.ScanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultListLimit)))
		if err != nil || limit < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		if limit == 0 {
			limit = defaultListLimit
		}
		limit = min(limit, maxListLimit)

		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil || offset < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), middleware.UserID(c), service.ScanFilter{
			Query:    c.Query("q"),
			Category: c.Query("category"),
			Limit:    limit,
			Offset:   offset,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetScan returns a scan with its documents.
//
// @Summary  Get a scan
// @Tags     scans
// @Produce  json
// @Param    X-User-ID  header  string  true  "owner"
// @Param    id         path    string  true  "scan id"
// @Success  200  {object}  model.ScanRecord
// @Failure  404  {object}  errorPayload
// @Router   /scans/{id} [get]
func GetScan(svc service.ScanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rec, err := svc.Get(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rec)
	}
}

// DeleteScan removes a scan and its stored files.
//
// @Summary  Delete a scan
// @Tags     scans
// @Param    X-User-ID  header  string  true  "owner"
// @Param    id         path    string  true  "scan id"
// @Success  204
// @Failure  404  {object}  errorPayload
// @Router   /scans/{id} [delete]
func DeleteScan(svc service.ScanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), middleware.UserID(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ProcessScanDocuments analyzes every document of a scan in order.
// Per-document failures are reported in the body; the status stays 200.
//
// @Summary  Analyze a scan's documents
// @Tags     scans
// @Produce  json
// @Param    X-User-ID  header  string  true  "owner"
// @Param    id         path    string  true  "scan id"
// @Success  200  {object}  processResponse
// @Failure  404  {object}  errorPayload
// @Router   /scans/{id}/process [post]
func ProcessScanDocuments(svc service.ScanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		results, err := svc.Process(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}

		res := processResponse{
			ScanID:    id,
			Results:   make([]processItem, 0, len(results)),
			Succeeded: len(results.Succeeded()),
			Failed:    len(results.Failed()),
		}
		for _, r := range results {
			item := processItem{
				DocumentID: r.DocumentID,
				FilePath:   r.FilePath,
				Success:    r.Err == nil,
				Analysis:   r.Analysis,
			}
			if r.Err != nil {
				item.Error = r.Err.Error()
			}
			res.Results = append(res.Results, item)
		}
		return c.JSON(res)
	}
}

// DownloadDocument streams a stored document as an attachment.
//
// @Summary  Download a document
// @Tags     scans
// @Produce  octet-stream
// @Param    X-User-ID  header  string  true  "owner"
// @Param    id         path    string  true  "scan id"
// @Param    docId      path    string  true  "document id"
// @Success  200  {file}    binary
// @Failure  404  {object}  errorPayload
// @Router   /scans/{id}/documents/{docId}/download [get]
func DownloadDocument(svc service.ScanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		docID, ok := uuidParam(c, "docId")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		dl, err := svc.Download(c.UserContext(), middleware.UserID(c), id, docID)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Attachment(dl.FileName)
		if dl.ContentType != "" {
			c.Set(fiber.HeaderContentType, dl.ContentType)
		}
		size := int(dl.Size)
		if size <= 0 {
			size = -1
		}
		// fasthttp closes the stream once the body is written.
		return c.SendStream(dl.Body, size)
	}
}

// DocumentURL returns a presigned download URL for a document.
//
// @Summary  Presigned document URL
// @Tags     scans
// @Produce  json
// @Param    X-User-ID  header  string  true  "owner"
// @Param    id         path    string  true  "scan id"
// @Param    docId      path    string  true  "document id"
// @Success  200  {object}  map[string]string
// @Failure  404  {object}  errorPayload
// @Router   /scans/{id}/documents/{docId}/url [get]
func DocumentURL(svc service.ScanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		docID, ok := uuidParam(c, "docId")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		url, err := svc.PresignDownload(c.UserContext(), middleware.UserID(c), id, docID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	}
}

func uuidParam(c *fiber.Ctx, name string) (string, bool) {
	v := c.Params(name)
	if _, err := uuid.Parse(v); err != nil {
		return "", false
	}
	return v, true
}
