package handler

import (
	"database/sql"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"scanapi/internal/analysis"
	"scanapi/internal/http/middleware"
	"scanapi/internal/service"
)

// processScanCORS is permissive: the analysis function is called straight from browsers.
var processScanCORS = cors.Config{
	AllowOrigins: "*",
	AllowMethods: strings.Join([]string{fiber.MethodPost, fiber.MethodOptions}, ","),
	AllowHeaders: "authorization, x-client-info, apikey, content-type",
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; the scan service and the analyzer hold the logic.
func RegisterRoutes(app *fiber.App, db *sql.DB, scanSvc service.ScanService, an analysis.Analyzer) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Use("/process-scan", cors.New(processScanCORS))
	app.Post("/process-scan", ProcessScan(an))
	app.Options("/process-scan", PreflightProcessScan())

	scans := app.Group("/scans", middleware.RequireUser())
	scans.Post("", CreateScan(scanSvc))
	scans.Get("", ListScans(scanSvc))
	scans.Get("/:id", GetScan(scanSvc))
	scans.Delete("/:id", DeleteScan(scanSvc))
	scans.Post("/:id/process", ProcessScanDocuments(scanSvc))
	scans.Get("/:id/documents/:docId/download", DownloadDocument(scanSvc))
	scans.Get("/:id/documents/:docId/url", DocumentURL(scanSvc))
}
