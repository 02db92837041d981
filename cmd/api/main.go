package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"scanapi/docs"
	"scanapi/internal/analysis"
	"scanapi/internal/config"
	"scanapi/internal/database"
	"scanapi/internal/database/migration"
	handlers "scanapi/internal/http/handler"
	"scanapi/internal/http/middleware"
	"scanapi/internal/logging"
	"scanapi/internal/otel"
	"scanapi/internal/repository/postgres"
	"scanapi/internal/service"
	"scanapi/internal/storage"
)

// Multi-file scans arrive in a single multipart request.
const bodyLimit = 50 * 1024 * 1024

// @title Scan API
// @version 1.0
// @description Scan storage and AI document analysis.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()
	log := logging.Default(loc)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid_configuration", logging.Err(err))
		os.Exit(1)
	}
	if cfg.OpenAI.APIKey == "" {
		log.Warn("openai_api_key_missing", "detail", "scan analysis requests will fail until OPENAI_API_KEY is set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, otel.SettingsFromEnv(cfg.AppEnv), log)
	if err != nil {
		log.Error("tracing_init_failed", logging.Err(err))
		os.Exit(1)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Error("db_connect_failed", logging.Err(err))
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, db); err != nil {
		log.Error("metrics_init_failed", logging.Err(err))
		os.Exit(1)
	}

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.Error("db_migration_failed", logging.Err(err))
		os.Exit(1)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		log.Error("storage_init_failed", logging.Err(err))
		os.Exit(1)
	}

	analysisMetrics, err := analysis.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		log.Error("metrics_init_failed", logging.Err(err))
		os.Exit(1)
	}
	analyzer := analysis.NewAnalyzer(objStore, cfg.OpenAI,
		analysis.WithMetrics(analysisMetrics),
		analysis.WithLogger(log),
	)

	// Initialize repositories and services
	scanRepo := postgres.NewScanPostgres(db)
	docRepo := postgres.NewScanDocumentPostgres(db)
	scanSvc := service.NewScanService(objStore, scanRepo, docRepo, analyzer,
		service.WithLogger(log),
		service.WithPresignExpiry(time.Duration(cfg.MinIO.PresignExpirySec)*time.Second),
	)

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Error("metrics_init_failed", logging.Err(err))
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    bodyLimit,
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(loc))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, scanSvc, analyzer)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(sctx); err != nil {
			log.Error("server_shutdown_failed", logging.Err(err))
		}
	}()

	addr := ":" + cfg.Port
	log.Info("server_starting", "addr", addr, "public_host", cfg.AppHost)
	if err := app.Listen(addr); err != nil {
		log.Error("server_start_failed", logging.Err(err))
		os.Exit(1)
	}
}
