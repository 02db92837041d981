package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_scans",
		SQL: `CREATE TABLE IF NOT EXISTS scans (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id        TEXT        NOT NULL,
  title          TEXT        NOT NULL,
  description    TEXT,
  content_type   TEXT        NOT NULL CHECK (content_type IN ('document', 'image')),
  file_path      TEXT        NOT NULL,
  extracted_text TEXT,
  ai_summary     TEXT,
  ai_tags        TEXT[],
  category       TEXT,
  is_sensitive   BOOLEAN     NOT NULL DEFAULT false,
  metadata       JSONB,
  details        JSONB,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_scans_user_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_scans_user_created_at ON scans (user_id, created_at DESC);`,
	},
	{
		Name: "create_table_scan_documents",
		SQL: `CREATE TABLE IF NOT EXISTS scan_documents (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  scan_id        UUID        NOT NULL REFERENCES scans (id) ON DELETE CASCADE,
  storage_path   TEXT        NOT NULL UNIQUE,
  file_name      TEXT        NOT NULL,
  file_size      BIGINT      NOT NULL CHECK (file_size >= 0),
  file_type      TEXT        NOT NULL,
  position       INTEGER     NOT NULL DEFAULT 0,
  extracted_text TEXT,
  ai_summary     TEXT,
  ai_tags        TEXT[],
  category       TEXT,
  is_sensitive   BOOLEAN     NOT NULL DEFAULT false,
  metadata       JSONB,
  details        JSONB,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_scan_documents_scan_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_scan_documents_scan_id ON scan_documents (scan_id, position);`,
	},
}

// EnsureMigrated checks if the 'scans' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *slog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With("component", "database", "db_host", dbHost)

	log.Info("db_migration_check", "status", "starting")

	var exists bool
	query := "SELECT to_regclass('public.scans') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			"status", "error",
			"error_message", fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			"status", "success",
			"reason", "schema already exists, skipping migration",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	log.Info("db_migration_start", "status", "in_progress")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.Info("db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
