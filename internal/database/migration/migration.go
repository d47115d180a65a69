package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"filehub/internal/logging"
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
		Name: "create_table_files",
		SQL: `CREATE TABLE IF NOT EXISTS files (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  owner_id    TEXT        NOT NULL,
  storage_key TEXT        NOT NULL,
  filename    TEXT        NOT NULL,
  mime_type   TEXT        NOT NULL DEFAULT 'application/octet-stream',
  size        BIGINT      NOT NULL CHECK (size >= 0),
  status      TEXT        NOT NULL DEFAULT 'uploaded'
              CHECK (status IN ('uploaded', 'processing', 'done', 'failed')),
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		// Duplicate completion calls are not deduped at the request level,
		// but an accidental re-insert of the same key must surface as an error.
		Name: "create_unique_index_files_owner_storage_key",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_files_owner_storage_key ON files (owner_id, storage_key);`,
	},
	{
		Name: "create_index_files_owner_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_files_owner_created_at ON files (owner_id, created_at DESC);`,
	},
	{
		Name: "create_index_files_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_files_status ON files (status);`,
	},
}

// EnsureMigrated checks whether the 'files' table exists and runs the schema
// steps if it does not. Steps are idempotent so a partial earlier run is safe.
func EnsureMigrated(ctx context.Context, db *sql.DB) error {
	start := time.Now()

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass('public.files') IS NOT NULL").Scan(&exists); err != nil {
		logging.Error("db_migration_failed", err, map[string]any{"component": "database"})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logging.Info("db_migration_skip", map[string]any{
			"component":   "database",
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			logging.Error("db_migration_failed", err, map[string]any{
				"component":      "database",
				"migration_step": step.Name,
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		logging.Info("db_migration_step", map[string]any{
			"component":        "database",
			"migration_step":   step.Name,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logging.Info("db_migration_success", map[string]any{
		"component":   "database",
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}
