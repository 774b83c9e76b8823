// Package migration creates the archive schema.
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
		Name: "create_table_report_archives",
		SQL: `CREATE TABLE IF NOT EXISTS report_archives (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  report_id    TEXT        NOT NULL,
  task_id      TEXT        NOT NULL DEFAULT '',
  task_name    TEXT        NOT NULL DEFAULT '',
  format_id    TEXT        NOT NULL,
  filter       TEXT        NOT NULL DEFAULT '',
  filename     TEXT        NOT NULL,
  storage_path TEXT        NOT NULL UNIQUE,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  content_type TEXT        NOT NULL,
  created_by   TEXT        NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_report_archives_report_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_report_archives_report_id ON report_archives (report_id);`,
	},
	{
		Name: "create_index_report_archives_created_by",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_report_archives_created_by ON report_archives (created_by, created_at);`,
	},
}

const (
	createVersions = `CREATE TABLE IF NOT EXISTS schema_migrations (
  name       TEXT        PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`
	selectApplied = `SELECT name FROM schema_migrations`
	insertApplied = `INSERT INTO schema_migrations (name) VALUES ($1)`
)

// EnsureMigrated applies the steps not yet recorded in schema_migrations.
// Each step runs in its own transaction together with its record.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *slog.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With("component", "database", "db_host", dbHost)

	if _, err := db.ExecContext(ctx, createVersions); err != nil {
		log.ErrorContext(ctx, "db_migration_failed", "error", err)
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := appliedSteps(ctx, db)
	if err != nil {
		log.ErrorContext(ctx, "db_migration_failed", "error", err)
		return err
	}

	pending := 0
	for _, step := range steps {
		if applied[step.Name] {
			continue
		}
		pending++
		stepStart := time.Now()
		if err := apply(ctx, db, step); err != nil {
			log.ErrorContext(ctx, "db_migration_failed",
				"migration_step", step.Name,
				"error", err,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.InfoContext(ctx, "db_migration_step",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.InfoContext(ctx, "db_migration_done",
		"applied_steps", pending,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func appliedSteps(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, selectApplied)
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()

	out := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[name] = true
	}
	return out, rows.Err()
}

func apply(ctx context.Context, db *sql.DB, step migrationStep) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, insertApplied, step.Name); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
