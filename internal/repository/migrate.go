package repository

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
)

// Migrate applies every *.up.sql file in fsys that is not yet recorded in
// schema_migrations, in lexical order, each in its own transaction.
func Migrate(ctx context.Context, db *sql.DB, fsys fs.FS) ([]string, error) {
	if _, err := db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	); err != nil {
		return nil, fmt.Errorf("Migrate: create schema_migrations: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("Migrate: read dir: %w", err)
	}

	var upFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			upFiles = append(upFiles, e.Name())
		}
	}
	sort.Strings(upFiles)

	var applied []string
	for _, f := range upFiles {
		version := strings.TrimSuffix(f, ".up.sql")
		ok, err := applyMigration(ctx, db, fsys, f, version)
		if err != nil {
			return applied, fmt.Errorf("Migrate: %w", err)
		}
		if ok {
			slog.Info("migration applied", "version", version)
			applied = append(applied, version)
		}
	}
	return applied, nil
}

func applyMigration(ctx context.Context, db *sql.DB, fsys fs.FS, file, version string) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%s: begin tx: %w", version, err)
	}
	defer tx.Rollback()

	// Serializes concurrent migrators on the same database.
	if _, err := tx.ExecContext(ctx, `LOCK TABLE schema_migrations IN EXCLUSIVE MODE`); err != nil {
		return false, fmt.Errorf("%s: lock: %w", version, err)
	}

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, version,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: check: %w", version, err)
	}
	if exists {
		return false, nil
	}

	content, err := fs.ReadFile(fsys, file)
	if err != nil {
		return false, fmt.Errorf("%s: read: %w", version, err)
	}
	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return false, fmt.Errorf("%s: execute: %w", version, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version) VALUES ($1)`, version,
	); err != nil {
		return false, fmt.Errorf("%s: record: %w", version, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("%s: commit: %w", version, err)
	}
	return true, nil
}
