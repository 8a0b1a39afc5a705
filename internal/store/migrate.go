package store

import (
	"context"
	"fmt"
)

// migrations are applied in order; the index+1 is the schema version.
// Statements stay within the subset shared by sqlite and postgres.
var migrations = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  started_at TEXT NOT NULL,
  finished_at TEXT NOT NULL,
  listing_count INTEGER NOT NULL DEFAULT 0,
  failed_urls INTEGER NOT NULL DEFAULT 0,
  error TEXT NOT NULL DEFAULT '',
  listings TEXT NOT NULL DEFAULT '[]'
)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_finished_at ON runs(finished_at)`,
	},
}

func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.Pool.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var v int
	if err := d.Pool.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&v); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for i := v; i < len(migrations); i++ {
		tx, err := d.Pool.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		for _, stmt := range migrations[i] {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d: %w", i+1, err)
			}
		}
		if _, err := tx.ExecContext(ctx, d.rebind(`INSERT INTO schema_migrations(version) VALUES (?)`), i+1); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}
