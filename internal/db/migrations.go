package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at the
// end.
var migrations = []string{
	// Migration 1: index the search columns used by the listings endpoint.
	`CREATE INDEX IF NOT EXISTS idx_items_owner ON items(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_state ON items(processing_state)`,
	// Migration 2: speed up per-user reputation reads.
	`CREATE INDEX IF NOT EXISTS idx_ratings_rated ON ratings(rated_id)`,
}

// Migrate ensures the schema exists and runs the migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
