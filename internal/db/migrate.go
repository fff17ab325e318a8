package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS dishes (
		id               TEXT PRIMARY KEY,
		name             TEXT NOT NULL,
		preparation_time TEXT NOT NULL,
		type             TEXT NOT NULL CHECK (type IN ('pizza', 'soup', 'sandwich')),
		no_of_slices     INTEGER,
		diameter         REAL,
		spiciness_scale  INTEGER,
		slices_of_bread  INTEGER,
		created_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_dishes_created_at ON dishes (created_at)`,
}
