package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// The collection is read and written wholesale; position preserves the
	// insertion order (0 = newest, members are prepended on registration).
	schema := `
	CREATE TABLE IF NOT EXISTS member (
		position INTEGER NOT NULL,
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL,
		date_of_birth TEXT NOT NULL,
		gender TEXT NOT NULL,
		address TEXT NOT NULL,
		registration_date TEXT NOT NULL,
		parent_name TEXT,
		parent_phone TEXT,
		notes TEXT
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
