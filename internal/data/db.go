package data

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// openDB opens the local SQLite database and applies the schema.
// ":memory:" skips directory creation.
func openDB(dbPath string) (*sql.DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set WAL mode: %w", err)
		}
		// The ledger and the offline demand store may share one file
		if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set busy timeout: %w", err)
		}
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS processed_messages (
		message_id TEXT PRIMARY KEY,
		chat_id TEXT NOT NULL DEFAULT '',
		processed_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_processed_messages_at ON processed_messages(processed_at)`,
	`CREATE TABLE IF NOT EXISTS demands (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		received_at INTEGER NOT NULL,
		origin TEXT NOT NULL DEFAULT '',
		sender TEXT NOT NULL DEFAULT '',
		original_text TEXT NOT NULL DEFAULT '',
		summary TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL DEFAULT '',
		deadline_iso TEXT NOT NULL DEFAULT '',
		deadline_display TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		project TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		message_id TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_demands_message_id ON demands(message_id)`,
}
