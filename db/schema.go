// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// One statement per entry; the sqlite driver only runs the first
// statement of a multi-statement Exec. Both sqlite and postgres accept
// this dialect.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tx_journal (
    id TEXT PRIMARY KEY,
    operation TEXT NOT NULL CHECK (operation IN ('add_candidate', 'register_voter', 'submit_vote')),
    subject TEXT NOT NULL,
    tx_id TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    error TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_tx_journal_created_at ON tx_journal(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_tx_journal_operation ON tx_journal(operation)`,
}
