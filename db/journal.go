// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/chainvote/models"
)

// Supported journal database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// DefaultListLimit caps List when the caller passes no limit
const DefaultListLimit = 50

// MaxListLimit is the largest page List returns
const MaxListLimit = 500

// Open connects to the journal database and verifies the connection
func Open(dbType, url string) (*sql.DB, error) {
	var driver string
	switch dbType {
	case TypeSQLite:
		driver = "sqlite"
	case TypePostgres:
		driver = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbType == TypeSQLite {
		// sqlite allows one writer; in-memory databases are per-connection
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// Journal records server-signed writes
type Journal struct {
	db *sql.DB
}

func NewJournal(db *sql.DB) *Journal {
	return &Journal{db: db}
}

// Record inserts an entry, filling in ID and CreatedAt when unset
func (j *Journal) Record(ctx context.Context, entry models.JournalEntry) (models.JournalEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO tx_journal (id, operation, subject, tx_id, status, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.Operation, entry.Subject, entry.TxID, entry.Status, entry.Error, entry.CreatedAt)
	if err != nil {
		return models.JournalEntry{}, fmt.Errorf("failed to record journal entry: %w", err)
	}

	return entry, nil
}

// List returns the most recent entries, newest first
func (j *Journal) List(ctx context.Context, limit int) ([]models.JournalEntry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT id, operation, subject, tx_id, status, error, created_at
		FROM tx_journal
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	entries := []models.JournalEntry{}
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.Operation, &e.Subject, &e.TxID, &e.Status, &e.Error, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	return entries, nil
}
