// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db stores the transaction journal.

The chain is the source of truth for candidates and votes. The journal only
remembers what this server signed and sent on behalf of admins, so operators
can audit writes without scanning blocks.

# Connecting

Open selects the driver from the configured type:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

  - sqlite: modernc.org/sqlite (pure Go, the default; file:chainvote.db)
  - postgres: github.com/lib/pq

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for the table and indexes.

# Tables

  - tx_journal: id, operation, subject, tx_id, status, error, created_at

operation is one of add_candidate, register_voter or submit_vote. Failed
writes are recorded too, with an empty tx_id and the error kind.

# Journal

	j := db.NewJournal(conn)
	j.Record(ctx, models.JournalEntry{Operation: models.OpAddCandidate, ...})
	entries, err := j.List(ctx, 50)

List returns newest first and caps the page at MaxListLimit.
*/
package db
