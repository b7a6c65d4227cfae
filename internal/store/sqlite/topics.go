// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package sqlite keeps topic documents in a single SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sigil-dev/tpaths/internal/store"
	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
)

// Compile-time interface check.
var _ store.TopicCache = (*TopicStore)(nil)

// TopicStore implements store.TopicCache backed by SQLite.
type TopicStore struct {
	db *sql.DB
}

// NewTopicStore opens (or creates) a SQLite database at dbPath and
// initialises the topics table.
func NewTopicStore(dbPath string) (*TopicStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, sigilerr.Errorf(sigilerr.CodeTopicCacheFailure, "opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, sigilerr.Errorf(sigilerr.CodeTopicCacheFailure, "pinging sqlite db: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, sigilerr.Errorf(sigilerr.CodeTopicCacheFailure, "migrating topics table: %w", err)
	}

	return &TopicStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS topics (
	mid        TEXT PRIMARY KEY,
	document   TEXT NOT NULL,
	fetched_at TEXT NOT NULL
);
`
	_, err := db.Exec(ddl)
	return err
}

// Close closes the underlying database connection.
func (s *TopicStore) Close() error {
	return s.db.Close()
}

func (s *TopicStore) Get(ctx context.Context, mid string) ([]byte, error) {
	if err := store.ValidateMID(mid); err != nil {
		return nil, err
	}

	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM topics WHERE mid = ?`, mid).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.Miss(mid)
		}
		return nil, sigilerr.Wrap(err, sigilerr.CodeTopicCacheFailure, "querying topic", sigilerr.FieldMID(mid))
	}
	return []byte(doc), nil
}

func (s *TopicStore) Put(ctx context.Context, mid string, doc []byte) error {
	if err := store.ValidateMID(mid); err != nil {
		return err
	}

	const q = `INSERT INTO topics (mid, document, fetched_at)
VALUES (?, ?, ?)
ON CONFLICT(mid) DO UPDATE SET
	document = excluded.document,
	fetched_at = excluded.fetched_at`

	if _, err := s.db.ExecContext(ctx, q, mid, string(doc), formatTime(time.Now())); err != nil {
		return sigilerr.Wrap(err, sigilerr.CodeTopicCacheFailure, "storing topic", sigilerr.FieldMID(mid))
	}
	return nil
}

func (s *TopicStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT mid FROM topics ORDER BY mid`)
	if err != nil {
		return nil, sigilerr.Wrap(err, sigilerr.CodeTopicCacheFailure, "listing topics")
	}
	defer func() { _ = rows.Close() }()

	var mids []string
	for rows.Next() {
		var mid string
		if err := rows.Scan(&mid); err != nil {
			return nil, sigilerr.Wrap(err, sigilerr.CodeTopicCacheFailure, "scanning topic row")
		}
		mids = append(mids, mid)
	}
	if err := rows.Err(); err != nil {
		return nil, sigilerr.Wrap(err, sigilerr.CodeTopicCacheFailure, "iterating topic rows")
	}
	return mids, nil
}

// formatTime serialises a time for storage in the database.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
