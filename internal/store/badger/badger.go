// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package badger keeps topic documents in an embedded BadgerDB under the
// cache directory. Keys are "topic/<mid>".
package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	dgbadger "github.com/dgraph-io/badger/v4"

	"github.com/sigil-dev/tpaths/internal/store"
	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
)

// SubDir is the directory inside the cache directory holding the database.
const SubDir = "badger"

const keyPrefix = "topic/"

func init() {
	store.RegisterBackend("badger", func(dir string) (store.TopicCache, error) {
		return Open(Config{Path: filepath.Join(dir, SubDir), SyncWrites: true, Logger: slog.Default()})
	})
}

// Compile-time interface check.
var _ store.TopicCache = (*TopicStore)(nil)

// Config holds configuration for the BadgerDB instance.
type Config struct {
	// Path is the database directory. Ignored when InMemory is true.
	Path string

	// InMemory keeps everything in RAM. Used by tests.
	InMemory bool

	SyncWrites bool

	// Logger receives BadgerDB's own log output at debug level and above.
	// Nil disables it.
	Logger *slog.Logger
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// TopicStore implements store.TopicCache backed by BadgerDB.
type TopicStore struct {
	db *dgbadger.DB
}

// Open opens the database described by cfg.
func Open(cfg Config) (*TopicStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, sigilerr.New(sigilerr.CodeTopicCacheFailure, "badger: path is required for a persistent database")
	}

	opts := dgbadger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = dgbadger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := dgbadger.Open(opts)
	if err != nil {
		return nil, sigilerr.Wrap(err, sigilerr.CodeTopicCacheFailure, "opening badger database", sigilerr.FieldPath(cfg.Path))
	}
	return &TopicStore{db: db}, nil
}

func (s *TopicStore) Close() error {
	return s.db.Close()
}

func (s *TopicStore) Get(_ context.Context, mid string) ([]byte, error) {
	if err := store.ValidateMID(mid); err != nil {
		return nil, err
	}

	var doc []byte
	err := s.db.View(func(txn *dgbadger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + mid))
		if err != nil {
			return err
		}
		doc, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, dgbadger.ErrKeyNotFound) {
			return nil, store.Miss(mid)
		}
		return nil, sigilerr.Wrap(err, sigilerr.CodeTopicCacheFailure, "reading topic", sigilerr.FieldMID(mid))
	}
	return doc, nil
}

func (s *TopicStore) Put(_ context.Context, mid string, doc []byte) error {
	if err := store.ValidateMID(mid); err != nil {
		return err
	}

	err := s.db.Update(func(txn *dgbadger.Txn) error {
		return txn.Set([]byte(keyPrefix+mid), doc)
	})
	if err != nil {
		return sigilerr.Wrap(err, sigilerr.CodeTopicCacheFailure, "writing topic", sigilerr.FieldMID(mid))
	}
	return nil
}

func (s *TopicStore) List(ctx context.Context) ([]string, error) {
	var mids []string
	err := s.db.View(func(txn *dgbadger.Txn) error {
		opts := dgbadger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			mids = append(mids, string(it.Item().Key()[len(keyPrefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, sigilerr.Wrap(err, sigilerr.CodeTopicCacheFailure, "listing topics")
	}
	return mids, nil
}
