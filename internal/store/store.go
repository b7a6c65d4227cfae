// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package store defines the topic cache and the registry of its backends.
package store

import (
	"context"
	"strings"

	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
)

// TopicCache keeps raw topic documents keyed by entity id (e.g. "m.02mjmr").
type TopicCache interface {
	// Get returns the cached document. A missing entry yields an error
	// with CodeTopicCacheMiss.
	Get(ctx context.Context, mid string) ([]byte, error)

	// Put stores doc under mid, replacing any previous document.
	Put(ctx context.Context, mid string, doc []byte) error

	// List returns all cached entity ids in ascending order.
	List(ctx context.Context) ([]string, error)

	Close() error
}

// ValidateMID rejects ids that are empty or could escape a cache directory.
func ValidateMID(mid string) error {
	if mid == "" {
		return sigilerr.New(sigilerr.CodeInputRecordInvalid, "entity id must not be empty")
	}
	if strings.ContainsAny(mid, `/\`) || strings.Contains(mid, "..") {
		return sigilerr.New(sigilerr.CodeInputRecordInvalid, "entity id contains path characters", sigilerr.FieldMID(mid))
	}
	return nil
}

// Miss builds the error every backend returns for an absent entry.
func Miss(mid string) error {
	return sigilerr.New(sigilerr.CodeTopicCacheMiss, "topic not cached", sigilerr.FieldMID(mid))
}
