// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package pipeline

import (
	"context"
	"log/slog"

	"github.com/sigil-dev/tpaths/internal/store"
	"github.com/sigil-dev/tpaths/internal/topic"
	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
)

// Fetcher retrieves raw topic documents from the remote API.
type Fetcher interface {
	Topic(ctx context.Context, mid string) ([]byte, error)
}

// TopicSource resolves an entity id to a decoded topic, from the network
// when a fetcher is configured and from the cache otherwise.
type TopicSource struct {
	cache       store.TopicCache
	fetcher     Fetcher
	preferCache bool
	logger      *slog.Logger

	fetched int
	hits    int
}

// NewTopicSource builds a source. A nil fetcher makes the cache read-only
// input. With preferCache set, cached documents are used even when a fetcher
// is available; otherwise every lookup refetches and rewrites the cache.
func NewTopicSource(cache store.TopicCache, fetcher Fetcher, preferCache bool, logger *slog.Logger) *TopicSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &TopicSource{cache: cache, fetcher: fetcher, preferCache: preferCache, logger: logger}
}

// Topic returns the decoded topic for mid.
func (s *TopicSource) Topic(ctx context.Context, mid string) (*topic.Node, error) {
	raw, err := s.raw(ctx, mid)
	if err != nil {
		return nil, err
	}
	node, err := topic.Parse(raw)
	if err != nil {
		return nil, sigilerr.With(err, sigilerr.FieldMID(mid))
	}
	return node, nil
}

func (s *TopicSource) raw(ctx context.Context, mid string) ([]byte, error) {
	if s.fetcher == nil || s.preferCache {
		raw, err := s.cache.Get(ctx, mid)
		switch {
		case err == nil:
			s.hits++
			s.logger.Debug("topic cache hit", "mid", mid)
			return raw, nil
		case s.fetcher == nil:
			return nil, err
		case !sigilerr.IsNotFound(err):
			return nil, err
		}
	}

	raw, err := s.fetcher.Topic(ctx, mid)
	if err != nil {
		return nil, err
	}
	s.fetched++
	if err := s.cache.Put(ctx, mid, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Counts reports how many topics came from the network and from the cache.
func (s *TopicSource) Counts() (fetched, hits int) {
	return s.fetched, s.hits
}
