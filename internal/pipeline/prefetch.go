// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package pipeline

import (
	"context"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/sigil-dev/tpaths/internal/dataset"
	"github.com/sigil-dev/tpaths/internal/store"
	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// PrefetchStats counts the outcome of a Prefetch call.
type PrefetchStats struct {
	Fetched int
	Skipped int
}

// EntityIDs returns the distinct non-empty entity ids of questions, sorted.
func EntityIDs(questions []dataset.Question) []string {
	var mids []string
	for _, q := range questions {
		mids = append(mids, q.MIDs()...)
	}
	slices.Sort(mids)
	return slices.Compact(mids)
}

// Prefetch fills cache with the topics of mids using up to concurrency
// parallel requests. Ids already cached are skipped unless refresh is set.
// The first failure cancels the remaining requests.
func Prefetch(ctx context.Context, cache store.TopicCache, fetcher Fetcher, mids []string, concurrency int, refresh bool, logger *slog.Logger) (PrefetchStats, error) {
	if fetcher == nil {
		return PrefetchStats{}, sigilerr.New(sigilerr.CodeTopicFetchInvalid, "prefetch needs an API key")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if concurrency < 1 {
		concurrency = 1
	}

	var fetched, skipped atomic.Int64
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, mid := range mids {
		g.Go(func() error {
			if !refresh {
				_, err := cache.Get(gCtx, mid)
				switch {
				case err == nil:
					skipped.Add(1)
					return nil
				case !sigilerr.IsNotFound(err):
					return err
				}
			}

			doc, err := fetcher.Topic(gCtx, mid)
			if err != nil {
				return err
			}
			if err := cache.Put(gCtx, mid, doc); err != nil {
				return err
			}
			fetched.Add(1)
			logger.Debug("prefetched topic", "mid", mid)
			return nil
		})
	}

	err := g.Wait()
	st := PrefetchStats{Fetched: int(fetched.Load()), Skipped: int(skipped.Load())}
	logger.Info("prefetch finished", "entities", len(mids), "fetched", st.Fetched, "skipped", st.Skipped)
	return st, err
}
