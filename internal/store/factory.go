// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

import (
	"os"
	"slices"
	"sync"

	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
)

// CacheFactory opens a topic cache rooted at dir.
type CacheFactory func(dir string) (TopicCache, error)

var (
	factories   = map[string]CacheFactory{}
	factoriesMu sync.RWMutex
)

// RegisterBackend registers the factory for a named cache backend.
// Backend packages call this from init(). This function is goroutine-safe.
func RegisterBackend(name string, f CacheFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// resolveBackend returns the effective backend name, defaulting to "files".
func resolveBackend(cfg *CacheConfig) string {
	if cfg.Backend == "" {
		return "files"
	}
	return cfg.Backend
}

// Open creates cfg.Dir if needed and opens the configured backend in it.
func Open(cfg *CacheConfig) (TopicCache, error) {
	backend := resolveBackend(cfg)

	factoriesMu.RLock()
	factory, ok := factories[backend]
	factoriesMu.RUnlock()
	if !ok {
		return nil, sigilerr.New(sigilerr.CodeTopicCacheUnsupported, "unsupported cache backend",
			sigilerr.Field("backend", backend))
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, sigilerr.Wrap(err, sigilerr.CodeTopicCacheFailure, "creating cache directory", sigilerr.FieldPath(cfg.Dir))
	}

	return factory(cfg.Dir)
}
