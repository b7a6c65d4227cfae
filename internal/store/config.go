// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

// CacheConfig controls which backend the factory opens and where it keeps
// its files.
type CacheConfig struct {
	Backend string // "files" (default), "sqlite" or "badger".
	Dir     string
}
