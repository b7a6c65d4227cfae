// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite

import (
	"path/filepath"

	"github.com/sigil-dev/tpaths/internal/store"
)

// DBFile is the database file name inside the cache directory.
const DBFile = "topics.db"

func init() {
	store.RegisterBackend("sqlite", func(dir string) (store.TopicCache, error) {
		return NewTopicStore(filepath.Join(dir, DBFile))
	})
}
