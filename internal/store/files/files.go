// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package files stores topic documents as one indented <mid>.json file per
// entity, the layout existing fbconcepts/ dumps use.
package files

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sigil-dev/tpaths/internal/store"
	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
)

const ext = ".json"

func init() {
	store.RegisterBackend("files", func(dir string) (store.TopicCache, error) {
		return New(dir), nil
	})
}

// Compile-time interface check.
var _ store.TopicCache = (*Cache)(nil)

// Cache is a directory of <mid>.json files.
type Cache struct {
	dir string
}

// New returns a cache rooted at dir. The directory is not created.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

func (c *Cache) path(mid string) string {
	return filepath.Join(c.dir, mid+ext)
}

func (c *Cache) Get(_ context.Context, mid string) ([]byte, error) {
	if err := store.ValidateMID(mid); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(c.path(mid))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, store.Miss(mid)
		}
		return nil, sigilerr.Wrap(err, sigilerr.CodeTopicCacheFailure, "reading cached topic", sigilerr.FieldMID(mid))
	}
	return data, nil
}

// Put writes doc indented by four spaces, followed by a newline.
func (c *Cache) Put(_ context.Context, mid string, doc []byte) error {
	if err := store.ValidateMID(mid); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, doc, "", "    "); err != nil {
		return sigilerr.Wrap(err, sigilerr.CodeTopicParseInvalidFormat, "indenting topic document", sigilerr.FieldMID(mid))
	}
	buf.WriteByte('\n')

	if err := os.WriteFile(c.path(mid), buf.Bytes(), 0o644); err != nil {
		return sigilerr.Wrap(err, sigilerr.CodeTopicCacheFailure, "writing cached topic", sigilerr.FieldMID(mid))
	}
	return nil
}

func (c *Cache) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, sigilerr.Wrap(err, sigilerr.CodeTopicCacheFailure, "listing cache directory", sigilerr.FieldPath(c.dir))
	}

	var mids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ext) || strings.HasPrefix(name, ".") {
			continue
		}
		mids = append(mids, strings.TrimSuffix(name, ext))
	}
	slices.Sort(mids)
	return mids, nil
}

func (c *Cache) Close() error { return nil }
