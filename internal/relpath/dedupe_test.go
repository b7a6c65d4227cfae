// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package relpath_test

import (
	"testing"

	"github.com/sigil-dev/tpaths/internal/relpath"
	"github.com/stretchr/testify/assert"
)

func TestDedupe(t *testing.T) {
	in := []relpath.RelPath{
		rp(`null`, "a", "b"),
		rp(`0.3`, "a", "b"),
		rp(`null`, "a", "b"),
		rp(`null`, "b", "a"),
		rp(`0.30`, "a", "b"),
	}

	got := relpath.Dedupe(in)

	assert.Equal(t, []string{
		`[["a","b"],null]`,
		`[["a","b"],0.3]`,
		`[["b","a"],null]`,
	}, keys(got))
}

func TestDedupe_ContentPreserving(t *testing.T) {
	in := []relpath.RelPath{
		rp(`1`, "x"),
		rp(`2`, "x"),
		rp(`1`, "x", "y"),
		rp(`1`, "x"),
		rp(`2`, "x"),
	}

	got := relpath.Dedupe(in)

	seen := map[string]int{}
	for _, p := range got {
		seen[p.Key()]++
	}
	for k, n := range seen {
		assert.Equal(t, 1, n, "duplicate %q", k)
	}
	for _, p := range in {
		assert.Contains(t, seen, p.Key())
	}
}

func TestDedupe_Empty(t *testing.T) {
	assert.Empty(t, relpath.Dedupe(nil))
}

func TestUniquePaths(t *testing.T) {
	got := relpath.UniquePaths([]relpath.Path{
		{"a", "b"},
		{"a"},
		{"a", "b"},
		{"b", "a"},
	})
	assert.Equal(t, []relpath.Path{{"a", "b"}, {"a"}, {"b", "a"}}, got)
}
