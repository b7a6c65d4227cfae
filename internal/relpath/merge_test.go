// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package relpath_test

import (
	"testing"

	"github.com/sigil-dev/tpaths/internal/relpath"
	"github.com/stretchr/testify/assert"
)

func TestMerge_ExtendsTwoHopPath(t *testing.T) {
	existing := []relpath.RelPath{rp(`null`, "r1", "r2")}

	got := relpath.Merge(existing, []relpath.Path{{"r1", "r3"}})

	assert.Equal(t, []string{`[["r1","r2","r3"],null]`}, keys(got))
	assert.Equal(t, relpath.Path{"r1", "r2"}, existing[0].Relations, "input must not be mutated")
}

func TestMerge_AddsSiblingForThreeHopPath(t *testing.T) {
	existing := []relpath.RelPath{rp(`null`, "a", "b", "c")}

	got := relpath.Merge(existing, []relpath.Path{{"a", "d"}})

	assert.Equal(t, []string{
		`[["a","b","c"],null]`,
		`[["a","b","d"],null]`,
	}, keys(got))
}

func TestMerge_KeepsExtra(t *testing.T) {
	existing := []relpath.RelPath{rp(`{"score":0.7}`, "a", "b", "c")}

	got := relpath.Merge(existing, []relpath.Path{{"b", "d"}})

	assert.Equal(t, []string{
		`[["a","b","c"],{"score":0.7}]`,
		`[["a","b","d"],{"score":0.7}]`,
	}, keys(got))
}

func TestMerge_NoChange(t *testing.T) {
	tests := []struct {
		name     string
		existing []relpath.RelPath
		branches []relpath.Path
		want     []string
	}{
		{
			name:     "first relation absent",
			existing: []relpath.RelPath{rp(`null`, "a", "b")},
			branches: []relpath.Path{{"x", "a"}},
			want:     []string{`[["a","b"],null]`},
		},
		{
			name:     "third relation already equal",
			existing: []relpath.RelPath{rp(`null`, "a", "b", "c")},
			branches: []relpath.Path{{"a", "c"}},
			want:     []string{`[["a","b","c"],null]`},
		},
		{
			name:     "single hop untouched",
			existing: []relpath.RelPath{rp(`null`, "a")},
			branches: []relpath.Path{{"a", "b"}},
			want:     []string{`[["a"],null]`},
		},
		{
			name:     "four hop untouched",
			existing: []relpath.RelPath{rp(`null`, "a", "b", "c", "d")},
			branches: []relpath.Path{{"a", "e"}},
			want:     []string{`[["a","b","c","d"],null]`},
		},
		{
			name:     "no branches still dedupes",
			existing: []relpath.RelPath{rp(`null`, "a", "b"), rp(`null`, "a", "b")},
			branches: nil,
			want:     []string{`[["a","b"],null]`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keys(relpath.Merge(tt.existing, tt.branches)))
		})
	}
}

func TestMerge_SecondBranchBecomesSibling(t *testing.T) {
	existing := []relpath.RelPath{rp(`null`, "a", "b")}

	got := relpath.Merge(existing, []relpath.Path{{"a", "c"}, {"a", "d"}})

	assert.Equal(t, []string{
		`[["a","b","c"],null]`,
		`[["a","b","d"],null]`,
	}, keys(got))
}

func TestMerge_Idempotent(t *testing.T) {
	existing := []relpath.RelPath{
		rp(`null`, "a", "b"),
		rp(`1`, "a", "x", "y"),
		rp(`null`, "q"),
	}
	branches := []relpath.Path{{"a", "c"}, {"a", "d"}, {"x", "z"}}

	once := relpath.Merge(existing, branches)
	twice := relpath.Merge(once, branches)

	assert.ElementsMatch(t, keys(once), keys(twice))
}
