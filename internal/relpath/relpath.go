// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package relpath models relation paths and implements the branch search and
// merge that turn one- and two-hop paths into T-shaped three-hop paths.
package relpath

import (
	"encoding/json"
	"slices"
	"strings"

	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
)

// Path is an ordered sequence of relation names walked from a root entity.
type Path []string

// Key returns a string that is equal for two paths iff the paths are equal.
func (p Path) Key() string {
	return strings.Join(p, "\x00")
}

// Contains reports whether relation occurs anywhere in p.
func (p Path) Contains(relation string) bool {
	return slices.Contains(p, relation)
}

// ComparePaths orders paths lexicographically by relation name.
func ComparePaths(a, b Path) int {
	return slices.Compare(a, b)
}

// RelPath is one relPaths entry: a relation sequence plus an opaque extra
// value carried through merges untouched. Its JSON form is the two element
// array [sequence, extra].
type RelPath struct {
	Relations Path
	Extra     json.RawMessage
}

// Clone returns a deep copy of r.
func (r RelPath) Clone() RelPath {
	return RelPath{
		Relations: slices.Clone(r.Relations),
		Extra:     slices.Clone(r.Extra),
	}
}

// Key returns a string that is equal for two entries iff their sequences are
// equal and their extra values are equal as JSON values.
func (r RelPath) Key() string {
	return r.Relations.Key() + "\x01" + canonicalJSON(r.Extra)
}

func (r RelPath) MarshalJSON() ([]byte, error) {
	extra := r.Extra
	if len(extra) == 0 {
		extra = json.RawMessage("null")
	}
	seq := r.Relations
	if seq == nil {
		seq = Path{}
	}
	sorted, err := SortKeys(extra)
	if err != nil {
		return nil, err
	}
	return MarshalUnescaped([]any{seq, sorted})
}

func (r *RelPath) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return sigilerr.Errorf(sigilerr.CodeInputRecordInvalid, "relation path must be a [sequence, extra] array: %w", err)
	}
	if len(pair) != 2 {
		return sigilerr.Errorf(sigilerr.CodeInputRecordInvalid,
			"relation path must have exactly 2 elements, got %d", len(pair))
	}

	var seq Path
	if err := json.Unmarshal(pair[0], &seq); err != nil {
		return sigilerr.Errorf(sigilerr.CodeInputRecordInvalid, "relation sequence must be an array of strings: %w", err)
	}
	if len(seq) == 0 {
		return sigilerr.New(sigilerr.CodeInputRecordInvalid, "relation sequence must not be empty")
	}

	r.Relations = seq
	r.Extra = slices.Clone(pair[1])
	return nil
}
