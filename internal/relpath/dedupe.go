// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package relpath

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Dedupe drops entries equal to an earlier entry (same sequence, same extra
// value). Survivors keep their first-seen order and are deep copies.
func Dedupe(paths []RelPath) []RelPath {
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]RelPath, 0, len(paths))
	for _, p := range paths {
		if !seen.Add(p.Key()) {
			continue
		}
		out = append(out, p.Clone())
	}
	return out
}

// UniquePaths drops repeated sequences, keeping first-seen order.
func UniquePaths(paths []Path) []Path {
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]Path, 0, len(paths))
	for _, p := range paths {
		if !seen.Add(p.Key()) {
			continue
		}
		out = append(out, p)
	}
	return out
}
