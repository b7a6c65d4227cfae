// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package relpath

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// minBranchLen is the shortest sequence that can take part in a branch.
const minBranchLen = 2

// FindBranches returns the concept paths of at least two relations that share
// a relation name, at any position, with at least one existing sequence of
// at least two relations. The result holds no duplicates and is sorted.
func FindBranches(existing []RelPath, concepts []Path) []Path {
	relations := mapset.NewThreadUnsafeSet[string]()
	for _, rp := range existing {
		if len(rp.Relations) < minBranchLen {
			continue
		}
		for _, r := range rp.Relations {
			relations.Add(r)
		}
	}
	if relations.Cardinality() == 0 {
		return nil
	}

	var out []Path
	for _, c := range UniquePaths(concepts) {
		if len(c) < minBranchLen {
			continue
		}
		if slices.ContainsFunc(c, func(r string) bool { return relations.Contains(r) }) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, ComparePaths)
	return out
}
