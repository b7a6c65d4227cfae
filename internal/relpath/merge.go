// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package relpath

// Merge extends existing with the third hops carried by branches and returns
// the deduplicated result; existing is left untouched.
//
// For every branch b and every entry p whose sequence contains b[0]:
//   - a two-relation p gets b[1] appended;
//   - a three-relation p whose last relation differs from b[1] gains a sibling
//     entry with the last relation replaced by b[1].
//
// Entries added during the pass are themselves visited by the rest of the
// pass, so branch order matters: with branches sorted the result is stable.
func Merge(existing []RelPath, branches []Path) []RelPath {
	out := make([]RelPath, len(existing))
	for i, p := range existing {
		out[i] = p.Clone()
	}

	for _, b := range branches {
		if len(b) < minBranchLen {
			continue
		}
		for i := 0; i < len(out); i++ {
			if !out[i].Relations.Contains(b[0]) {
				continue
			}
			switch len(out[i].Relations) {
			case 2:
				out[i].Relations = append(out[i].Relations, b[1])
			case 3:
				if out[i].Relations[2] != b[1] {
					sibling := out[i].Clone()
					sibling.Relations[2] = b[1]
					out = append(out, sibling)
				}
			}
		}
	}

	return Dedupe(out)
}
