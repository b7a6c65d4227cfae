// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package topic

import (
	"maps"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sigil-dev/tpaths/internal/relpath"
)

// Walk returns prefix+[relation] for every relation of node reaching a value
// whose text is in labels, and recurses into every value with nested
// properties. Both apply independently to the same value. Relations are
// visited in name order. Topic documents are trees; there is no depth limit.
func Walk(node Node, prefix relpath.Path, labels mapset.Set[string]) []relpath.Path {
	var out []relpath.Path
	for _, name := range slices.Sorted(maps.Keys(node.Property)) {
		path := append(slices.Clip(prefix), name)
		for _, value := range node.Property[name].Values {
			if value.Text != nil && labels.Contains(*value.Text) {
				out = append(out, slices.Clone(path))
			}
			if child, ok := value.Node(); ok {
				out = append(out, Walk(child, path, labels)...)
			}
		}
	}
	return out
}

// ConceptPaths walks node from its root for the given concept labels.
func ConceptPaths(node Node, concepts []string) []relpath.Path {
	return Walk(node, nil, mapset.NewThreadUnsafeSet(concepts...))
}
