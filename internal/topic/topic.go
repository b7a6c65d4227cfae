// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package topic decodes Freebase topic documents and walks them for relation
// paths that end at a known concept label.
package topic

import (
	"encoding/json"

	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
)

// Properties maps a relation name (e.g. "/people/person/place_of_birth") to
// the values reached through it.
type Properties map[string]Relation

// Node is a topic document or any nested value that carries its own
// properties.
type Node struct {
	ID       string     `json:"id,omitempty"`
	Property Properties `json:"property,omitempty"`
}

// Relation holds the values of one outgoing relation.
type Relation struct {
	ValueType string  `json:"valuetype,omitempty"`
	Values    []Value `json:"values"`
	Count     float64 `json:"count,omitempty"`
}

// Value is either a leaf (text only) or an embedded node (property set).
// A value can be both.
type Value struct {
	Text     *string    `json:"text,omitempty"`
	ID       string     `json:"id,omitempty"`
	Property Properties `json:"property,omitempty"`
}

// Node returns v as a node when it carries nested properties.
func (v Value) Node() (Node, bool) {
	if v.Property == nil {
		return Node{}, false
	}
	return Node{ID: v.ID, Property: v.Property}, true
}

// Parse decodes a raw topic document.
func Parse(data []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, sigilerr.Errorf(sigilerr.CodeTopicParseInvalidFormat, "decoding topic document: %w", err)
	}
	return &n, nil
}
