// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package dataset reads the question-to-entity file and the relation-path
// file and writes merged records back out.
package dataset

import (
	"encoding/json"
	"maps"

	"github.com/sigil-dev/tpaths/internal/relpath"
	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
)

// EntityLink ties a question to a Freebase entity and the concept text the
// entity stands for.
type EntityLink struct {
	Concept string `json:"concept"`
	MID     string `json:"mid"`
}

// Question is one entry of the question-to-entity file.
type Question struct {
	QID          string       `json:"qId"`
	FreebaseMIDs []EntityLink `json:"freebaseMids"`
}

// Concepts returns the concept label of every link, including links
// without a mid.
func (q Question) Concepts() []string {
	out := make([]string, 0, len(q.FreebaseMIDs))
	for _, l := range q.FreebaseMIDs {
		out = append(out, l.Concept)
	}
	return out
}

// MIDs returns the non-empty entity ids in link order.
func (q Question) MIDs() []string {
	var out []string
	for _, l := range q.FreebaseMIDs {
		if l.MID != "" {
			out = append(out, l.MID)
		}
	}
	return out
}

// Record is one entry of the relation-path file. Fields other than qId and
// relPaths are kept verbatim.
type Record struct {
	QID      string
	RelPaths []relpath.RelPath

	extra map[string]json.RawMessage
}

const (
	keyQID      = "qId"
	keyRelPaths = "relPaths"
)

func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return sigilerr.Errorf(sigilerr.CodeInputRecordInvalid, "relation path record must be an object: %w", err)
	}

	rawID, ok := fields[keyQID]
	if !ok {
		return sigilerr.New(sigilerr.CodeInputRecordInvalid, "relation path record has no qId")
	}
	if err := json.Unmarshal(rawID, &r.QID); err != nil {
		return sigilerr.Errorf(sigilerr.CodeInputRecordInvalid, "qId must be a string: %w", err)
	}

	rawPaths, ok := fields[keyRelPaths]
	if !ok {
		return sigilerr.New(sigilerr.CodeInputRecordInvalid, "relation path record has no relPaths",
			sigilerr.FieldQuestionID(r.QID))
	}
	r.RelPaths = nil
	if err := json.Unmarshal(rawPaths, &r.RelPaths); err != nil {
		return sigilerr.Wrap(err, sigilerr.CodeInputRecordInvalid, "decoding relPaths", sigilerr.FieldQuestionID(r.QID))
	}

	delete(fields, keyQID)
	delete(fields, keyRelPaths)
	r.extra = fields
	return nil
}

// MarshalJSON encodes the record with the keys of every object sorted,
// nested ones included. HTML characters are not escaped.
func (r Record) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(r.extra)+2)
	for k, v := range r.extra {
		sorted, err := relpath.SortKeys(v)
		if err != nil {
			return nil, sigilerr.With(err, sigilerr.FieldQuestionID(r.QID), sigilerr.Field("field", k))
		}
		fields[k] = sorted
	}
	paths := r.RelPaths
	if paths == nil {
		paths = []relpath.RelPath{}
	}
	fields[keyQID] = r.QID
	fields[keyRelPaths] = paths
	return relpath.MarshalUnescaped(fields)
}

// WithRelPaths returns a copy of r holding paths.
func (r Record) WithRelPaths(paths []relpath.RelPath) Record {
	return Record{
		QID:      r.QID,
		RelPaths: paths,
		extra:    maps.Clone(r.extra),
	}
}
