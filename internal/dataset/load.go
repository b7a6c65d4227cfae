// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package dataset

import (
	"encoding/json"
	"os"

	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
)

// LoadQuestions reads a JSON array of questions from path.
func LoadQuestions(path string) ([]Question, error) {
	var qs []Question
	if err := loadArray(path, &qs); err != nil {
		return nil, err
	}
	for i, q := range qs {
		if q.QID == "" {
			return nil, sigilerr.New(sigilerr.CodeInputRecordInvalid, "question has no qId",
				sigilerr.FieldPath(path), sigilerr.Field("index", i))
		}
	}
	return qs, nil
}

// LoadRecords reads a JSON array of relation path records from path.
func LoadRecords(path string) ([]Record, error) {
	var rs []Record
	if err := loadArray(path, &rs); err != nil {
		return nil, err
	}
	return rs, nil
}

// Index keys records by qId. A later record replaces an earlier one with the
// same qId.
func Index(records []Record) map[string]Record {
	out := make(map[string]Record, len(records))
	for _, r := range records {
		out[r.QID] = r
	}
	return out
}

// Lookup returns the record for qid or an input.question.not_found error.
func Lookup(index map[string]Record, qid string) (Record, error) {
	r, ok := index[qid]
	if !ok {
		return Record{}, sigilerr.New(sigilerr.CodeInputQuestionNotFound,
			"question has no relation path record", sigilerr.FieldQuestionID(qid))
	}
	return r, nil
}

func loadArray(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return sigilerr.Wrap(err, sigilerr.CodeInputFileReadFailure, "reading input file", sigilerr.FieldPath(path))
	}
	if err := json.Unmarshal(data, dst); err != nil {
		if sigilerr.CodeOf(err) != "" {
			return sigilerr.With(err, sigilerr.FieldPath(path))
		}
		return sigilerr.Wrap(err, sigilerr.CodeInputFileInvalidFormat, "decoding input file", sigilerr.FieldPath(path))
	}
	return nil
}
