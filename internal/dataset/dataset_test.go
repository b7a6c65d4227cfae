// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package dataset_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sigil-dev/tpaths/internal/dataset"
	"github.com/sigil-dev/tpaths/internal/relpath"
	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadQuestions(t *testing.T) {
	path := writeFile(t, "mids.json", `[
	  {"qId": "q1", "freebaseMids": [
	    {"concept": "Barack Obama", "mid": "m.02mjmr"},
	    {"concept": "Honolulu", "mid": ""}
	  ]},
	  {"qId": "q2", "freebaseMids": []}
	]`)

	qs, err := dataset.LoadQuestions(path)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "q1", qs[0].QID)
	assert.Equal(t, []string{"Barack Obama", "Honolulu"}, qs[0].Concepts())
	assert.Equal(t, []string{"m.02mjmr"}, qs[0].MIDs())
	assert.Empty(t, qs[1].MIDs())
}

func TestLoadQuestions_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    sigilerr.Code
	}{
		{"malformed json", `[{"qId": }]`, sigilerr.CodeInputFileInvalidFormat},
		{"not an array", `{"qId": "q1"}`, sigilerr.CodeInputFileInvalidFormat},
		{"missing qId", `[{"freebaseMids": []}]`, sigilerr.CodeInputRecordInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dataset.LoadQuestions(writeFile(t, "mids.json", tt.content))
			require.Error(t, err)
			assert.True(t, sigilerr.HasCode(err, tt.code), "got %v (%s)", err, sigilerr.CodeOf(err))
		})
	}
}

func TestLoadQuestions_MissingFile(t *testing.T) {
	_, err := dataset.LoadQuestions(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, sigilerr.HasCode(err, sigilerr.CodeInputFileReadFailure))
}

func TestLoadRecords(t *testing.T) {
	path := writeFile(t, "relpaths.json", `[
	  {"qId": "q1", "relPaths": [[["r1", "r2"], null], [["r3"], 0.25]], "answers": ["x"]}
	]`)

	rs, err := dataset.LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "q1", rs[0].QID)
	require.Len(t, rs[0].RelPaths, 2)
	assert.Equal(t, relpath.Path{"r1", "r2"}, rs[0].RelPaths[0].Relations)
}

func TestLoadRecords_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing relPaths", `[{"qId": "q1"}]`},
		{"missing qId", `[{"relPaths": []}]`},
		{"numeric qId", `[{"qId": 3, "relPaths": []}]`},
		{"empty sequence", `[{"qId": "q1", "relPaths": [[[], null]]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dataset.LoadRecords(writeFile(t, "relpaths.json", tt.content))
			require.Error(t, err)
			assert.True(t, sigilerr.HasCode(err, sigilerr.CodeInputRecordInvalid), "got %v (%s)", err, sigilerr.CodeOf(err))
		})
	}
}

func TestRecord_MarshalPreservesFieldsSorted(t *testing.T) {
	var r dataset.Record
	require.NoError(t, json.Unmarshal([]byte(`{"zeta": 1, "relPaths": [[["a"], null]], "qId": "q9", "alpha": {"k": true}}`), &r))

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":{"k":true},"qId":"q9","relPaths":[[["a"],null]],"zeta":1}`, string(b))
}

func TestRecord_MarshalSortsNestedKeysWithoutEscaping(t *testing.T) {
	var r dataset.Record
	require.NoError(t, json.Unmarshal([]byte(
		`{"qId":"q<1>","meta":{"b":1,"a":{"d":2,"c":3}},"relPaths":[[["a","b"],{"z":1,"a":2}]]}`), &r))

	b, err := r.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t,
		`{"meta":{"a":{"c":3,"d":2},"b":1},"qId":"q<1>","relPaths":[[["a","b"],{"a":2,"z":1}]]}`,
		string(b))
}

func TestRecord_WithRelPaths(t *testing.T) {
	var r dataset.Record
	require.NoError(t, json.Unmarshal([]byte(`{"qId": "q1", "relPaths": [[["a", "b"], null]], "note": "n"}`), &r))

	merged := r.WithRelPaths([]relpath.RelPath{{Relations: relpath.Path{"a", "b", "c"}}})

	b, err := json.Marshal(merged)
	require.NoError(t, err)
	assert.JSONEq(t, `{"note":"n","qId":"q1","relPaths":[[["a","b","c"],null]]}`, string(b))
	assert.Equal(t, relpath.Path{"a", "b"}, r.RelPaths[0].Relations)
}

func TestIndexAndLookup(t *testing.T) {
	rs := []dataset.Record{
		{QID: "q1"},
		{QID: "q2", RelPaths: []relpath.RelPath{{Relations: relpath.Path{"old"}}}},
		{QID: "q2", RelPaths: []relpath.RelPath{{Relations: relpath.Path{"new"}}}},
	}
	idx := dataset.Index(rs)

	got, err := dataset.Lookup(idx, "q2")
	require.NoError(t, err)
	assert.Equal(t, relpath.Path{"new"}, got.RelPaths[0].Relations)

	_, err = dataset.Lookup(idx, "q404")
	require.Error(t, err)
	assert.True(t, sigilerr.HasCode(err, sigilerr.CodeInputQuestionNotFound))
	assert.Equal(t, "q404", sigilerr.FieldsOf(err)["q_id"])
}
