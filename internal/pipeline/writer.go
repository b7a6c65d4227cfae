// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package pipeline

import (
	"bytes"
	"encoding/json"
	"io"

	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
)

// ArrayWriter streams values as the elements of one JSON array, one element
// per line. Close always terminates the array, so output stays well formed
// even when the producer stops early.
type ArrayWriter struct {
	w      io.Writer
	n      int
	closed bool
}

// NewArrayWriter returns a writer emitting to w. Nothing is written until the
// first Write or Close.
func NewArrayWriter(w io.Writer) *ArrayWriter {
	return &ArrayWriter{w: w}
}

// Write appends v to the array. HTML characters are not escaped; a v with its
// own MarshalJSON must not escape them either (dataset.Record does not).
func (a *ArrayWriter) Write(v any) error {
	if a.closed {
		return sigilerr.New(sigilerr.CodeOutputWriteFailure, "write to closed array")
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return sigilerr.Wrap(err, sigilerr.CodeOutputWriteFailure, "encoding output element", sigilerr.Field("index", a.n))
	}
	elem := bytes.TrimRight(buf.Bytes(), "\n")

	sep := ",\n "
	if a.n == 0 {
		sep = "[\n "
	}
	if _, err := io.WriteString(a.w, sep); err != nil {
		return sigilerr.Wrap(err, sigilerr.CodeOutputWriteFailure, "writing output")
	}
	if _, err := a.w.Write(elem); err != nil {
		return sigilerr.Wrap(err, sigilerr.CodeOutputWriteFailure, "writing output")
	}
	a.n++
	return nil
}

// Len returns the number of elements written.
func (a *ArrayWriter) Len() int {
	return a.n
}

// Close terminates the array. It is safe to call more than once.
func (a *ArrayWriter) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	tail := "\n]\n"
	if a.n == 0 {
		tail = "[]\n"
	}
	if _, err := io.WriteString(a.w, tail); err != nil {
		return sigilerr.Wrap(err, sigilerr.CodeOutputWriteFailure, "closing output array")
	}
	return nil
}
