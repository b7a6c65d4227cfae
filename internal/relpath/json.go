// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package relpath

import (
	"bytes"
	"encoding/json"
	"math/big"

	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
)

// MarshalUnescaped encodes v like json.Marshal but leaves <, > and &
// unescaped.
func MarshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, sigilerr.Wrap(err, sigilerr.CodeOutputWriteFailure, "encoding JSON")
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// SortKeys re-encodes raw with the keys of every nested object sorted.
// Numbers keep their original text.
func SortKeys(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 {
		return json.RawMessage("null"), nil
	}
	v, err := decodeNumbers(raw)
	if err != nil {
		return nil, sigilerr.Wrap(err, sigilerr.CodeOutputWriteFailure, "re-encoding JSON value")
	}
	return MarshalUnescaped(v)
}

// canonicalJSON renders raw so that equal JSON values produce equal strings:
// object keys are sorted, insignificant whitespace is dropped and numbers
// are compared exactly, so 1 and 1.0 match while 2^64 and 2^64+1 do not.
// Values that fail to decode fall back to their compacted bytes.
func canonicalJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	v, err := decodeNumbers(raw)
	if err != nil {
		var buf bytes.Buffer
		if json.Compact(&buf, raw) != nil {
			return string(raw)
		}
		return buf.String()
	}
	out, err := MarshalUnescaped(normalizeNumbers(v))
	if err != nil {
		return string(raw)
	}
	return string(out)
}

func decodeNumbers(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, sigilerr.New(sigilerr.CodeInputRecordInvalid, "trailing data after JSON value")
	}
	return v, nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeNumbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeNumbers(e)
		}
		return t
	case json.Number:
		return exactNumber(t)
	default:
		return v
	}
}

// exactNumber rewrites n as its shortest exact decimal form.
func exactNumber(n json.Number) json.Number {
	r, ok := new(big.Rat).SetString(string(n))
	if !ok {
		return n
	}
	if r.IsInt() {
		return json.Number(r.Num().String())
	}
	return json.Number(r.FloatString(decimalPlaces(r.Denom())))
}

// decimalPlaces returns the digits after the point needed to write 1/d
// exactly. d comes from a decimal literal, so it only has factors 2 and 5.
func decimalPlaces(d *big.Int) int {
	two, five := big.NewInt(2), big.NewInt(5)
	var twos, fives int
	q, m := new(big.Int).Set(d), new(big.Int)
	for q.Cmp(big.NewInt(1)) > 0 {
		switch {
		case m.Mod(q, two).Sign() == 0:
			q.Quo(q, two)
			twos++
		case m.Mod(q, five).Sign() == 0:
			q.Quo(q, five)
			fives++
		default:
			return twos + fives
		}
	}
	return max(twos, fives)
}
