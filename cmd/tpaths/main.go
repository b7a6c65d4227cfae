// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"

	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(sigilerr.ExitCode(err))
	}
}

// reportError prints err with its code and structured fields, one per line.
func reportError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", err)
	if code := sigilerr.CodeOf(err); code != "" {
		_, _ = fmt.Fprintf(w, "  code: %s\n", code)
	}
	fields := sigilerr.FieldsOf(err)
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		_, _ = fmt.Fprintf(w, "  %s: %v\n", k, fields[k])
	}
	if sigilerr.IsUpstreamFailure(err) {
		_, _ = fmt.Fprintln(w, "Hint: the topic endpoint failed; rerun with --prefer-cache or --offline to use cached topics.")
	}
}
