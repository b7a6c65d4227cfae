// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

//go:build !windows

package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarnInsecurePermissions(t *testing.T) {
	tests := []struct {
		name         string
		perm         os.FileMode
		plaintextKey bool
		expectWarn   bool
	}{
		{"secure 0600 with key", 0o600, true, false},
		{"group readable with key", 0o640, true, true},
		{"world readable with key", 0o604, true, true},
		{"world readable without key", 0o644, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tpaths.yaml")
			require.NoError(t, os.WriteFile(path, []byte("freebase:\n  api_key: abc\n"), 0o600))
			require.NoError(t, os.Chmod(path, tt.perm))

			var buf bytes.Buffer
			old := slog.Default()
			defer slog.SetDefault(old)
			slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

			WarnInsecurePermissions(path, tt.plaintextKey)

			if tt.expectWarn {
				assert.Contains(t, buf.String(), "insecure permissions")
			} else {
				assert.NotContains(t, buf.String(), "insecure permissions")
			}
		})
	}
}

func TestWarnInsecurePermissions_MissingFile(t *testing.T) {
	assert.NotPanics(t, func() {
		WarnInsecurePermissions(filepath.Join(t.TempDir(), "missing.yaml"), true)
	})
}
