// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

//go:build !windows

package config

import (
	"io/fs"
	"log/slog"
	"os"
)

// WarnInsecurePermissions logs a warning when the config file at path stores a
// plaintext API key and is readable by group or other. Keys referenced through
// keyring:// URIs are not checked.
func WarnInsecurePermissions(path string, plaintextKey bool) {
	if path == "" || !plaintextKey {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		slog.Debug("could not stat config file for permission check", "path", path, "error", err)
		return
	}

	const groupRead fs.FileMode = 0o040
	const otherRead fs.FileMode = 0o004

	if info.Mode().Perm()&(groupRead|otherRead) != 0 {
		slog.Warn(
			"config file holding freebase.api_key has insecure permissions",
			"path", path,
			"mode", info.Mode(),
			"recommended", "0600",
		)
	}
}
