// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package secrets

import (
	"log/slog"
	"strings"

	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
)

const keyringScheme = "keyring://"

// IsKeyringURI reports whether value uses the keyring:// URI scheme.
func IsKeyringURI(value string) bool {
	return strings.HasPrefix(value, keyringScheme)
}

// ParseKeyringURI extracts service and key from a keyring://service/key URI.
func ParseKeyringURI(uri string) (service, key string, err error) {
	if !IsKeyringURI(uri) {
		return "", "", sigilerr.Errorf(sigilerr.CodeSecretInvalidInput, "not a keyring URI: %q", uri)
	}

	parts := strings.SplitN(strings.TrimPrefix(uri, keyringScheme), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", sigilerr.Errorf(sigilerr.CodeSecretInvalidInput,
			"invalid keyring URI %q: expected keyring://service/key", uri)
	}

	return parts[0], parts[1], nil
}

// ResolveAPIKey turns the configured key into the value sent to the topic
// endpoint. Plain values pass through unchanged; keyring:// URIs are looked up
// in store. An empty value resolves to the key saved by `tpaths secret set`,
// or to "" when none was saved or no keyring is reachable, which selects
// cache-only mode.
func ResolveAPIKey(store Store, value string) (string, error) {
	if value == "" {
		key, err := store.Retrieve(DefaultService, APIKeyName)
		if err != nil {
			if !sigilerr.HasCode(err, sigilerr.CodeSecretNotFound) {
				slog.Debug("keyring unavailable, running cache-only", "error", err)
			}
			return "", nil
		}
		return key, nil
	}

	if !IsKeyringURI(value) {
		return value, nil
	}

	service, key, err := ParseKeyringURI(value)
	if err != nil {
		return "", err
	}

	secret, err := store.Retrieve(service, key)
	if err != nil {
		return "", sigilerr.Wrapf(err, sigilerr.CodeSecretResolveFailure, "resolving keyring URI %q", value)
	}

	return secret, nil
}
