// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package secrets keeps the topic API key out of config files.
package secrets

// DefaultService is the keyring service tpaths stores its secrets under.
const DefaultService = "tpaths"

// APIKeyName is the keyring entry holding the Freebase API key.
const APIKeyName = "freebase_api_key"

// Store provides secure secret storage operations.
type Store interface {
	// Store saves a secret value under the given service and key.
	Store(service, key, value string) error

	// Retrieve fetches the secret value for the given service and key.
	// Returns an error with CodeSecretNotFound if the key does not exist.
	Retrieve(service, key string) (string, error)

	// Delete removes the secret for the given service and key.
	Delete(service, key string) error
}
