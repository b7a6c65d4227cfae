// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"log/slog"

	"github.com/sigil-dev/tpaths/internal/config"
	"github.com/sigil-dev/tpaths/internal/freebase"
	"github.com/sigil-dev/tpaths/internal/pipeline"
	"github.com/sigil-dev/tpaths/internal/secrets"
	"github.com/sigil-dev/tpaths/internal/store"
	_ "github.com/sigil-dev/tpaths/internal/store/badger" // register badger backend
	_ "github.com/sigil-dev/tpaths/internal/store/files"  // register files backend
	_ "github.com/sigil-dev/tpaths/internal/store/sqlite" // register sqlite backend
	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// secretStoreFactory creates a secrets.Store. It is a package-level variable
// so tests can substitute a mock implementation.
var secretStoreFactory = func() secrets.Store {
	return secrets.NewKeyringStore()
}

// bindFlags binds the flags of the running command to viper keys. Binding
// happens at run time because several subcommands share a key.
func bindFlags(cmd *cobra.Command, v *viper.Viper, bindings map[string]string) error {
	for key, flag := range bindings {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return sigilerr.Errorf(sigilerr.CodeCLISetupFailure, "binding %s flag: %w", flag, err)
		}
	}
	return nil
}

// loadConfig decodes and validates the configuration resolved into v.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, err
	}
	plaintext := cfg.Freebase.APIKey != "" && !secrets.IsKeyringURI(cfg.Freebase.APIKey)
	config.WarnInsecurePermissions(v.ConfigFileUsed(), plaintext)
	return cfg, nil
}

func openCache(cfg *config.Config) (store.TopicCache, error) {
	return store.Open(&store.CacheConfig{Backend: cfg.Cache.Backend, Dir: cfg.Cache.Dir})
}

// resolveAPIKey picks the key from the command line, then the config, then
// the keyring. An empty result means cache-only mode.
func resolveAPIKey(cfg *config.Config, fromArgs string) (string, error) {
	if fromArgs != "" {
		return fromArgs, nil
	}
	return secrets.ResolveAPIKey(secretStoreFactory(), cfg.Freebase.APIKey)
}

// newFetcher returns the topic client for key, or nil for cache-only mode.
func newFetcher(cfg *config.Config, key string) (pipeline.Fetcher, error) {
	if key == "" {
		return nil, nil
	}
	client, err := freebase.New(freebase.Options{
		Endpoint:          cfg.Freebase.Endpoint,
		APIKey:            key,
		Timeout:           cfg.Freebase.Timeout,
		RequestsPerMinute: cfg.Freebase.RequestsPerMinute,
		Logger:            slog.Default(),
	})
	if err != nil {
		return nil, sigilerr.With(err, sigilerr.Field("endpoint", cfg.Freebase.Endpoint))
	}
	return client, nil
}
