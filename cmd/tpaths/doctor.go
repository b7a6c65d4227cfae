// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sigil-dev/tpaths/internal/config"
	"github.com/sigil-dev/tpaths/internal/secrets"
	"github.com/sigil-dev/tpaths/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sys/unix"
)

func newDoctorCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run diagnostics",
		Long:  "Check the configuration, topic cache, API key source, and free disk space for the cache directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, v)
		},
	}
}

func runDoctor(cmd *cobra.Command, v *viper.Viper) error {
	w := cmd.OutOrStdout()

	cfg, err := config.Decode(v)
	if err != nil {
		return err
	}

	checks := []struct {
		name string
		fn   func() string
	}{
		{"Binary", checkBinary},
		{"Platform", checkPlatform},
		{"Config", func() string { return checkConfig(v, cfg) }},
		{"Backends", func() string { return strings.Join(store.Backends(), ", ") }},
		{"Cache", func() string { return checkCache(cmd, cfg) }},
		{"API key", func() string { return checkAPIKey(cfg) }},
		{"Disk Space", func() string { return checkDiskSpace(cfg.Cache.Dir) }},
	}

	for _, c := range checks {
		if _, err := fmt.Fprintf(w, "%-20s %s\n", c.name+":", c.fn()); err != nil {
			return err
		}
	}

	return nil
}

func checkBinary() string {
	return fmt.Sprintf("tpaths %s (%s/%s)", version, runtime.GOOS, runtime.GOARCH)
}

func checkPlatform() string {
	return fmt.Sprintf("%s/%s, Go %s", runtime.GOOS, runtime.GOARCH, runtime.Version())
}

func checkConfig(v *viper.Viper, cfg *config.Config) string {
	source := "using defaults (no config file found)"
	if f := v.ConfigFileUsed(); f != "" {
		source = fmt.Sprintf("loaded from %s", f)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return fmt.Sprintf("%s, %d problem(s): %s", source, len(errs), errs[0])
	}
	return source
}

func checkCache(cmd *cobra.Command, cfg *config.Config) string {
	if _, err := os.Stat(cfg.Cache.Dir); os.IsNotExist(err) {
		return fmt.Sprintf("%s backend, no cache directory at %s", cfg.Cache.Backend, cfg.Cache.Dir)
	}

	cache, err := openCache(cfg)
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}
	defer func() { _ = cache.Close() }()

	mids, err := cache.List(cmd.Context())
	if err != nil {
		return fmt.Sprintf("error listing topics: %s", err)
	}
	return fmt.Sprintf("%s backend, %d topic(s) in %s", cfg.Cache.Backend, len(mids), cfg.Cache.Dir)
}

func checkAPIKey(cfg *config.Config) string {
	switch {
	case secrets.IsKeyringURI(cfg.Freebase.APIKey):
		if _, err := secrets.ResolveAPIKey(secretStoreFactory(), cfg.Freebase.APIKey); err != nil {
			return fmt.Sprintf("error: %s", err)
		}
		return "from keyring reference " + cfg.Freebase.APIKey
	case cfg.Freebase.APIKey != "":
		return "set in config (plaintext)"
	}

	if _, err := secretStoreFactory().Retrieve(secrets.DefaultService, secrets.APIKeyName); err == nil {
		return "stored in keyring"
	}
	return "none (cache-only mode)"
}

func checkDiskSpace(dir string) string {
	path := dir
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Fall back to the working directory if the cache doesn't exist yet.
		path = "."
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return fmt.Sprintf("unable to check: %s", err)
	}

	availBytes := stat.Bavail * uint64(stat.Bsize)
	return humanize.IBytes(availBytes) + " available"
}
