// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package config_test

import (
	"testing"

	"github.com/sigil-dev/tpaths/internal/config"
	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
	"github.com/spf13/viper"
)

// load mirrors how the root command builds its configuration: defaults,
// TPATHS_ environment overrides, then an optional config file.
func load(t *testing.T, path string) (*config.Config, error) {
	t.Helper()

	v := viper.New()
	config.SetDefaults(v)
	config.SetupEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, sigilerr.Errorf(sigilerr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}

	return config.FromViper(v)
}
