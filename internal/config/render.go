// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package config

import (
	"strings"

	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
	"gopkg.in/yaml.v3"
)

const redacted = "<redacted>"

type fileView struct {
	Cache struct {
		Backend string `yaml:"backend"`
		Dir     string `yaml:"dir"`
	} `yaml:"cache"`
	Freebase struct {
		Endpoint          string `yaml:"endpoint"`
		APIKey            string `yaml:"api_key"`
		Timeout           string `yaml:"timeout"`
		RequestsPerMinute int    `yaml:"requests_per_minute"`
		PreferCache       bool   `yaml:"prefer_cache"`
	} `yaml:"freebase"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// RenderYAML returns c in the tpaths.yaml file format. A plaintext API key
// is replaced by a placeholder; keyring:// references are shown as is.
func (c *Config) RenderYAML() ([]byte, error) {
	var v fileView
	v.Cache.Backend = c.Cache.Backend
	v.Cache.Dir = c.Cache.Dir
	v.Freebase.Endpoint = c.Freebase.Endpoint
	v.Freebase.APIKey = c.Freebase.APIKey
	if v.Freebase.APIKey != "" && !strings.HasPrefix(v.Freebase.APIKey, "keyring://") {
		v.Freebase.APIKey = redacted
	}
	v.Freebase.Timeout = c.Freebase.Timeout.String()
	v.Freebase.RequestsPerMinute = c.Freebase.RequestsPerMinute
	v.Freebase.PreferCache = c.Freebase.PreferCache
	v.Log.Level = c.Log.Level

	out, err := yaml.Marshal(&v)
	if err != nil {
		return nil, sigilerr.Errorf(sigilerr.CodeInternalFailure, "rendering config: %w", err)
	}
	return out, nil
}
