// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package config

import (
	"errors"
	"net/url"
	"strings"
	"time"

	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
	"github.com/spf13/viper"
)

// DefaultEndpoint is the topic lookup endpoint of the Freebase API.
const DefaultEndpoint = "https://www.googleapis.com/freebase/v1/topic"

// Config is the top-level tpaths configuration.
type Config struct {
	Cache    CacheConfig    `mapstructure:"cache"`
	Freebase FreebaseConfig `mapstructure:"freebase"`
	Log      LogConfig      `mapstructure:"log"`
}

// CacheConfig selects where fetched topic documents are kept.
type CacheConfig struct {
	Backend string `mapstructure:"backend"`
	Dir     string `mapstructure:"dir"`
}

// FreebaseConfig controls access to the topic endpoint.
type FreebaseConfig struct {
	Endpoint          string        `mapstructure:"endpoint"`
	APIKey            string        `mapstructure:"api_key"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	PreferCache       bool          `mapstructure:"prefer_cache"`
}

// LogConfig controls diagnostic output on stderr.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("cache.backend", "files")
	v.SetDefault("cache.dir", "fbconcepts")
	v.SetDefault("freebase.endpoint", DefaultEndpoint)
	v.SetDefault("freebase.api_key", "")
	v.SetDefault("freebase.timeout", 30*time.Second)
	v.SetDefault("freebase.requests_per_minute", 0)
	v.SetDefault("freebase.prefer_cache", false)
	v.SetDefault("log.level", "info")
}

// SetupEnv enables TPATHS_ prefixed environment overrides
// (e.g. TPATHS_CACHE_DIR for cache.dir).
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix("TPATHS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// FromViper decodes and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg, err := Decode(v)
	if err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, sigilerr.Errorf(sigilerr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}

	return cfg, nil
}

// Decode decodes the configuration held by v without validating it.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, sigilerr.Errorf(sigilerr.CodeConfigParseInvalidFormat, "unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for logical errors.
// It returns a slice of all validation errors found, collecting all issues
// rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateCache()...)
	errs = append(errs, c.validateFreebase()...)
	errs = append(errs, c.validateLog()...)

	return errs
}

func (c *Config) validateCache() []error {
	var errs []error

	validBackends := map[string]bool{"files": true, "sqlite": true, "badger": true}
	if !validBackends[c.Cache.Backend] {
		errs = append(errs, sigilerr.Errorf(sigilerr.CodeConfigValidateInvalidValue,
			"config: cache.backend must be one of [files, sqlite, badger], got %q",
			c.Cache.Backend,
		))
	}

	if c.Cache.Dir == "" {
		errs = append(errs, sigilerr.Errorf(sigilerr.CodeConfigValidateInvalidValue, "config: cache.dir must not be empty"))
	}

	return errs
}

func (c *Config) validateFreebase() []error {
	var errs []error

	if c.Freebase.Endpoint == "" {
		errs = append(errs, sigilerr.Errorf(sigilerr.CodeConfigValidateInvalidValue, "config: freebase.endpoint must not be empty"))
	} else if u, err := url.Parse(c.Freebase.Endpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, sigilerr.Errorf(sigilerr.CodeConfigValidateInvalidValue,
			"config: freebase.endpoint must be an absolute http(s) URL, got %q",
			c.Freebase.Endpoint,
		))
	}

	if c.Freebase.Timeout <= 0 {
		errs = append(errs, sigilerr.Errorf(sigilerr.CodeConfigValidateInvalidValue,
			"config: freebase.timeout must be greater than 0, got %s",
			c.Freebase.Timeout,
		))
	}

	if c.Freebase.RequestsPerMinute < 0 {
		errs = append(errs, sigilerr.Errorf(sigilerr.CodeConfigValidateInvalidValue,
			"config: freebase.requests_per_minute must not be negative, got %d",
			c.Freebase.RequestsPerMinute,
		))
	}

	return errs
}

func (c *Config) validateLog() []error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return []error{sigilerr.Errorf(sigilerr.CodeConfigValidateInvalidValue,
			"config: log.level must be one of [debug, info, warn, error], got %q",
			c.Log.Level,
		)}
	}
	return nil
}
