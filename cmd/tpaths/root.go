// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/sigil-dev/tpaths/internal/config"
	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd creates the root tpaths command with all subcommands registered.
// Each root owns its Viper instance so repeated invocations do not share
// config state.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "tpaths",
		Short: "Branched relation path generator",
		Long: "tpaths extends one- and two-hop Freebase relation paths of questions into " +
			"T-shaped three-hop paths, using the topics of the entities each question mentions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initViper(cmd, v); err != nil {
				return err
			}
			return initLogging(cmd, v)
		},
	}

	// Global flags, mapped to viper keys in initViper.
	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().String("cache-dir", "", "topic cache directory (default fbconcepts)")
	root.PersistentFlags().String("cache-backend", "", "topic cache backend: files, sqlite or badger")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging on stderr")

	root.AddCommand(
		newGenerateCmd(v),
		newCacheCmd(v),
		newConfigCmd(v),
		newSecretCmd(),
		newDoctorCmd(v),
		newVersionCmd(),
	)

	return root
}

// initViper sets up v with defaults, env bindings, flag bindings, and an
// optional config file so the standard precedence (flag > env > file >
// defaults) is handled uniformly.
func initViper(cmd *cobra.Command, v *viper.Viper) error {
	config.SetDefaults(v)
	config.SetupEnv(v)

	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return sigilerr.Errorf(sigilerr.CodeConfigLoadReadFailure, "reading config file: %w", err)
		}
	} else {
		// SetConfigType is left unset so Viper does not try the bare name,
		// which would match a ./tpaths binary.
		v.SetConfigName("tpaths")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/tpaths")
		v.AddConfigPath("/etc/tpaths")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return sigilerr.Errorf(sigilerr.CodeConfigLoadReadFailure, "reading config: %w", err)
			}
		}
	}

	bindings := map[string]string{
		"cache.dir":     "cache-dir",
		"cache.backend": "cache-backend",
		"verbose":       "verbose",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(flag)); err != nil {
			return sigilerr.Errorf(sigilerr.CodeCLISetupFailure, "binding %s flag: %w", flag, err)
		}
	}

	return nil
}

// initLogging installs the default slog logger. Diagnostics go to stderr
// because stdout carries the generated dataset.
func initLogging(cmd *cobra.Command, v *viper.Viper) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(v.GetString("log.level")))); err != nil {
		return sigilerr.Errorf(sigilerr.CodeConfigValidateInvalidValue, "config: log.level: %w", err)
	}
	if v.GetBool("verbose") {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler).With("run_id", uuid.NewString()))
	return nil
}
