// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"github.com/sigil-dev/tpaths/internal/config"
	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newConfigCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration as YAML",
		Long: "Print the configuration after applying defaults, the config file, TPATHS_ environment " +
			"variables and flags. A plaintext API key is redacted. The output is a valid tpaths.yaml.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Decode(v)
			if err != nil {
				return err
			}
			out, err := cfg.RenderYAML()
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return sigilerr.Wrap(err, sigilerr.CodeOutputWriteFailure, "writing config")
			}
			return nil
		},
	})

	return cmd
}
