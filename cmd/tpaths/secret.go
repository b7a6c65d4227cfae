// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/sigil-dev/tpaths/internal/secrets"
	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
	"github.com/spf13/cobra"
)

func newSecretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage the Freebase API key in the OS keyring",
		Long: "Store and delete the Freebase API key under the tpaths service in the operating system keyring. " +
			"A stored key is used whenever neither the command line nor freebase.api_key provides one.",
	}

	cmd.AddCommand(
		newSecretSetCmd(),
		newSecretDeleteCmd(),
	)

	return cmd
}

func newSecretSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [value]",
		Short: "Store the API key (reads stdin when no value is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSecretSet,
	}
}

func newSecretDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete the stored API key",
		Args:  cobra.NoArgs,
		RunE:  runSecretDelete,
	}
}

func runSecretSet(cmd *cobra.Command, args []string) error {
	var value string
	if len(args) == 1 {
		value = args[0]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return sigilerr.New(sigilerr.CodeCLIInputInvalid, "no API key given on the command line or stdin")
		}
		value = line
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return sigilerr.New(sigilerr.CodeCLIInputInvalid, "API key must not be empty")
	}

	if err := secretStoreFactory().Store(secrets.DefaultService, secrets.APIKeyName, value); err != nil {
		return sigilerr.Wrapf(err, sigilerr.CodeSecretStoreFailure, "storing API key")
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stored API key in keyring as %s/%s\n", secrets.DefaultService, secrets.APIKeyName)
	return nil
}

func runSecretDelete(cmd *cobra.Command, _ []string) error {
	if err := secretStoreFactory().Delete(secrets.DefaultService, secrets.APIKeyName); err != nil {
		if sigilerr.HasCode(err, sigilerr.CodeSecretNotFound) {
			return sigilerr.Errorf(sigilerr.CodeSecretNotFound, "no API key stored")
		}
		return sigilerr.Errorf(sigilerr.CodeSecretDeleteFailure, "deleting API key: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Deleted API key")
	return nil
}
