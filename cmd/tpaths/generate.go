// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/sigil-dev/tpaths/internal/dataset"
	"github.com/sigil-dev/tpaths/internal/pipeline"
	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newGenerateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <mids.json> <relpaths.json> [apikey]",
		Short: "Generate branched relation paths",
		Long: "Read question-to-entity links and simple relation paths, look up the topic of every " +
			"linked entity, and print the relation paths extended with matching third hops as a JSON array.\n\n" +
			"Topics are fetched from the Freebase API when an API key is available (argument, " +
			"freebase.api_key or the keyring) and written to the cache. Without a key the cache " +
			"must already hold every topic.",
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, v, args)
		},
	}

	cmd.Flags().StringP("output", "o", "", "write the JSON array to this file instead of stdout")
	cmd.Flags().Bool("offline", false, "never contact the topic API, even when a key is available")
	cmd.Flags().Bool("prefer-cache", false, "use cached topics when present and fetch only missing ones")
	cmd.Flags().Int("requests-per-minute", 0, "pace topic API requests (0 = unlimited)")

	return cmd
}

func runGenerate(cmd *cobra.Command, v *viper.Viper, args []string) (err error) {
	if err := bindFlags(cmd, v, map[string]string{
		"freebase.prefer_cache":        "prefer-cache",
		"freebase.requests_per_minute": "requests-per-minute",
	}); err != nil {
		return err
	}
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	questions, err := dataset.LoadQuestions(args[0])
	if err != nil {
		return err
	}
	records, err := dataset.LoadRecords(args[1])
	if err != nil {
		return err
	}

	var key string
	if offline, _ := cmd.Flags().GetBool("offline"); !offline {
		var fromArgs string
		if len(args) > 2 {
			fromArgs = args[2]
		}
		if key, err = resolveAPIKey(cfg, fromArgs); err != nil {
			return err
		}
	}
	fetcher, err := newFetcher(cfg, key)
	if err != nil {
		return err
	}

	cache, err := openCache(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := cache.Close(); cerr != nil && err == nil {
			err = sigilerr.Wrap(cerr, sigilerr.CodeTopicCacheFailure, "closing topic cache")
		}
	}()

	var w io.Writer = cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, ferr := os.Create(path)
		if ferr != nil {
			return sigilerr.Wrap(ferr, sigilerr.CodeOutputWriteFailure, "creating output file", sigilerr.FieldPath(path))
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = sigilerr.Wrap(cerr, sigilerr.CodeOutputWriteFailure, "closing output file", sigilerr.FieldPath(path))
			}
		}()
		w = f
	}

	slog.Info("generating branched paths",
		"questions", len(questions),
		"records", len(records),
		"cache_backend", cfg.Cache.Backend,
		"cache_dir", cfg.Cache.Dir,
		"online", fetcher != nil,
	)

	src := pipeline.NewTopicSource(cache, fetcher, cfg.Freebase.PreferCache, slog.Default())
	out := pipeline.NewArrayWriter(w)
	_, runErr := pipeline.NewGenerator(src, slog.Default()).Run(cmd.Context(), questions, dataset.Index(records), out)
	closeErr := out.Close()

	fetched, hits := src.Counts()
	slog.Info("topic lookups", "fetched", fetched, "cache_hits", hits)

	if runErr != nil {
		return runErr
	}
	return closeErr
}
