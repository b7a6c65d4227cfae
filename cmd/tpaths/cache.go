// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sigil-dev/tpaths/internal/dataset"
	"github.com/sigil-dev/tpaths/internal/pipeline"
	"github.com/sigil-dev/tpaths/internal/store"
	"github.com/sigil-dev/tpaths/internal/store/files"
	"github.com/sigil-dev/tpaths/internal/topic"
	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCacheCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and fill the topic cache",
		Long: "List cached topics, warm the cache for a mids file, import a directory of <mid>.json " +
			"topic files, or show the concept paths of a cached topic.",
	}

	cmd.AddCommand(
		newCacheListCmd(v),
		newCacheFetchCmd(v),
		newCacheImportCmd(v),
		newCacheWalkCmd(v),
	)

	return cmd
}

func newCacheListCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached entity ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCache(v, func(cache store.TopicCache) error {
				mids, err := cache.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(mids) == 0 {
					_, _ = fmt.Fprintln(out, "No topics cached.")
					return nil
				}
				for _, mid := range mids {
					_, _ = fmt.Fprintln(out, mid)
				}
				return nil
			})
		},
	}
}

func newCacheFetchCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <mids.json> [apikey]",
		Short: "Download the topics of every entity in a mids file",
		Long: "Fetch the topic of every linked entity in the mids file into the configured cache, " +
			"with several requests in flight. Cached topics are skipped unless --refresh is given. " +
			"A later `generate --prefer-cache` then runs without touching the network.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(cmd, v, map[string]string{
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

			var fromArgs string
			if len(args) > 1 {
				fromArgs = args[1]
			}
			key, err := resolveAPIKey(cfg, fromArgs)
			if err != nil {
				return err
			}
			fetcher, err := newFetcher(cfg, key)
			if err != nil {
				return err
			}

			concurrency, _ := cmd.Flags().GetInt("concurrency")
			refresh, _ := cmd.Flags().GetBool("refresh")

			return withCache(v, func(cache store.TopicCache) error {
				st, err := pipeline.Prefetch(cmd.Context(), cache, fetcher, pipeline.EntityIDs(questions), concurrency, refresh, slog.Default())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d topic(s), %d already cached\n", st.Fetched, st.Skipped)
				return nil
			})
		},
	}

	cmd.Flags().Int("concurrency", 4, "maximum parallel topic requests")
	cmd.Flags().Bool("refresh", false, "refetch topics that are already cached")
	cmd.Flags().Int("requests-per-minute", 0, "pace topic API requests (0 = unlimited)")

	return cmd
}

func newCacheImportCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Copy <mid>.json topic files from dir into the configured cache",
		Long: "Copy every <mid>.json topic document in dir into the configured cache backend. " +
			"Use it to move an existing file cache into the sqlite or badger backend.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := files.New(args[0])
			mids, err := src.List(cmd.Context())
			if err != nil {
				return err
			}

			return withCache(v, func(dst store.TopicCache) error {
				for _, mid := range mids {
					doc, err := src.Get(cmd.Context(), mid)
					if err != nil {
						return err
					}
					if _, err := topic.Parse(doc); err != nil {
						return sigilerr.With(err, sigilerr.FieldMID(mid))
					}
					if err := dst.Put(cmd.Context(), mid, doc); err != nil {
						return err
					}
					slog.Debug("imported topic", "mid", mid)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d topic(s) from %s\n", len(mids), args[0])
				return nil
			})
		},
	}
}

func newCacheWalkCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "walk <mid> <concept>...",
		Short: "Print the relation paths leading to concepts in a cached topic",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(v, func(cache store.TopicCache) error {
				doc, err := cache.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				node, err := topic.Parse(doc)
				if err != nil {
					return sigilerr.With(err, sigilerr.FieldMID(args[0]))
				}

				out := cmd.OutOrStdout()
				for _, p := range topic.ConceptPaths(*node, args[1:]) {
					_, _ = fmt.Fprintln(out, strings.Join(p, " "))
				}
				return nil
			})
		},
	}
}

// withCache opens the configured cache, runs fn and closes the cache.
func withCache(v *viper.Viper, fn func(store.TopicCache) error) (err error) {
	cfg, err := loadConfig(v)
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
	return fn(cache)
}
