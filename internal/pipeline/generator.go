// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package pipeline runs the per-question branch generation: load topics,
// walk them for concept paths, find branches and merge them into the
// question's relation paths.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/sigil-dev/tpaths/internal/dataset"
	"github.com/sigil-dev/tpaths/internal/relpath"
	"github.com/sigil-dev/tpaths/internal/topic"
	sigilerr "github.com/sigil-dev/tpaths/pkg/errors"
)

// Topics resolves entity ids to decoded topic documents.
type Topics interface {
	Topic(ctx context.Context, mid string) (*topic.Node, error)
}

// Stats summarises a run.
type Stats struct {
	Questions   int
	Entities    int
	Branches    int
	// Relation path entries read from the input records and written out.
	// Dedup can make RelPathsOut smaller than RelPathsIn.
	RelPathsIn  int
	RelPathsOut int
}

// Generator processes questions one at a time, in input order.
type Generator struct {
	topics Topics
	logger *slog.Logger
}

// NewGenerator returns a Generator reading topics from src.
func NewGenerator(src Topics, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{topics: src, logger: logger}
}

// Process returns rec with the branches found for q merged into its
// relation paths. rec is not modified.
func (g *Generator) Process(ctx context.Context, q dataset.Question, rec dataset.Record) (dataset.Record, int, error) {
	concepts := q.Concepts()

	var paths []relpath.Path
	for _, mid := range q.MIDs() {
		node, err := g.topics.Topic(ctx, mid)
		if err != nil {
			return dataset.Record{}, 0, sigilerr.With(err, sigilerr.FieldQuestionID(q.QID))
		}
		paths = append(paths, topic.ConceptPaths(*node, concepts)...)
	}
	paths = relpath.UniquePaths(paths)

	branches := relpath.FindBranches(rec.RelPaths, paths)
	merged := relpath.Merge(rec.RelPaths, branches)

	g.logger.Debug("processed question",
		"q_id", q.QID,
		"concept_paths", len(paths),
		"branches", len(branches),
		"rel_paths_before", len(rec.RelPaths),
		"rel_paths_after", len(merged),
	)
	return rec.WithRelPaths(merged), len(branches), nil
}

// Run processes every question against its record in index and writes each
// merged record to out as soon as it is ready. The first error stops the run;
// records already written stay written.
func (g *Generator) Run(ctx context.Context, questions []dataset.Question, index map[string]dataset.Record, out *ArrayWriter) (Stats, error) {
	var st Stats
	start := time.Now()

	for _, q := range questions {
		if err := ctx.Err(); err != nil {
			return st, sigilerr.Wrap(err, sigilerr.CodeInternalFailure, "run cancelled", sigilerr.FieldQuestionID(q.QID))
		}

		rec, err := dataset.Lookup(index, q.QID)
		if err != nil {
			return st, err
		}

		merged, branches, err := g.Process(ctx, q, rec)
		if err != nil {
			return st, err
		}
		if err := out.Write(merged); err != nil {
			return st, err
		}

		st.Questions++
		st.Entities += len(q.MIDs())
		st.Branches += branches
		st.RelPathsIn += len(rec.RelPaths)
		st.RelPathsOut += len(merged.RelPaths)
	}

	g.logger.Info("generation finished",
		"questions", st.Questions,
		"entities", st.Entities,
		"branches", st.Branches,
		"rel_paths_in", st.RelPathsIn,
		"rel_paths_out", st.RelPathsOut,
		"elapsed", time.Since(start),
	)
	return st, nil
}
