package core

import (
	"context"
	"errors"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/huangsam/repostat/core/agg"
	"github.com/huangsam/repostat/internal/contract"
	"github.com/huangsam/repostat/schema"
	"github.com/sirupsen/logrus"
)

// WalkSummary counts what happened to the commits the walker produced.
type WalkSummary struct {
	Folded  int
	Skipped int
}

// AnalyzeRepository opens the repository at repoPath and folds every commit in window
// into a fresh RepositoryStats.
func AnalyzeRepository(ctx context.Context, client contract.GitClient, repoPath string, window schema.DateRange) (*schema.RepositoryStats, error) {
	a := agg.NewAggregator(repoPath)
	if _, err := StreamCommits(ctx, client, repoPath, window, a); err != nil {
		return nil, err
	}
	return a.Stats(), nil
}

// AnalyzeRepositoryWithDates parses YYYY-MM-DD bounds and then runs AnalyzeRepository.
// A malformed date fails before the repository is opened.
func AnalyzeRepositoryWithDates(ctx context.Context, client contract.GitClient, repoPath, start, end string) (*schema.RepositoryStats, error) {
	window, err := contract.ParseDateRange(start, end)
	if err != nil {
		return nil, err
	}
	return AnalyzeRepository(ctx, client, repoPath, window)
}

// StreamCommits walks the repository and pushes one record per commit into sink, in
// walk order. Commits that cannot be resolved or diffed are logged and skipped.
// Opening and traversal failures abort the stream.
func StreamCommits(ctx context.Context, client contract.GitClient, repoPath string, window schema.DateRange, sink contract.CommitSink) (WalkSummary, error) {
	var summary WalkSummary

	repo, err := client.OpenRepository(ctx, repoPath)
	if err != nil {
		return summary, err
	}
	walker, err := NewCommitWalker(repo, window)
	if err != nil {
		return summary, err
	}

	var bar *spinner
	if !shouldSuppressHeader(ctx) {
		bar = newSpinner("Walking commits")
	}
	defer bar.Finish()

	contract.Logger.WithFields(logrus.Fields{
		"repo":    repoPath,
		"commits": walker.Size(),
	}).Debug("Commit graph loaded")

	extractor := NewExtractor(repo)
	err = walker.ForEach(func(hash plumbing.Hash) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := extractor.Extract(ctx, hash)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logSkippedCommit(hash, err)
			summary.Skipped++
			bar.Describe("Walking commits (%d skipped)", summary.Skipped)
			return nil
		}
		sink.AddCommit(record)
		summary.Folded++
		bar.Tick()
		return nil
	})
	return summary, err
}

// logSkippedCommit reports a per-commit failure with the stage that produced it.
func logSkippedCommit(hash plumbing.Hash, err error) {
	contract.Logger.WithFields(logrus.Fields{
		"commit": hash.String(),
		"stage":  errorStage(err),
	}).WithError(err).Warn("Skipping commit")
}

// errorStage maps an analysis error to the stage name used in logs.
func errorStage(err error) string {
	var (
		resolveErr   *contract.CommitResolutionError
		diffErr      *contract.DiffComputationError
		traversalErr *contract.TraversalError
		openErr      *contract.RepositoryOpenError
		dateErr      *contract.DateParseError
	)
	switch {
	case errors.As(err, &resolveErr):
		return contract.StageResolve
	case errors.As(err, &diffErr):
		return contract.StageDiff
	case errors.As(err, &traversalErr):
		return contract.StageTraversal
	case errors.As(err, &openErr):
		return contract.StageOpen
	case errors.As(err, &dateErr):
		return contract.StageDateParse
	default:
		return "unknown"
	}
}
