// Package core has the commit walk, diff and extraction pipeline behind every analysis.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/repostat/internal/contract"
	"github.com/huangsam/repostat/internal/gitclient"
	"github.com/huangsam/repostat/internal/outwriter"
	"github.com/huangsam/repostat/schema"
	"github.com/sirupsen/logrus"
)

// ExecutorFunc defines the function signature for command executors.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteAnalyze analyzes the configured repository, saves the result and prints the summary.
// It serves as the main entry point for the 'analyze' command.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	stats, _, err := GetAnalyzeResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintSummary(stats, cfg, time.Since(start))
}

// GetAnalyzeResults runs the analysis and persists it unless saving is disabled.
// The returned ID is 0 when nothing was saved.
func GetAnalyzeResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.RepositoryStats, int64, error) {
	if cfg.Quiet {
		ctx = WithSuppressHeader(ctx)
	}
	if !shouldSuppressHeader(ctx) {
		logAnalysisHeader(cfg)
	}

	stats, err := AnalyzeRepository(ctx, gitclient.NewGoGitClient(), cfg.RepoPath, cfg.DateRange)
	if err != nil {
		return nil, 0, err
	}
	return stats, saveStats(cfg, mgr, stats), nil
}

// ExecuteStoreShow prints a previously saved analysis.
func ExecuteStoreShow(_ context.Context, cfg *contract.Config, mgr contract.StoreManager, repoID int64) error {
	start := time.Now()
	store, err := statsStore(mgr)
	if err != nil {
		return err
	}
	stats, err := store.GetRepositoryStats(repoID)
	if err != nil {
		return fmt.Errorf("failed to load repository stats %d: %w", repoID, err)
	}
	return outwriter.PrintSummary(stats, cfg, time.Since(start))
}

// ExecuteStoreList prints the saved analyses, newest first.
func ExecuteStoreList(_ context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	store, err := statsStore(mgr)
	if err != nil {
		return err
	}
	records, err := store.ListRepositories()
	if err != nil {
		return fmt.Errorf("failed to list repositories: %w", err)
	}
	return outwriter.PrintRepositoryList(records, cfg)
}

// saveStats writes stats to the configured store. Failures are reported but do not
// fail the analysis, since the summary can still be printed.
func saveStats(cfg *contract.Config, mgr contract.StoreManager, stats *schema.RepositoryStats) int64 {
	if cfg.NoSave || mgr == nil {
		return 0
	}
	store := mgr.GetStatsStore()
	if store == nil {
		return 0
	}
	id, err := store.SaveStats(stats)
	if err != nil {
		contract.LogWarn("Failed to save repository statistics", err)
		return 0
	}
	if id > 0 {
		contract.Logger.WithField("id", id).Debug("Saved repository statistics")
	}
	return id
}

func statsStore(mgr contract.StoreManager) (contract.StatsStore, error) {
	if mgr == nil || mgr.GetStatsStore() == nil {
		return nil, errors.New("statistics store is not initialized")
	}
	return mgr.GetStatsStore(), nil
}

func logAnalysisHeader(cfg *contract.Config) {
	fields := logrus.Fields{"repo": cfg.RepoPath}
	if !cfg.DateRange.Start.IsZero() {
		fields["start"] = cfg.DateRange.Start.Format(schema.DateLayout)
	}
	if !cfg.DateRange.End.IsZero() {
		fields["end"] = cfg.DateRange.End.Format(schema.DateLayout)
	}
	contract.Logger.WithFields(fields).Info("Analyzing repository")
}
