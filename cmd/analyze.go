package cmd

import (
	"github.com/huangsam/repostat/core"
	"github.com/huangsam/repostat/internal/contract"
	"github.com/spf13/cobra"
)

// analyzeCmd walks the history of one repository and prints its statistics.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [repo-path]",
	Short: "Summarize commits and line churn per contributor",
	Long: `Walk the commit history reachable from HEAD and report totals for the repository
and a ranking of its contributors.

Each commit is diffed against its first parent. Lines added and removed are counted
per file and summed per commit, then folded into per-contributor rollups keyed by
author name.

The result is saved to the configured store unless --no-save is given, so it can be
shown again later with 'repostat store show'.

Examples:
  # Analyze the current repository
  repostat analyze

  # Only count commits made in 2024
  repostat analyze --start 2024-01-01 --end 2024-12-31

  # Top 10 contributors as JSON
  repostat analyze ~/src/project --limit 10 --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnalyze(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Failed to analyze repository", err)
		}
	},
}
