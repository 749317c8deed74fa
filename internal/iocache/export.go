package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/repostat/internal/contract"
	"github.com/huangsam/repostat/internal/parquet"
)

// ExecuteStoreExport writes every saved table of the global store to Parquet files
// named <outputFile>.<table>.parquet.
func ExecuteStoreExport(w io.Writer, outputFile string) error {
	store := Manager.GetStatsStore()
	if store == nil {
		return errors.New("statistics store is not initialized")
	}
	return ExportStore(w, store, outputFile)
}

// ExportStore writes the repositories, contributors and commits of store to Parquet.
func ExportStore(w io.Writer, store contract.StatsStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalRepositories == 0 {
		return errors.New("no saved statistics found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total repositories: %d\n", status.TotalRepositories)

	repositories, err := store.ListRepositories()
	if err != nil {
		return fmt.Errorf("failed to retrieve repositories: %w", err)
	}
	contributors, err := store.GetAllContributors()
	if err != nil {
		return fmt.Errorf("failed to retrieve contributors: %w", err)
	}
	commits, err := store.GetAllCommits()
	if err != nil {
		return fmt.Errorf("failed to retrieve commits: %w", err)
	}

	repositoriesFile := outputFile + ".repositories.parquet"
	if err := parquet.WriteRepositoriesParquet(parquet.ConvertRepositoryRecords(repositories), repositoriesFile); err != nil {
		return fmt.Errorf("failed to write repositories: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d repositories to: %s\n", len(repositories), repositoriesFile)

	contributorsFile := outputFile + ".contributors.parquet"
	if err := parquet.WriteContributorsParquet(parquet.ConvertContributorRecords(contributors), contributorsFile); err != nil {
		return fmt.Errorf("failed to write contributors: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d contributors to: %s\n", len(contributors), contributorsFile)

	commitsFile := outputFile + ".commits.parquet"
	if err := parquet.WriteCommitsParquet(parquet.ConvertStoredCommits(commits), commitsFile); err != nil {
		return fmt.Errorf("failed to write commits: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d commits to: %s\n", len(commits), commitsFile)

	return nil
}
