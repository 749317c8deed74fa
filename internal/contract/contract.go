// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/go-git/go-git/v5"
	"github.com/huangsam/repostat/schema"
)

// GitClient defines the repository operations needed before and during analysis.
// This allows config validation to be tested without a real repository on disk.
type GitClient interface {
	// OpenRepository opens the repository at repoPath for read-only analysis.
	OpenRepository(ctx context.Context, repoPath string) (*git.Repository, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)
}

// CommitSink receives commit records in walk order, one at a time.
type CommitSink interface {
	AddCommit(record schema.CommitRecord)
}

// StoreManager defines the interface for managing the statistics store.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetStatsStore() StatsStore
}

// StatsStore defines the interface for persisting and reading back analysis results.
type StatsStore interface {
	// SaveStats writes the repository, contributor and commit rows in one transaction
	// and returns the new repository ID.
	SaveStats(stats *schema.RepositoryStats) (int64, error)

	// GetRepositoryStats reads a saved run back into an accumulator.
	GetRepositoryStats(repoID int64) (*schema.RepositoryStats, error)

	// ListRepositories returns saved runs, newest first.
	ListRepositories() ([]schema.RepositoryRecord, error)

	// GetAllContributors returns every contributor row.
	GetAllContributors() ([]schema.ContributorRecord, error)

	// GetAllCommits returns every commit row.
	GetAllCommits() ([]schema.StoredCommit, error)

	// GetStatus returns status information about the store
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection
	Close() error
}
