package schema

import "time"

// RepositoryRecord represents a row from the repositories table.
type RepositoryRecord struct {
	ID                int64      `json:"id"`
	Path              string     `json:"path"`
	TotalCommits      int        `json:"total_commits"`
	TotalLinesAdded   int        `json:"total_lines_added"`
	TotalLinesRemoved int        `json:"total_lines_removed"`
	FirstCommitDate   *time.Time `json:"first_commit_date,omitempty"`
	LastCommitDate    *time.Time `json:"last_commit_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// ContributorRecord represents a row from the contributors table.
type ContributorRecord struct {
	RepositoryID int64
	Name         string
	Email        string
	ContributorRollup
}

// StoredCommit represents a row from the commits table.
type StoredCommit struct {
	RepositoryID int64
	CommitRecord
}
