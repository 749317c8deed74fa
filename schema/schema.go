// Package schema has the data model shared by the analysis core, the store and the writers.
package schema

import "time"

// CommitRecord is the extracted view of one commit. It is not modified after extraction.
type CommitRecord struct {
	Hash         string    `json:"hash"`
	Author       string    `json:"author"`
	Email        string    `json:"email"`
	Date         time.Time `json:"date"`
	Message      string    `json:"message"`
	LinesAdded   int       `json:"lines_added"`
	LinesRemoved int       `json:"lines_removed"`
	FilesChanged int       `json:"files_changed"`
}

// Churn returns lines added plus lines removed.
func (c CommitRecord) Churn() int {
	return c.LinesAdded + c.LinesRemoved
}

// ContributorRollup holds running totals for one author name.
type ContributorRollup struct {
	Commits      int       `json:"commits"`
	LinesAdded   int       `json:"lines_added"`
	LinesRemoved int       `json:"lines_removed"`
	FirstCommit  time.Time `json:"first_commit"`
	LastCommit   time.Time `json:"last_commit"`
}

// RepositoryStats is the accumulator produced by one analysis run.
//
// FirstCommitDate and LastCommitDate stay nil until the first commit is folded.
// Commits keeps walk order.
type RepositoryStats struct {
	RepoPath          string                        `json:"repo_path"`
	TotalCommits      int                           `json:"total_commits"`
	TotalLinesAdded   int                           `json:"total_lines_added"`
	TotalLinesRemoved int                           `json:"total_lines_removed"`
	FirstCommitDate   *time.Time                    `json:"first_commit_date,omitempty"`
	LastCommitDate    *time.Time                    `json:"last_commit_date,omitempty"`
	Contributors      map[string]*ContributorRollup `json:"contributors"`
	Commits           []CommitRecord                `json:"commits"`
}

// NewRepositoryStats returns an empty accumulator for repoPath.
func NewRepositoryStats(repoPath string) *RepositoryStats {
	return &RepositoryStats{
		RepoPath:     repoPath,
		Contributors: make(map[string]*ContributorRollup),
		Commits:      []CommitRecord{},
	}
}

// NamedContributor pairs an author name with its rollup.
type NamedContributor struct {
	Name string `json:"name"`
	ContributorRollup
}
