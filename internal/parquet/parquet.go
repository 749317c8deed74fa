// Package parquet provides data structures and functions for exporting repository
// statistics to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/repostat/schema"
	"github.com/parquet-go/parquet-go"
)

// RepositoryRow represents one saved analysis.
// This struct maps to the repostat_repositories database table.
type RepositoryRow struct {
	// ID is the unique identifier of the saved analysis
	ID int64 `parquet:"id,snappy"`

	// Path is the repository root that was analyzed
	Path string `parquet:"path,snappy"`

	TotalCommits      int32 `parquet:"total_commits,snappy"`
	TotalLinesAdded   int64 `parquet:"total_lines_added,snappy"`
	TotalLinesRemoved int64 `parquet:"total_lines_removed,snappy"`

	// FirstCommitDate and LastCommitDate are null when no commit was analyzed
	FirstCommitDate *time.Time `parquet:"first_commit_date,optional,snappy"`
	LastCommitDate  *time.Time `parquet:"last_commit_date,optional,snappy"`

	// CreatedAt is when the analysis was saved
	CreatedAt time.Time `parquet:"created_at,snappy"`
}

// ContributorRow represents the totals of one author name in one analysis.
// This struct maps to the repostat_contributors database table.
type ContributorRow struct {
	RepositoryID int64     `parquet:"repository_id,snappy"`
	Name         string    `parquet:"name,snappy"`
	Email        string    `parquet:"email,snappy"`
	Commits      int32     `parquet:"commits,snappy"`
	LinesAdded   int64     `parquet:"lines_added,snappy"`
	LinesRemoved int64     `parquet:"lines_removed,snappy"`
	FirstCommit  time.Time `parquet:"first_commit_date,snappy"`
	LastCommit   time.Time `parquet:"last_commit_date,snappy"`
}

// CommitRow represents one analyzed commit.
// This struct maps to the repostat_commits database table.
type CommitRow struct {
	RepositoryID int64     `parquet:"repository_id,snappy"`
	Hash         string    `parquet:"hash,snappy"`
	Author       string    `parquet:"author,snappy"`
	Email        string    `parquet:"email,snappy"`
	Date         time.Time `parquet:"commit_date,snappy"`
	Message      string    `parquet:"message,snappy"`
	LinesAdded   int32     `parquet:"lines_added,snappy"`
	LinesRemoved int32     `parquet:"lines_removed,snappy"`
	FilesChanged int32     `parquet:"files_changed,snappy"`
}

// WriteRepositoriesParquet writes repository rows to a Parquet file.
func WriteRepositoriesParquet(data []RepositoryRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteContributorsParquet writes contributor rows to a Parquet file.
func WriteContributorsParquet(data []ContributorRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteCommitsParquet writes commit rows to a Parquet file.
func WriteCommitsParquet(data []CommitRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// writeRows writes data with a schema inferred from the struct tags of T.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the row groups and writes the footer
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertRepositoryRecords converts stored repository rows for Parquet export.
func ConvertRepositoryRecords(records []schema.RepositoryRecord) []RepositoryRow {
	result := make([]RepositoryRow, len(records))
	for i, record := range records {
		result[i] = RepositoryRow{
			ID:                record.ID,
			Path:              record.Path,
			TotalCommits:      int32(record.TotalCommits),
			TotalLinesAdded:   int64(record.TotalLinesAdded),
			TotalLinesRemoved: int64(record.TotalLinesRemoved),
			FirstCommitDate:   record.FirstCommitDate,
			LastCommitDate:    record.LastCommitDate,
			CreatedAt:         record.CreatedAt,
		}
	}
	return result
}

// ConvertContributorRecords converts stored contributor rows for Parquet export.
func ConvertContributorRecords(records []schema.ContributorRecord) []ContributorRow {
	result := make([]ContributorRow, len(records))
	for i, record := range records {
		result[i] = contributorRow(record.RepositoryID, record.Name, record.Email, record.ContributorRollup)
	}
	return result
}

// ConvertStoredCommits converts stored commit rows for Parquet export.
func ConvertStoredCommits(records []schema.StoredCommit) []CommitRow {
	result := make([]CommitRow, len(records))
	for i, record := range records {
		result[i] = commitRow(record.RepositoryID, record.CommitRecord)
	}
	return result
}

// ContributorRowsFromStats converts the contributors of an unsaved analysis,
// ordered by commit count. repoID is 0 when the analysis was not saved.
func ContributorRowsFromStats(stats *schema.RepositoryStats, repoID int64) []ContributorRow {
	contributors := stats.TopContributors(0)
	emails := stats.FirstEmails()
	result := make([]ContributorRow, len(contributors))
	for i, c := range contributors {
		result[i] = contributorRow(repoID, c.Name, emails[c.Name], c.ContributorRollup)
	}
	return result
}

// CommitRowsFromStats converts the commits of an analysis in walk order.
func CommitRowsFromStats(stats *schema.RepositoryStats, repoID int64) []CommitRow {
	result := make([]CommitRow, len(stats.Commits))
	for i, c := range stats.Commits {
		result[i] = commitRow(repoID, c)
	}
	return result
}

func contributorRow(repoID int64, name, email string, r schema.ContributorRollup) ContributorRow {
	return ContributorRow{
		RepositoryID: repoID,
		Name:         name,
		Email:        email,
		Commits:      int32(r.Commits),
		LinesAdded:   int64(r.LinesAdded),
		LinesRemoved: int64(r.LinesRemoved),
		FirstCommit:  r.FirstCommit,
		LastCommit:   r.LastCommit,
	}
}

func commitRow(repoID int64, c schema.CommitRecord) CommitRow {
	return CommitRow{
		RepositoryID: repoID,
		Hash:         c.Hash,
		Author:       c.Author,
		Email:        c.Email,
		Date:         c.Date,
		Message:      c.Message,
		LinesAdded:   int32(c.LinesAdded),
		LinesRemoved: int32(c.LinesRemoved),
		FilesChanged: int32(c.FilesChanged),
	}
}
