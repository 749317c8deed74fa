// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/huangsam/repostat/internal/contract"
	"github.com/huangsam/repostat/internal/parquet"
	"github.com/huangsam/repostat/schema"
)

// PrintSummary outputs repository statistics, dispatching on the configured output format.
func PrintSummary(stats *schema.RepositoryStats, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryJSON(w, stats, cfg.ResultLimit)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeContributorsCSV(w, stats, cfg.ResultLimit)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeSummaryParquet(stats, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable tables
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryText(w, stats, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// PrintRepositoryList outputs saved analyses using the configured output format.
func PrintRepositoryList(records []schema.RepositoryRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if records == nil {
				records = []schema.RepositoryRecord{}
			}
			return writeJSON(w, records)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRepositoriesCSV(w, records)
		}, "Wrote CSV")
	case schema.ParquetOut:
		path := cfg.OutputFile + ".repositories.parquet"
		if err := parquet.WriteRepositoriesParquet(parquet.ConvertRepositoryRecords(records), path); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		reportWrite("Wrote Parquet", path)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRepositoriesTable(w, records, cfg)
		}, "Wrote table")
	}
}

// writeSummaryParquet writes the commits and contributors next to each other,
// named <outputFile>.commits.parquet and <outputFile>.contributors.parquet.
func writeSummaryParquet(stats *schema.RepositoryStats, outputFile string) error {
	if outputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}
	commitsPath := outputFile + ".commits.parquet"
	if err := parquet.WriteCommitsParquet(parquet.CommitRowsFromStats(stats, 0), commitsPath); err != nil {
		return err
	}
	reportWrite("Wrote Parquet", commitsPath)

	contributorsPath := outputFile + ".contributors.parquet"
	if err := parquet.WriteContributorsParquet(parquet.ContributorRowsFromStats(stats, 0), contributorsPath); err != nil {
		return err
	}
	reportWrite("Wrote Parquet", contributorsPath)
	return nil
}
