// Package main provides a performance benchmarking tool for the repostat CLI.
// It times 'repostat analyze' across repositories of different sizes, once with
// persistence disabled and once saving into a throwaway SQLite store, and writes
// the averages to a CSV file.
//
// Prerequisites:
// - repostat binary installed and available in PATH
// - Test repositories cloned to the specified base directory
// - Git repositories: csv-parser, fd, git, kubernetes
//
// Usage: go run benchmark/main.go [repo-base-dir]
//
//	repo-base-dir: Directory containing test repositories
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the average run time of one command for each store phase.
type BenchmarkResult struct {
	Repository string
	Command    string
	NoSaveTime string
	SaveTime   string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase  string
	Timeout   time.Duration
	Runs      int
	TestRepos []string
	// RepoWindows holds a --start date per repository for the windowed run.
	RepoWindows map[string]string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		RepoBase:  os.Args[1],
		Timeout:   10 * time.Minute,
		Runs:      3,
		TestRepos: []string{"csv-parser", "fd", "git", "kubernetes"},
		RepoWindows: map[string]string{
			"csv-parser": "2020-01-01",
			"fd":         "2023-01-01",
			"git":        "2024-01-01",
			"kubernetes": "2025-01-01",
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	storeDir, err := os.MkdirTemp("", "repostat-benchmark-*")
	if err != nil {
		fmt.Printf("Failed to create store directory: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(storeDir) }()

	results := runBenchmarks(config, filepath.Join(storeDir, "bench.db"))

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that repostat binary and test repositories exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("repostat"); err != nil {
		return errors.New("repostat binary not found in PATH")
	}
	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}
	return nil
}

// runBenchmarks executes all benchmark tests across configured repositories
func runBenchmarks(config BenchmarkConfig, dbPath string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %v timeout, %d runs per phase\n",
		len(config.TestRepos), config.Timeout, config.Runs)

	for _, repo := range config.TestRepos {
		fmt.Printf("Benchmarking %s\n", repo)
		repoPath := filepath.Join(config.RepoBase, repo)

		results = append(results, runBenchmarkSuite(config, repo, repoPath, dbPath, "full", nil))

		if start, ok := config.RepoWindows[repo]; ok {
			results = append(results, runBenchmarkSuite(config, repo, repoPath, dbPath, "windowed", []string{"--start", start}))
		}
	}

	return results
}

// runBenchmarkSuite runs the no-save and save phases for one analyze variant
func runBenchmarkSuite(config BenchmarkConfig, repo, repoPath, dbPath, command string, extraArgs []string) BenchmarkResult {
	fmt.Printf("Running %s analysis on %s\n", command, repo)

	runPhase := func(phaseName string, storeArgs []string) string {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, config.Runs)
		args := append(append([]string{"analyze", "--quiet"}, storeArgs...), extraArgs...)
		times := runBenchmark(config, repoPath, args)
		if len(times) == 0 {
			return "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	noSave := runPhase("No-save", []string{"--store-backend", "none"})
	save := runPhase("SQLite", []string{"--store-backend", "sqlite", "--store-db-connect", dbPath})

	fmt.Printf("  No-save average: %s, SQLite average: %s\n", noSave, save)

	return BenchmarkResult{
		Repository: repo,
		Command:    command,
		NoSaveTime: noSave,
		SaveTime:   save,
	}
}

// runBenchmark executes repostat with args config.Runs times and returns the successful run times
func runBenchmark(config BenchmarkConfig, repoPath string, args []string) []float64 {
	var times []float64
	for run := 1; run <= config.Runs; run++ {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()

		cmd := exec.CommandContext(ctx, "repostat", args...)
		cmd.Dir = repoPath
		output, err := cmd.CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()

		if err == nil && isSuccess(output) {
			times = append(times, elapsed)
		}
	}
	return times
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Analysis completed in") &&
		strings.Contains(outputStr, "Store backend:")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/repostat_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"repo", "cmd", "no_save_avg", "sqlite_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Repository, result.Command, result.NoSaveTime, result.SaveTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	printCommandSummary(results, "full", "Full History:")
	printCommandSummary(results, "windowed", "Windowed History:")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-12s: No-save: %s, SQLite: %s\n", result.Repository, result.NoSaveTime, result.SaveTime)
		}
	}
}
