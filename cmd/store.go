package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/repostat/core"
	"github.com/huangsam/repostat/internal/contract"
	"github.com/huangsam/repostat/internal/iocache"
	"github.com/huangsam/repostat/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeConfigSetup loads the store and output settings without touching a repository.
// It does NOT open the store, so clear and migrate can run against missing tables.
func storeConfigSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	contract.SetVerbose(viper.GetBool("verbose"))

	backend, err := contract.ParseBackend(viper.GetString("store-backend"))
	if err != nil {
		return err
	}
	connStr := viper.GetString("store-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = iocache.GetStoreDBFilePath()
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return loadOutputConfig()
}

// loadOutputConfig fills the presentation fields of cfg used by show and list.
func loadOutputConfig() error {
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Width = viper.GetInt("width")

	colors, err := contract.ParseBoolString(viper.GetString("color"))
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	limit := viper.GetInt("limit")
	if limit <= 0 || limit > contract.MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", contract.MaxResultLimit, limit)
	}
	cfg.ResultLimit = limit

	cfg.Output = schema.OutputMode(strings.ToLower(viper.GetString("output")))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}
	return nil
}

// storeSetup loads the store settings and opens the store.
func storeSetup() error {
	if err := storeConfigSetup(); err != nil {
		return err
	}
	if err := iocache.InitStores(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return err
	}
	storeManager = iocache.Manager
	return nil
}

func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

func storeConfigSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeConfigSetup()
}

// storeCmd focused on saved analysis management.
//
// Note: store subcommands use minimal initialization instead of the full sharedSetup
// used by analyze. This avoids Git repo validation for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage saved analyses",
	Long: `Manage the analyses saved by 'repostat analyze'.

Every analysis stores one repository row, one row per contributor and one row
per commit.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show store statistics
  show    - Print a saved analysis
  list    - List saved analyses
  export  - Export data to Parquet for analytics
  clear   - Remove all saved data
  migrate - Run database schema migrations

Examples:
  # List saved analyses
  repostat store list

  # Show analysis 3 as JSON
  repostat store show --id 3 --output json`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show the backend, connection state, number of saved analyses, the most recent
save and the row count of every table.

Examples:
  repostat store status
  repostat store status --store-backend mysql --store-db-connect "user:pass@tcp(localhost:3306)/repostat"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetStatsStore()
		if store == nil {
			contract.LogFatal("Failed to get store status", errors.New("statistics store is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iocache.PrintStoreStatus(os.Stdout, status)
	},
}

// storeShowCmd prints one saved analysis.
var storeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a saved analysis",
	Long: `Load a saved analysis by ID and print it with the same formats as analyze.

Use 'repostat store list' to find IDs.

Examples:
  repostat store show --id 3
  repostat store show --id 3 --output csv --output-file contributors.csv`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		id := viper.GetInt64("id")
		if id <= 0 {
			contract.LogFatal("Failed to show analysis", errors.New("--id must be a positive analysis ID"))
		}
		if err := core.ExecuteStoreShow(rootCtx, cfg, storeManager, id); err != nil {
			contract.LogFatal("Failed to show analysis", err)
		}
	},
}

// storeListCmd lists saved analyses.
var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved analyses, newest first",
	Long: `Print every saved analysis with its ID, repository path, totals and save time.

Examples:
  repostat store list
  repostat store list --output json`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStoreList(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Failed to list analyses", err)
		}
	},
}

// storeExportCmd exports saved data to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved data to Parquet for BI tools and analytics",
	Long: `Export all saved analyses to Parquet format for use with analytics tools.

Writes three files next to the given prefix:
- <prefix>.repositories.parquet
- <prefix>.contributors.parquet
- <prefix>.commits.parquet

Requires: --output-file parameter

Examples:
  repostat store export --output-file repostat-data

  # Query with DuckDB
  duckdb -c "SELECT author, count(*) FROM read_parquet('repostat-data.commits.parquet') GROUP BY author"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteStoreExport(os.Stdout, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export saved data", err)
		}
	},
}

// storeClearCmd clears saved data.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all saved analyses",
	Long: `Delete all saved analyses.

For SQLite the database file is removed. For MySQL and PostgreSQL the repostat
tables and the migration version table are dropped.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  repostat store export --output-file backup
  repostat store clear`,
	PreRunE: storeConfigSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearStore(cfg.StoreBackend, cfg.StoreDBConnect, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear saved data", err)
		}
		fmt.Println("Saved data cleared successfully.")
	},
}

// storeMigrateCmd runs database migrations for the store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  repostat store migrate

  # Migrate to specific version
  repostat store migrate --target-version 2

  # Rollback everything
  repostat store migrate --target-version 0`,
	PreRunE: storeConfigSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
