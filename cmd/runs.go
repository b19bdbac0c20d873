package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/chartmap/internal/contract"
	"github.com/huangsam/chartmap/internal/log"
	"github.com/huangsam/chartmap/internal/outwriter"
	"github.com/huangsam/chartmap/internal/tracking"
	"github.com/huangsam/chartmap/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadRunsConfig loads the minimal configuration needed for run tracking commands.
func loadRunsConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backendStr := viper.GetString("run-backend")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid run backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}

	connStr := viper.GetString("run-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	colors, err := contract.ParseBoolString(viper.GetString("color"))
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}

	cfg.RunBackend = backend
	cfg.RunDBConnect = connStr
	cfg.UseColors = colors
	cfg.Width = viper.GetInt("width")
	return log.Init(viper.GetBool("debug"))
}

// runsSetup loads run tracking config and opens the run store.
// Run subcommands skip the full shared setup since they take no raster inputs.
func runsSetup(_ *cobra.Command, _ []string) error {
	if err := loadRunsConfig(); err != nil {
		return err
	}
	return tracking.InitStore(cfg.RunBackend, cfg.RunDBConnect)
}

// runsMigrateSetup loads run tracking config without opening the store,
// so migrations and clearing work against a fresh or foreign database.
func runsMigrateSetup(_ *cobra.Command, _ []string) error {
	return loadRunsConfig()
}

// runStore returns the opened run store or an error when tracking is disabled.
func runStore() (contract.RunStore, error) {
	store := storeManager.GetRunStore()
	if store == nil {
		return nil, errors.New("run tracking is not initialized")
	}
	return store, nil
}

// runsCmd focuses on run history management.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage the history of blend and refine runs",
	Long: `Manage the run history recorded by blend and refine.

Every run stores its start and end time, inputs, exit code and row
counts, plus the cause of each failed row.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show run tracking statistics
  list    - Show every recorded run
  export  - Export runs to Parquet
  clear   - Remove all run history
  migrate - Run database schema migrations`,
}

// runsStatusCmd shows run tracking status.
var runsStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display run tracking statistics and connection details",
	PreRunE: runsSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := runStore()
		if err != nil {
			return err
		}
		status, err := store.GetStatus()
		if err != nil {
			return fmt.Errorf("failed to get run status: %w", err)
		}
		outwriter.NewOutWriter().WriteRunStatus(status)
		return nil
	},
}

// runsListCmd prints every recorded run.
var runsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "Show every recorded run",
	PreRunE: runsSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := runStore()
		if err != nil {
			return err
		}
		runs, err := store.GetAllRuns()
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		return outwriter.NewOutWriter().WriteRunHistory(runs, cfg)
	},
}

// runsExportCmd exports run history to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet",
	Long: `Export all recorded runs and row failures to Parquet files.

Writes {output-file}.runs.parquet and {output-file}.row_failures.parquet.

Examples:
  chartmap runs export --output-file history
  duckdb -c "SELECT kind, avg(run_duration_ms) FROM read_parquet('history.runs.parquet') GROUP BY kind"`,
	PreRunE: runsSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := runStore()
		if err != nil {
			return err
		}
		return tracking.ExportRuns(os.Stdout, store, viper.GetString("output-file"))
	},
}

// runsClearCmd clears the run history.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all run history",
	Long: `Delete all recorded runs and row failures.

WARNING: This action cannot be undone. Consider exporting data first.`,
	PreRunE: runsMigrateSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		dbFilePath := tracking.GetDBFilePath()
		if cfg.RunBackend == schema.SQLiteBackend && cfg.RunDBConnect != "" {
			dbFilePath = cfg.RunDBConnect
		}
		if err := tracking.ClearRuns(cfg.RunBackend, dbFilePath, cfg.RunDBConnect); err != nil {
			return fmt.Errorf("failed to clear run history: %w", err)
		}
		fmt.Println("Run history cleared successfully.")
		return nil
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run tracking store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  chartmap runs migrate

  # Rollback to initial state
  chartmap runs migrate --target-version 0`,
	PreRunE: runsMigrateSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return tracking.MigrateRuns(os.Stdout, cfg.RunBackend, cfg.RunDBConnect, viper.GetInt("target-version"))
	},
}
