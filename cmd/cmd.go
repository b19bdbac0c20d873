// Package cmd defines the command-line interface for chartmap.
package cmd

import (
	"github.com/huangsam/chartmap/internal/contract"
	"github.com/huangsam/chartmap/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(blendCmd)
	rootCmd.AddCommand(refineCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent row workers")
	rootCmd.PersistentFlags().Int("progress-step", contract.DefaultProgressStep, "Percent of rows between progress reports")
	rootCmd.PersistentFlags().Bool("overwrite", false, "Replace the output raster if it already exists")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("run-backend", string(schema.SQLiteBackend), "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("run-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("blend-compression", "", "Blend output compression: NONE or PACKBITS or LZW or DEFLATE")
	rootCmd.PersistentFlags().String("refine-compression", "", "Refine output compression: NONE or PACKBITS or LZW or DEFLATE")
	rootCmd.PersistentFlags().String("refine-datatype", "", "Refine output data type: Byte or Int16")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of blendCmd to Viper
	blendCmd.Flags().String("land-cover", "", "Coarse land-cover stack used to fill pixels without segments")
	blendCmd.Flags().Bool("recursive", false, "Search sub-directories of the segments directory for cache files")
	if err := viper.BindPFlags(blendCmd.Flags()); err != nil {
		contract.LogFatal("Error binding blend flags", err)
	}

	// Bind all flags of inspectCmd to Viper
	inspectCmd.Flags().Int("row", -1, "Row of the segment cache to inspect")
	inspectCmd.Flags().Int("col", -1, "Column to inspect (-1 means every pixel of the row)")
	inspectCmd.Flags().Bool("recursive", false, "Search sub-directories of the segments directory for cache files")
	if err := viper.BindPFlags(inspectCmd.Flags()); err != nil {
		contract.LogFatal("Error binding inspect flags", err)
	}

	// Bind all flags of runsExportCmd to Viper
	runsExportCmd.Flags().String("output-file", "", "Prefix of the Parquet files to write")
	if err := viper.BindPFlags(runsExportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs export flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
