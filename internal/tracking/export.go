package tracking

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/chartmap/internal/contract"
	"github.com/huangsam/chartmap/internal/parquet"
)

// ExportRuns writes every tracked run and row failure to Parquet files
// named after outputFile and reports progress to w.
func ExportRuns(w io.Writer, store contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("run tracking is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total row failures: %d\n", status.TableSizes[rowFailuresTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	failures, err := store.GetAllRowFailures()
	if err != nil {
		return fmt.Errorf("failed to retrieve row failures: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(runs), runsFile)

	failuresFile := outputFile + ".row_failures.parquet"
	if err := parquet.WriteRowFailuresParquet(parquet.ConvertRowFailureRecords(failures), failuresFile); err != nil {
		return fmt.Errorf("failed to write row failures: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d row failures to: %s\n", len(failures), failuresFile)

	return nil
}
