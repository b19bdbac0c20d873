// Package parquet provides data structures and functions for exporting chartmap
// run tracking data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/chartmap/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single blend or refine run with its row totals.
// This struct maps to the chartmap_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// Kind is the pipeline that produced the run (blend or refine)
	Kind string `parquet:"kind,snappy,dict"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int64 `parquet:"run_duration_ms,optional,snappy"`

	TotalRows     int32 `parquet:"total_rows,snappy"`
	SucceededRows int32 `parquet:"succeeded_rows,snappy"`
	FailedRows    int32 `parquet:"failed_rows,snappy"`
	NoDataRows    int32 `parquet:"nodata_rows,snappy"`

	// ExitCode is the process exit code the run ended with (nullable while running)
	ExitCode *int32 `parquet:"exit_code,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RowFailure represents one row that failed during a run.
// This struct maps to the chartmap_row_failures database table.
type RowFailure struct {
	RunID    int64  `parquet:"run_id,snappy"`
	RowIndex int32  `parquet:"row_index,snappy"`
	Status   string `parquet:"status,snappy,dict"`
	Cause    string `parquet:"cause,snappy"`
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRowFailuresParquet writes a slice of RowFailure structs to a Parquet file.
func WriteRowFailuresParquet(data []RowFailure, outputPath string) error {
	return writeParquet(data, outputPath)
}

func writeParquet[T any](data []T, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			Kind:          record.Kind,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalRows:     record.TotalRows,
			SucceededRows: record.SucceededRows,
			FailedRows:    record.FailedRows,
			NoDataRows:    record.NoDataRows,
			ExitCode:      record.ExitCode,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertRowFailureRecords converts schema.RowFailureRecord to RowFailure for Parquet export.
func ConvertRowFailureRecords(records []schema.RowFailureRecord) []RowFailure {
	result := make([]RowFailure, len(records))
	for i, record := range records {
		result[i] = RowFailure(record)
	}
	return result
}
