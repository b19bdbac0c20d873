package schema

import "time"

// RunStatus represents the status of the run tracking store.
type RunStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalRows     int              `json:"total_rows"`
	FailedRows    int              `json:"failed_rows"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the chartmap_runs table.
type RunRecord struct {
	RunID         int64
	Kind          string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int64
	TotalRows     int32
	SucceededRows int32
	FailedRows    int32
	NoDataRows    int32
	ExitCode      *int32
	ConfigParams  *string
}

// RowFailureRecord represents a row from the chartmap_row_failures table.
type RowFailureRecord struct {
	RunID    int64
	RowIndex int32
	Status   string
	Cause    string
}
