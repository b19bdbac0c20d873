package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/chartmap/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRunRecords() []schema.RunRecord {
	start := time.Date(2024, 3, 1, 10, 0, 0, 123456789, time.UTC)
	end := start.Add(90 * time.Second)
	duration := end.Sub(start).Milliseconds()
	exit := int32(0)
	params := `{"workers":4,"output":"blend.tif"}`

	return []schema.RunRecord{
		{
			RunID:         1,
			Kind:          string(schema.BlendRun),
			StartTime:     start,
			EndTime:       &end,
			RunDurationMs: &duration,
			TotalRows:     100,
			SucceededRows: 97,
			FailedRows:    1,
			NoDataRows:    2,
			ExitCode:      &exit,
			ConfigParams:  &params,
		},
		{
			// Still running: nullable fields are unset
			RunID:     2,
			Kind:      string(schema.RefineRun),
			StartTime: start.Add(time.Hour),
		},
	}
}

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestRunStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(Run))
	require.NotNil(t, s)

	for _, colName := range []string{
		"run_id", "kind", "start_time", "end_time", "run_duration_ms",
		"total_rows", "succeeded_rows", "failed_rows", "nodata_rows",
		"exit_code", "config_params",
	} {
		_, ok := s.Lookup(colName)
		assert.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestWriteRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")
	data := ConvertRunRecords(sampleRunRecords())

	require.NoError(t, WriteRunsParquet(data, outputPath))

	got := readAll[Run](t, outputPath)
	require.Len(t, got, 2)

	assert.Equal(t, int64(1), got[0].RunID)
	assert.Equal(t, "blend", got[0].Kind)
	assert.Equal(t, int32(97), got[0].SucceededRows)
	require.NotNil(t, got[0].EndTime)
	assert.WithinDuration(t, *data[0].EndTime, *got[0].EndTime, time.Nanosecond)
	require.NotNil(t, got[0].ExitCode)
	assert.Equal(t, int32(0), *got[0].ExitCode)
	require.NotNil(t, got[0].ConfigParams)
	assert.Equal(t, *data[0].ConfigParams, *got[0].ConfigParams)

	assert.Equal(t, "refine", got[1].Kind)
	assert.Nil(t, got[1].EndTime)
	assert.Nil(t, got[1].RunDurationMs)
	assert.Nil(t, got[1].ExitCode)
	assert.Nil(t, got[1].ConfigParams)
}

func TestWriteRowFailuresParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "failures.parquet")
	records := []schema.RowFailureRecord{
		{RunID: 1, RowIndex: 7, Status: string(schema.RowFailed), Cause: "corrupt cache"},
		{RunID: 1, RowIndex: 9, Status: string(schema.RowFailed), Cause: "panic: index out of range"},
	}

	require.NoError(t, WriteRowFailuresParquet(ConvertRowFailureRecords(records), outputPath))

	got := readAll[RowFailure](t, outputPath)
	require.Len(t, got, 2)
	assert.Equal(t, int32(7), got[0].RowIndex)
	assert.Equal(t, "corrupt cache", got[0].Cause)
	assert.Equal(t, "failed", got[1].Status)
}

func TestWriteParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")

	require.NoError(t, WriteRunsParquet([]Run{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteParquet_InvalidPath(t *testing.T) {
	err := WriteRowFailuresParquet(nil, "/nonexistent/directory/output.parquet")
	assert.Error(t, err)
}
