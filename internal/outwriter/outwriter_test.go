package outwriter

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/chartmap/core"
	"github.com/huangsam/chartmap/internal/contract"
	"github.com/huangsam/chartmap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *contract.Config {
	return &contract.Config{Workers: 4, Width: 120, RunBackend: schema.SQLiteBackend}
}

func TestGetMaxCauseWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		expected int
	}{
		{"narrow terminal clamps to minimum", 40, 20},
		{"regular terminal", 100, 65},
		{"wide terminal clamps to maximum", 400, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetMaxCauseWidth(&contract.Config{Width: tt.width}))
		})
	}
}

func TestPrintRunReport(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	report := &schema.RunReport{
		Kind:     schema.BlendRun,
		Lines:    4,
		Started:  start,
		Finished: start.Add(2 * time.Second),
		Outcomes: []schema.RowOutcome{
			{Row: 2, Status: schema.RowFailed, Err: errors.New("corrupt cache")},
			{Row: 0, Status: schema.RowSucceeded, Resolved: 3, Gaps: 1},
			{Row: 1, Status: schema.RowNoData, Fallback: 5},
			{Row: 3, Status: schema.RowSucceeded, Resolved: 2},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, PrintRunReport(&buf, report, testConfig()))
	out := buf.String()

	assert.Contains(t, out, "corrupt cache")
	assert.Contains(t, out, string(schema.RowNoData))
	assert.Contains(t, out, "2/4 lines successful (0 empty, 1 no-data, 1 failed, 0 canceled)")
	assert.Contains(t, out, "Pixels resolved: 5, filled from land cover: 5, unresolved slots: 1")
	assert.Contains(t, out, "blend completed in 2s with 4 workers. Run backend: sqlite")
	assert.Less(t, strings.Index(out, string(schema.RowNoData)), strings.Index(out, "corrupt cache"))
}

func TestPrintRunReport_AllSucceeded(t *testing.T) {
	report := &schema.RunReport{
		Kind:     schema.RefineRun,
		Lines:    1,
		Outcomes: []schema.RowOutcome{{Row: 0, Status: schema.RowSucceeded, Resolved: 4, Changed: 2, Gaps: 3}},
	}

	var buf bytes.Buffer
	require.NoError(t, PrintRunReport(&buf, report, testConfig()))
	out := buf.String()

	assert.NotContains(t, out, "Cause")
	assert.Contains(t, out, "1/1 lines successful")
	assert.Contains(t, out, "Pixels refined: 4, changed: 2, unresolved slots: 3")
}

func TestPrintRunReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintRunReport(&buf, nil, testConfig()))
	assert.Empty(t, buf.String())
}

func TestFormatCause(t *testing.T) {
	assert.Equal(t, "-", formatCause(nil, 30))
	assert.Equal(t, "short", formatCause(errors.New("short"), 30))
	assert.Equal(t, "...0123456789", formatCause(errors.New("abcdefghij0123456789"), 13))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "failed", statusLabel(schema.RowFailed, false))
	assert.Contains(t, statusLabel(schema.RowFailed, true), "failed")
}

func TestPrintInspection(t *testing.T) {
	px := schema.Pixel{Row: 4, Col: 2}
	results := []core.PixelInspection{
		{
			Pixel: px,
			Segments: []schema.Segment{
				{Start: core.DOYToOrdinal(2001001), End: core.DOYToOrdinal(2008100), Class: 5, Pixel: px},
				{Start: core.DOYToOrdinal(2008101), End: core.DOYToOrdinal(2016365), Class: 12, Pixel: px},
			},
			Vector: schema.AnnualVector{5, 5, 5, 5, 5, 5, 5, 5, 12, 12, 12, 12, 12, 12, 12, 12},
		},
		{Pixel: schema.Pixel{Row: 4, Col: 3}, Err: errors.New("segments overlap")},
	}

	var buf bytes.Buffer
	require.NoError(t, PrintInspection(&buf, results, testConfig()))
	out := buf.String()

	assert.Contains(t, out, "4,2")
	assert.Contains(t, out, "2001-001..2008-100:5")
	assert.Contains(t, out, "5 5 5 5 5 5 5 5 12 12 12 12 12 12 12 12")
	assert.Contains(t, out, "segments overlap")
	assert.Contains(t, out, "Showing 2 pixels (years 2001-2016)")
}

func TestPrintInspection_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintInspection(&buf, nil, testConfig()))
	assert.Equal(t, "No pixels with segments found.\n", buf.String())
}

func TestFormatSegments(t *testing.T) {
	segments := []schema.Segment{
		{Start: core.DOYToOrdinal(2003100), End: core.DOYToOrdinal(2008100), Class: 5},
		{Start: core.DOYToOrdinal(2008101), End: core.DOYToOrdinal(2016365), Class: 12},
	}
	assert.Equal(t, "2003-100..2008-100:5\n2008-101..2016-365:12", formatSegments(segments))
	assert.Empty(t, formatSegments(nil))
}

func TestPrintRunStatus(t *testing.T) {
	last := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	tests := []struct {
		name     string
		status   schema.RunStatus
		contains []string
		excludes []string
	}{
		{
			name:     "disconnected",
			status:   schema.RunStatus{Backend: "none"},
			contains: []string{"Run Backend: none", "Connected: false"},
			excludes: []string{"Total Runs"},
		},
		{
			name:     "empty store",
			status:   schema.RunStatus{Backend: "sqlite", Connected: true, TableSizes: map[string]int64{"chartmap_runs": 0}},
			contains: []string{"Total Runs: 0", "chartmap_runs: 0 rows"},
			excludes: []string{"Last Run ID"},
		},
		{
			name: "with runs",
			status: schema.RunStatus{
				Backend: "sqlite", Connected: true, TotalRuns: 2, LastRunID: 2,
				LastRunTime: last, OldestRunTime: last.Add(-time.Hour),
				TotalRows: 10, FailedRows: 1,
				TableSizes: map[string]int64{"chartmap_runs": 2, "chartmap_row_failures": 1},
			},
			contains: []string{
				"Last Run ID: 2", "Last Run: 2024-05-06 07:08:09", "Oldest Run: 2024-05-06 06:08:09",
				"Total Rows Processed: 10", "Total Rows Failed: 1", "chartmap_row_failures: 1 rows",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewOutWriterTo(&buf).WriteRunStatus(tt.status)
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestPrintRunHistory(t *testing.T) {
	duration := int64(1500)
	exitOK := int32(0)
	exitFail := int32(3)
	runs := []schema.RunRecord{
		{RunID: 1, Kind: "blend", StartTime: time.Now(), RunDurationMs: &duration, TotalRows: 4, SucceededRows: 4, ExitCode: &exitOK},
		{RunID: 2, Kind: "refine", StartTime: time.Now(), TotalRows: 4, NoDataRows: 4, ExitCode: &exitFail},
		{RunID: 3, Kind: "blend", StartTime: time.Now()},
	}

	var buf bytes.Buffer
	require.NoError(t, NewOutWriterTo(&buf).WriteRunHistory(runs, testConfig()))
	out := buf.String()

	assert.Contains(t, out, "1.5s")
	assert.Contains(t, out, "refine")
	assert.Contains(t, out, "Showing 3 runs. Run backend: sqlite")
}

func TestPrintRunHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintRunHistory(&buf, nil, testConfig()))
	assert.Equal(t, "No runs recorded.\n", buf.String())
}
