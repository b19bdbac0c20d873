package tracking

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/chartmap/internal/parquet"
	"github.com/huangsam/chartmap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearRuns(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		setup   func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "sqlite removes file",
			backend: schema.SQLiteBackend,
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "runs.db")
				require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
				return path
			},
		},
		{
			name:    "sqlite missing file is fine",
			backend: schema.SQLiteBackend,
			setup:   func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.db") },
		},
		{
			name:    "sqlite needs a path",
			backend: schema.SQLiteBackend,
			setup:   func(*testing.T) string { return "" },
			wantErr: "dbFilePath cannot be empty",
		},
		{
			name:    "none is a no-op",
			backend: schema.NoneBackend,
			setup:   func(*testing.T) string { return "" },
		},
		{
			name:    "unknown backend",
			backend: "oracle",
			setup:   func(*testing.T) string { return "" },
			wantErr: "unsupported run backend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.setup(t)
			err := ClearRuns(tt.backend, path, "")
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if path != "" {
				_, statErr := os.Stat(path)
				assert.True(t, os.IsNotExist(statErr))
			}
		})
	}
}

func TestStoreManager_Uninitialized(t *testing.T) {
	mgr := &StoreManager{}
	assert.Nil(t, mgr.GetRunStore())
}

func TestExportRuns(t *testing.T) {
	store := newSQLiteStore(t)

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun(schema.BlendRun, start, map[string]any{"workers": 2})
	require.NoError(t, err)
	report := sampleReport()
	for _, o := range report.Failed() {
		require.NoError(t, store.RecordRowFailure(runID, o))
	}
	require.NoError(t, store.EndRun(runID, start.Add(time.Second), report, 0))

	base := filepath.Join(t.TempDir(), "export")
	var out bytes.Buffer
	require.NoError(t, ExportRuns(&out, store, base))

	assert.Contains(t, out.String(), "Exported 1 runs to:")
	assert.Contains(t, out.String(), "Exported 1 row failures to:")
	for _, suffix := range []string{".runs.parquet", ".row_failures.parquet"} {
		info, err := os.Stat(base + suffix)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestExportRuns_Errors(t *testing.T) {
	t.Run("missing output file", func(t *testing.T) {
		err := ExportRuns(&bytes.Buffer{}, &MockRunStore{}, "")
		assert.ErrorContains(t, err, "--output-file is required")
	})

	t.Run("no store", func(t *testing.T) {
		err := ExportRuns(&bytes.Buffer{}, nil, "out")
		assert.ErrorContains(t, err, "not initialized")
	})

	t.Run("empty store", func(t *testing.T) {
		store := &MockRunStore{}
		store.On("GetStatus").Return(schema.RunStatus{Backend: "sqlite", Connected: true}, nil)
		err := ExportRuns(&bytes.Buffer{}, store, filepath.Join(t.TempDir(), "out"))
		assert.ErrorContains(t, err, "no run data found")
		store.AssertExpectations(t)
	})
}

func TestExportRuns_ConvertsRecords(t *testing.T) {
	records := []schema.RowFailureRecord{{RunID: 3, RowIndex: 1, Status: "failed", Cause: "boom"}}
	assert.Equal(t, []parquet.RowFailure{{RunID: 3, RowIndex: 1, Status: "failed", Cause: "boom"}},
		parquet.ConvertRowFailureRecords(records))
}
