package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/chartmap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatusLabel(t *testing.T) {
	tests := []struct {
		name   string
		status schema.RowStatus
	}{
		{"failed", schema.RowFailed},
		{"canceled", schema.RowCanceled},
		{"no data", schema.RowNoData},
		{"succeeded", schema.RowSucceeded},
		{"empty", schema.RowEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Should contain the plain status
			assert.Contains(t, GetStatusLabel(tt.status), string(tt.status))
		})
	}
}

func TestCheckOutputPath(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "map.tif")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0o644))

	tests := []struct {
		name      string
		path      string
		overwrite bool
		wantErr   error
	}{
		{"missing output", filepath.Join(dir, "new.tif"), false, nil},
		{"existing output without overwrite", existing, false, ErrOutputExists},
		{"existing output with overwrite", existing, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckOutputPath(tt.path, tt.overwrite)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, ExitOutputExists, ExitCode(err))
		})
	}
}

func TestCheckInputPath(t *testing.T) {
	err := CheckInputPath(filepath.Join(t.TempDir(), "missing.tif"))
	assert.ErrorIs(t, err, ErrInputUnreadable)
	assert.Equal(t, ExitInputError, ExitCode(err))
}

func TestGetRunDBFilePath(t *testing.T) {
	path := GetRunDBFilePath()
	assert.True(t, strings.HasSuffix(path, ".chartmap_runs.db"))
}

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		maxWidth int
		expected string
	}{
		{"short path unchanged", "a/b.tif", 20, "a/b.tif"},
		{"long path truncated", "segments/nested/segments_r12.parquet", 15, "..._r12.parquet"},
		{"tiny width unchanged", "abcdef", 3, "abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncatePath(tt.path, tt.maxWidth)
			assert.Equal(t, tt.expected, got)
			if tt.maxWidth > 3 {
				assert.LessOrEqual(t, len([]rune(got)), tt.maxWidth)
			}
		})
	}
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"yes", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"no", false, false},
		{"False", false, false},
		{"0", false, false},
		{"maybe", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
