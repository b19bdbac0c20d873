//go:build basic

// Package integration contains end-to-end tests for the chartmap binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/chartmap/core"
	"github.com/huangsam/chartmap/internal/contract"
	"github.com/huangsam/chartmap/internal/segcache"
	"github.com/huangsam/chartmap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sqliteEnv keeps run tracking inside the test's temp dir.
func sqliteEnv(t *testing.T) []string {
	return []string{
		"CHARTMAP_RUN_BACKEND=sqlite",
		"CHARTMAP_RUN_DB_CONNECT=" + filepath.Join(t.TempDir(), "runs.db"),
		"CHARTMAP_COLOR=no",
	}
}

func TestChartmapVersion(t *testing.T) {
	out, code := runChartmap(t, nil, "version")
	assert.Equal(t, contract.ExitOK, code)
	assert.Contains(t, out, "chartmap CLI")
}

func TestChartmapBlend_OutputExists(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "blended.tif")
	require.NoError(t, os.WriteFile(output, []byte("existing"), 0o644))

	_, code := runChartmap(t, sqliteEnv(t), "blend", dir, output, filepath.Join(dir, "reference.tif"))
	assert.Equal(t, contract.ExitOutputExists, code)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data))
}

func TestChartmapBlend_MissingSegmentsDir(t *testing.T) {
	dir := t.TempDir()
	_, code := runChartmap(t, sqliteEnv(t), "blend",
		filepath.Join(dir, "missing"), filepath.Join(dir, "blended.tif"), filepath.Join(dir, "reference.tif"))
	assert.Equal(t, contract.ExitInputError, code)
}

func TestChartmapBlend_UnreadableReference(t *testing.T) {
	dir := t.TempDir()
	_, code := runChartmap(t, sqliteEnv(t), "blend", dir, filepath.Join(dir, "blended.tif"), filepath.Join(dir, "reference.tif"))
	assert.Equal(t, contract.ExitInputError, code)
	assert.NoFileExists(t, filepath.Join(dir, "blended.tif"))
}

func TestChartmapInspect(t *testing.T) {
	dir := t.TempDir()
	px := schema.Pixel{Row: 4, Col: 2}
	pixels := [][]schema.Segment{{
		{Start: core.DOYToOrdinal(2003100), End: core.DOYToOrdinal(2008100), Class: 5, Pixel: px},
		{Start: core.DOYToOrdinal(2008101), End: core.DOYToOrdinal(2016365), Class: 12, Pixel: px},
	}}
	require.NoError(t, segcache.WriteRow(dir, 4, pixels))

	out, code := runChartmap(t, sqliteEnv(t), "inspect", dir, "--row", "4")
	assert.Equal(t, contract.ExitOK, code)
	assert.Contains(t, out, "2008-101..2016-365:12")
	assert.Contains(t, out, "Showing 1 pixels")
}

func TestChartmapInspect_Recursive(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "tile", "h08v05")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	px := schema.Pixel{Row: 4, Col: 2}
	pixels := [][]schema.Segment{{
		{Start: core.DOYToOrdinal(2001001), End: core.DOYToOrdinal(2016365), Class: 7, Pixel: px},
	}}
	require.NoError(t, segcache.WriteRow(nested, 4, pixels))

	out, code := runChartmap(t, sqliteEnv(t), "inspect", dir, "--row", "4", "--recursive")
	assert.Equal(t, contract.ExitOK, code)
	assert.Contains(t, out, "2001-001..2016-365:7")
}

func TestChartmapRefine_RejectsRecursive(t *testing.T) {
	dir := t.TempDir()
	out, code := runChartmap(t, sqliteEnv(t), "refine",
		filepath.Join(dir, "blended.tif"), filepath.Join(dir, "lc.tif"), filepath.Join(dir, "refined.tif"), "--recursive")
	assert.Equal(t, contract.ExitGeneralFailure, code)
	assert.Contains(t, out, "unknown flag: --recursive")
}

func TestChartmapInspect_InvalidRow(t *testing.T) {
	_, code := runChartmap(t, sqliteEnv(t), "inspect", t.TempDir())
	assert.Equal(t, contract.ExitGeneralFailure, code)
}

func TestChartmapRuns(t *testing.T) {
	env := sqliteEnv(t)

	out, code := runChartmap(t, env, "runs", "migrate")
	assert.Equal(t, contract.ExitOK, code)
	assert.Contains(t, out, "version 2")

	out, code = runChartmap(t, env, "runs", "status")
	assert.Equal(t, contract.ExitOK, code)
	assert.Contains(t, out, "Total Runs: 0")

	out, code = runChartmap(t, env, "runs", "list")
	assert.Equal(t, contract.ExitOK, code)
	assert.Contains(t, out, "No runs recorded.")

	_, code = runChartmap(t, env, "runs", "export", "--output-file", filepath.Join(t.TempDir(), "history"))
	assert.Equal(t, contract.ExitGeneralFailure, code)

	out, code = runChartmap(t, env, "runs", "clear")
	assert.Equal(t, contract.ExitOK, code)
	assert.Contains(t, out, "Run history cleared successfully.")
}

func TestChartmapRefine_HelpListsRules(t *testing.T) {
	out, code := runChartmap(t, nil, "refine", "--help")
	assert.Equal(t, contract.ExitOK, code)
	assert.Contains(t, out, "relabel urban years whose context is barren to barren")
	assert.Contains(t, out, "relabel urban years whose context is grassland to grassland")
	assert.NotContains(t, out, "water")
}
