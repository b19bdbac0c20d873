package tracking

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/chartmap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateRuns_NoneBackend(t *testing.T) {
	err := MigrateRuns(&bytes.Buffer{}, schema.NoneBackend, "", -1)
	assert.ErrorContains(t, err, "migrations are not supported for NoneBackend")
}

func TestMigrateRuns_UnsupportedBackend(t *testing.T) {
	err := MigrateRuns(&bytes.Buffer{}, "oracle", "", -1)
	assert.ErrorContains(t, err, "unsupported backend")
}

func TestMigrateRuns_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_migration.db")
	var out bytes.Buffer

	require.NoError(t, MigrateRuns(&out, schema.SQLiteBackend, dbPath, -1))
	assert.Contains(t, out.String(), "to version 2")

	_, err := os.Stat(dbPath)
	assert.NoError(t, err)

	out.Reset()
	require.NoError(t, MigrateRuns(&out, schema.SQLiteBackend, dbPath, -1))
	assert.Contains(t, out.String(), "No migration needed")

	require.NoError(t, MigrateRuns(&out, schema.SQLiteBackend, dbPath, 1))
	require.NoError(t, MigrateRuns(&out, schema.SQLiteBackend, dbPath, 0))
	require.NoError(t, MigrateRuns(&out, schema.SQLiteBackend, dbPath, 2))
}

func TestMigrateRuns_CompatibleWithStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Tables created by the store are adopted by the first migration
	assert.NoError(t, MigrateRuns(&bytes.Buffer{}, schema.SQLiteBackend, dbPath, -1))
}

func TestMigrationsDir(t *testing.T) {
	for _, backend := range []schema.DatabaseBackend{schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend} {
		entries, err := migrationsFS.ReadDir(migrationsDir(backend))
		require.NoError(t, err)
		assert.Len(t, entries, 4, "up and down files for each version of %s", backend)
	}
}
