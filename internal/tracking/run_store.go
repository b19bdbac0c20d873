package tracking

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/chartmap/internal/contract"
	"github.com/huangsam/chartmap/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for run tracking.
const (
	runsTable        = "chartmap_runs"
	rowFailuresTable = "chartmap_row_failures"
)

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new RunStore with the specified backend.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (*RunStoreImpl, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetDBFilePath()
		}
		db, err = sql.Open(driverFor(backend), dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		db, err = sql.Open(driverFor(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open(driverFor(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=... user=... password=...", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &RunStoreImpl{backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and accessible", backend, err)
	}

	if err := createTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tracking tables: %w", err)
	}

	return &RunStoreImpl{db: db, backend: backend}, nil
}

// createTables creates the run tracking tables.
func createTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{rowFailuresTable, getCreateRowFailuresQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for chartmap_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				kind VARCHAR(16) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms BIGINT,
				total_rows INT NOT NULL DEFAULT 0,
				succeeded_rows INT NOT NULL DEFAULT 0,
				failed_rows INT NOT NULL DEFAULT 0,
				nodata_rows INT NOT NULL DEFAULT 0,
				exit_code INT,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				kind TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms BIGINT,
				total_rows INT NOT NULL DEFAULT 0,
				succeeded_rows INT NOT NULL DEFAULT 0,
				failed_rows INT NOT NULL DEFAULT 0,
				nodata_rows INT NOT NULL DEFAULT 0,
				exit_code INT,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				kind TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_rows INTEGER NOT NULL DEFAULT 0,
				succeeded_rows INTEGER NOT NULL DEFAULT 0,
				failed_rows INTEGER NOT NULL DEFAULT 0,
				nodata_rows INTEGER NOT NULL DEFAULT 0,
				exit_code INTEGER,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateRowFailuresQuery returns the CREATE TABLE query for chartmap_row_failures.
func getCreateRowFailuresQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(rowFailuresTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				row_index INT NOT NULL,
				status VARCHAR(16) NOT NULL,
				cause TEXT NOT NULL,
				PRIMARY KEY (run_id, row_index)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				row_index INT NOT NULL,
				status TEXT NOT NULL,
				cause TEXT NOT NULL,
				PRIMARY KEY (run_id, row_index)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				row_index INTEGER NOT NULL,
				status TEXT NOT NULL,
				cause TEXT NOT NULL,
				PRIMARY KEY (run_id, row_index)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(kind schema.RunKind, startTime time.Time, configParams map[string]any) (int64, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (kind, start_time, config_params) VALUES ($1, $2, $3) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query, string(kind), startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (kind, start_time, config_params) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, string(kind), formatTime(startTime, rs.backend), string(configJSON))
		if err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	return runID, nil
}

// EndRun updates the run with completion data from its report.
// A nil report records zero row counts.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, report *schema.RunReport, exitCode int) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	// First, get the start_time to calculate duration
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholder(rs.backend, 1))
	startTime, err := scanTime(rs.db.QueryRow(query, runID), rs.backend)
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	durationMs := endTime.Sub(startTime).Milliseconds()

	var total, succeeded, failed, noData int
	if report != nil {
		total = report.Lines
		succeeded = report.Succeeded()
		failed = report.Count(schema.RowFailed)
		noData = report.Count(schema.RowNoData)
	}

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_rows = %s,
		succeeded_rows = %s, failed_rows = %s, nodata_rows = %s, exit_code = %s WHERE run_id = %s`,
		quotedTableName, placeholder(rs.backend, 1), placeholder(rs.backend, 2), placeholder(rs.backend, 3),
		placeholder(rs.backend, 4), placeholder(rs.backend, 5), placeholder(rs.backend, 6),
		placeholder(rs.backend, 7), placeholder(rs.backend, 8))

	_, err = rs.db.Exec(updateQuery, formatTime(endTime, rs.backend), durationMs, total,
		succeeded, failed, noData, exitCode, runID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	return nil
}

// RecordRowFailure stores the cause of one failed row.
func (rs *RunStoreImpl) RecordRowFailure(runID int64, outcome schema.RowOutcome) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	cause := ""
	if outcome.Err != nil {
		cause = outcome.Err.Error()
	}

	query := fmt.Sprintf(`INSERT INTO %s (run_id, row_index, status, cause) VALUES (%s, %s, %s, %s)`,
		quoteTableName(rowFailuresTable, rs.backend), placeholder(rs.backend, 1), placeholder(rs.backend, 2),
		placeholder(rs.backend, 3), placeholder(rs.backend, 4))
	if _, err := rs.db.Exec(query, runID, outcome.Row, string(outcome.Status), cause); err != nil {
		return fmt.Errorf("failed to insert row failure: %w", err)
	}

	return nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStatus, error) {
	status := schema.RunStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, rs.backend)

	row := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns))
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row = rs.db.QueryRow(fmt.Sprintf("SELECT run_id FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns))
		if err := row.Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}

		var err error
		row = rs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns))
		if status.LastRunTime, err = scanTime(row, rs.backend); err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}

		row = rs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns))
		if status.OldestRunTime, err = scanTime(row, rs.backend); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}

		row = rs.db.QueryRow(fmt.Sprintf("SELECT COALESCE(SUM(total_rows), 0), COALESCE(SUM(failed_rows), 0) FROM %s", quotedRuns))
		if err := row.Scan(&status.TotalRows, &status.FailedRows); err != nil {
			return status, fmt.Errorf("failed to get row totals: %w", err)
		}
	}

	for _, table := range []string{runsTable, rowFailuresTable} {
		row = rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend)))
		var count int64
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all runs from the store.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, kind, start_time, end_time, run_duration_ms, total_rows,
		succeeded_rows, failed_rows, nodata_rows, exit_code, config_params FROM %s ORDER BY run_id`,
		quoteTableName(runsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord

	for rows.Next() {
		var record schema.RunRecord

		switch rs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &record.Kind, &startTimeStr, &endTimeStr, &record.RunDurationMs,
				&record.TotalRows, &record.SucceededRows, &record.FailedRows, &record.NoDataRows,
				&record.ExitCode, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.Kind, &record.StartTime, &record.EndTime, &record.RunDurationMs,
				&record.TotalRows, &record.SucceededRows, &record.FailedRows, &record.NoDataRows,
				&record.ExitCode, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return results, nil
}

// GetAllRowFailures retrieves all row failures from the store.
func (rs *RunStoreImpl) GetAllRowFailures() ([]schema.RowFailureRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, row_index, status, cause FROM %s ORDER BY run_id, row_index`,
		quoteTableName(rowFailuresTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query row failures: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RowFailureRecord
	for rows.Next() {
		var record schema.RowFailureRecord
		if err := rows.Scan(&record.RunID, &record.RowIndex, &record.Status, &record.Cause); err != nil {
			return nil, fmt.Errorf("failed to scan row failure: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating row failures: %w", err)
	}

	return results, nil
}
