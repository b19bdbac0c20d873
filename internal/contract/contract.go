// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/chartmap/schema"
)

// SegmentSource yields the classified segments of one raster row.
// This allows the compositor to be tested without segment cache files on disk.
type SegmentSource interface {
	// Row returns one time-ordered segment list per pixel that has segments.
	// It returns ErrNoSegmentCache when no cache exists for the row.
	Row(ctx context.Context, row int) ([][]schema.Segment, error)
}

// RasterReader loads raster stacks and their spatial reference.
type RasterReader interface {
	// ReadGeo returns the spatial reference and shape of the raster at path.
	ReadGeo(path string) (schema.GeoRef, error)

	// ReadStack reads every band of the raster at path into a grid.
	ReadStack(path string) (*schema.Grid, schema.GeoRef, error)
}

// RasterWriter persists an annual class grid as a multi-band raster.
type RasterWriter interface {
	// WriteStack writes grid to path using the spatial reference in geo.
	WriteStack(path string, grid *schema.Grid, geo schema.GeoRef, opts schema.WriteOptions) error
}

// StoreManager defines the interface for managing run tracking stores.
// This allows the tracking layer to be mocked for testing.
type StoreManager interface {
	GetRunStore() RunStore
}

// RunStore defines the interface for tracking blend and refine runs.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(kind schema.RunKind, startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data from its report
	EndRun(runID int64, endTime time.Time, report *schema.RunReport, exitCode int) error

	// RecordRowFailure stores the cause of one failed row
	RecordRowFailure(runID int64, outcome schema.RowOutcome) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns returns every recorded run ordered by ID
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllRowFailures returns every recorded row failure ordered by run and row
	GetAllRowFailures() ([]schema.RowFailureRecord, error)

	// Close closes the underlying connection
	Close() error
}
