package schema

// Custom string types for type safety.
type (
	// RunKind represents which pipeline produced a run.
	RunKind string

	// RowStatus represents the outcome of processing one raster row.
	RowStatus string

	// DataType represents the pixel datatype of an output raster.
	DataType string

	// DatabaseBackend represents the database backend for run tracking.
	DatabaseBackend string
)

// Canonical observation window.
const (
	FirstYear = 2001
	LastYear  = 2016
	NumYears  = LastYear - FirstYear + 1

	// EpochStart and EpochEnd are yyyyddd dates bounding the record.
	EpochStart = FirstYear*1000 + 1
	EpochEnd   = LastYear*1000 + 365

	// LateStartDOY is the last day-of-year still attributed to its own year.
	LateStartDOY = 270
)

// Sentinel class codes.
const (
	Unclassified uint8 = 0
	Filling      uint8 = 254 // rasterizer fill-in-progress marker
	Unresolved   uint8 = 255 // not yet resolved, also the output nodata value
)

// Fine class codes referenced by the refinement rules.
const (
	ClassGrassland  uint8 = 10
	ClassCropland   uint8 = 12
	ClassUrban      uint8 = 13
	ClassBarren     uint8 = 16
	ClassPlantation uint8 = 18
	ClassWetland    uint8 = 25
)

// All run kinds supported.
const (
	BlendRun  RunKind = "blend"
	RefineRun RunKind = "refine"
)

// All row statuses.
const (
	RowSucceeded RowStatus = "succeeded" // at least one pixel resolved (blend) or row refined
	RowEmpty     RowStatus = "empty"     // cache present but no pixel resolved from segments
	RowNoData    RowStatus = "no-data"   // no segment cache for the row
	RowFailed    RowStatus = "failed"
	RowCanceled  RowStatus = "canceled"
)

// All output datatypes supported.
const (
	ByteType  DataType = "Byte"
	Int16Type DataType = "Int16"
)

// All run tracking backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidDatabaseBackends lists all valid run tracking backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidDataTypes lists all valid output datatypes.
var ValidDataTypes = map[DataType]struct{}{
	ByteType:  {},
	Int16Type: {},
}

// ValidCompressions lists the GeoTIFF compression schemes accepted for output.
var ValidCompressions = map[string]struct{}{
	"NONE":     {},
	"PACKBITS": {},
	"LZW":      {},
	"DEFLATE":  {},
}
