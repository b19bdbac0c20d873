// Package raster reads and writes multi-band GeoTIFF stacks through GDAL.
package raster

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/airbusgeo/godal"
	"github.com/google/uuid"
	"github.com/huangsam/chartmap/internal/contract"
	"github.com/huangsam/chartmap/internal/log"
	"github.com/huangsam/chartmap/schema"
)

var registerOnce sync.Once

// register makes the GDAL drivers available exactly once per process.
func register() {
	registerOnce.Do(godal.RegisterAll)
}

// Reader loads raster stacks with GDAL.
type Reader struct{}

var _ contract.RasterReader = &Reader{} // Compile-time check

// NewReader returns a Reader with the GDAL drivers registered.
func NewReader() *Reader {
	register()
	return &Reader{}
}

// ReadGeo returns the shape and spatial reference of the raster at path.
func (r *Reader) ReadGeo(path string) (schema.GeoRef, error) {
	ds, err := godal.Open(path, godal.RasterOnly())
	if err != nil {
		log.Errorw("Open raster failed", "path", path, "error", err)
		return schema.GeoRef{}, fmt.Errorf("%w: %s: %v", ErrInvalidTif, path, err)
	}
	defer func() { _ = ds.Close() }()
	return geoOf(path, ds)
}

// ReadStack reads every band of the raster at path into a grid.
// Values outside 0-255 are clamped to schema.Unresolved.
func (r *Reader) ReadStack(path string) (*schema.Grid, schema.GeoRef, error) {
	ds, err := godal.Open(path, godal.RasterOnly())
	if err != nil {
		log.Errorw("Open raster failed", "path", path, "error", err)
		return nil, schema.GeoRef{}, fmt.Errorf("%w: %s: %v", ErrInvalidTif, path, err)
	}
	defer func() { _ = ds.Close() }()

	geo, err := geoOf(path, ds)
	if err != nil {
		return nil, geo, err
	}

	grid := schema.NewGrid(geo.Lines, geo.Samples, geo.Bands, 0)
	plane := make([]int16, geo.Lines*geo.Samples)
	for b, band := range ds.Bands() {
		// Read as Int16 so Byte and Int16 stacks share one path
		if err := band.IO(godal.IORead, 0, 0, plane, geo.Samples, geo.Lines); err != nil {
			log.Errorw("Read raster band failed", "path", path, "band", b+1, "error", err)
			return nil, geo, fmt.Errorf("%w: %s band %d: %v", ErrTifReadFailed, path, b+1, err)
		}
		grid.SetBand(b, fromInt16(plane))
	}
	log.Debugw("Read raster stack", "path", path, "lines", geo.Lines, "samples", geo.Samples, "bands", geo.Bands)
	return grid, geo, nil
}

func geoOf(path string, ds *godal.Dataset) (schema.GeoRef, error) {
	st := ds.Structure()
	if st.NBands == 0 {
		return schema.GeoRef{}, fmt.Errorf("%w: %s", ErrEmptyTif, path)
	}
	geo := schema.GeoRef{
		Path:       path,
		Lines:      st.SizeY,
		Samples:    st.SizeX,
		Bands:      st.NBands,
		Projection: ds.Projection(),
	}
	// Rasters without a geotransform are still usable as pixel grids
	if gt, err := ds.GeoTransform(); err == nil {
		geo.GeoTransform = gt
	}
	return geo, nil
}

// Writer persists grids as GeoTIFF stacks with GDAL.
type Writer struct{}

var _ contract.RasterWriter = &Writer{} // Compile-time check

// NewWriter returns a Writer with the GDAL drivers registered.
func NewWriter() *Writer {
	register()
	return &Writer{}
}

// WriteStack writes grid to path. The stack is written to a temporary file
// next to path and renamed into place once complete, so a failed write never
// leaves a partial output behind.
func (w *Writer) WriteStack(path string, grid *schema.Grid, geo schema.GeoRef, opts schema.WriteOptions) error {
	if err := grid.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrongShape, err)
	}
	if len(opts.Labels) > 0 && len(opts.Labels) != grid.Bands {
		return fmt.Errorf("%w: %d labels for %d bands", ErrWrongShape, len(opts.Labels), grid.Bands)
	}
	dtype, err := gdalDataType(opts.DataType)
	if err != nil {
		return err
	}
	if err := contract.CheckOutputPath(path, opts.Overwrite); err != nil {
		return err
	}

	tmp := tempPath(path)
	if err := writeDataset(tmp, grid, geo, opts, dtype); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	log.Debugw("Wrote raster stack", "path", path, "bands", grid.Bands, "datatype", opts.DataType, "compression", opts.Compression)
	return nil
}

func writeDataset(path string, grid *schema.Grid, geo schema.GeoRef, opts schema.WriteOptions, dtype godal.DataType) error {
	ds, err := godal.Create(godal.GTiff, path, grid.Bands, dtype, grid.Samples, grid.Lines,
		godal.CreationOption(creationOptions(opts)...))
	if err != nil {
		log.Errorw("Create raster failed", "path", path, "error", err)
		return fmt.Errorf("%w: create %s: %v", ErrTifWriteFailed, path, err)
	}

	if geo.GeoTransform != ([6]float64{}) {
		if err := ds.SetGeoTransform(geo.GeoTransform); err != nil {
			_ = ds.Close()
			return fmt.Errorf("%w: geotransform: %v", ErrTifWriteFailed, err)
		}
	}
	if geo.Projection != "" {
		if err := ds.SetProjection(geo.Projection); err != nil {
			_ = ds.Close()
			return fmt.Errorf("%w: projection: %v", ErrTifWriteFailed, err)
		}
	}

	for b, band := range ds.Bands() {
		if err := writeBand(band, grid, b, opts, dtype); err != nil {
			_ = ds.Close()
			log.Errorw("Write raster band failed", "path", path, "band", b+1, "error", err)
			return fmt.Errorf("%w: band %d: %v", ErrTifWriteFailed, b+1, err)
		}
	}

	// GDAL flushes the GeoTIFF on close
	if err := ds.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrTifWriteFailed, path, err)
	}
	return nil
}

func writeBand(band godal.Band, grid *schema.Grid, b int, opts schema.WriteOptions, dtype godal.DataType) error {
	if err := band.SetNoData(opts.NoData); err != nil {
		return err
	}
	if len(opts.Labels) > 0 {
		if err := band.SetDescription(opts.Labels[b]); err != nil {
			return err
		}
	}
	plane := grid.Band(b)
	if dtype == godal.Int16 {
		return band.IO(godal.IOWrite, 0, 0, toInt16(plane), grid.Samples, grid.Lines)
	}
	return band.IO(godal.IOWrite, 0, 0, plane, grid.Samples, grid.Lines)
}

func gdalDataType(dt schema.DataType) (godal.DataType, error) {
	switch dt {
	case schema.ByteType, "":
		return godal.Byte, nil
	case schema.Int16Type:
		return godal.Int16, nil
	default:
		return godal.Unknown, fmt.Errorf("%w: %s", ErrWrongDataType, dt)
	}
}

// creationOptions returns the GTiff creation options for opts.
func creationOptions(opts schema.WriteOptions) []string {
	out := []string{"TILED=YES"}
	if opts.Compression != "" && opts.Compression != "NONE" {
		out = append(out, "COMPRESS="+opts.Compression)
	}
	return out
}

// tempPath returns a unique sibling of path for staging writes.
func tempPath(path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.NewString()))
}

func toInt16(plane []uint8) []int16 {
	out := make([]int16, len(plane))
	for i, v := range plane {
		out[i] = int16(v)
	}
	return out
}

func fromInt16(plane []int16) []uint8 {
	out := make([]uint8, len(plane))
	for i, v := range plane {
		if v < 0 || v > 255 {
			out[i] = schema.Unresolved
			continue
		}
		out[i] = uint8(v)
	}
	return out
}
