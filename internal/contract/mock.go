package contract

import (
	"context"

	"github.com/huangsam/chartmap/schema"
	"github.com/stretchr/testify/mock"
)

// MockSegmentSource is a mock implementation of SegmentSource for testing.
type MockSegmentSource struct {
	mock.Mock
}

var _ SegmentSource = &MockSegmentSource{} // Compile-time check

// Row implements the SegmentSource interface.
func (m *MockSegmentSource) Row(ctx context.Context, row int) ([][]schema.Segment, error) {
	ret := m.Called(ctx, row)
	segs, _ := ret.Get(0).([][]schema.Segment)
	return segs, ret.Error(1)
}

// MockRasterReader is a mock implementation of RasterReader for testing.
type MockRasterReader struct {
	mock.Mock
}

var _ RasterReader = &MockRasterReader{} // Compile-time check

// ReadGeo implements the RasterReader interface.
func (m *MockRasterReader) ReadGeo(path string) (schema.GeoRef, error) {
	ret := m.Called(path)
	geo, _ := ret.Get(0).(schema.GeoRef)
	return geo, ret.Error(1)
}

// ReadStack implements the RasterReader interface.
func (m *MockRasterReader) ReadStack(path string) (*schema.Grid, schema.GeoRef, error) {
	ret := m.Called(path)
	grid, _ := ret.Get(0).(*schema.Grid)
	geo, _ := ret.Get(1).(schema.GeoRef)
	return grid, geo, ret.Error(2)
}

// MockRasterWriter is a mock implementation of RasterWriter for testing.
type MockRasterWriter struct {
	mock.Mock
}

var _ RasterWriter = &MockRasterWriter{} // Compile-time check

// WriteStack implements the RasterWriter interface.
func (m *MockRasterWriter) WriteStack(path string, grid *schema.Grid, geo schema.GeoRef, opts schema.WriteOptions) error {
	ret := m.Called(path, grid, geo, opts)
	return ret.Error(0)
}
