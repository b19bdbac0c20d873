package core

import (
	"context"

	"github.com/huangsam/chartmap/internal/contract"
	"github.com/huangsam/chartmap/schema"
)

// PixelInspection is the rasterization of one pixel's cached segments.
type PixelInspection struct {
	Pixel    schema.Pixel
	Segments []schema.Segment // after extrapolation
	Vector   schema.AnnualVector
	Err      error
}

// InspectRow rasterizes the cached segments of one row for diagnosis.
// A negative col selects every pixel of the row.
func InspectRow(ctx context.Context, source contract.SegmentSource, row, col int) ([]PixelInspection, error) {
	pixels, err := source.Row(ctx, row)
	if err != nil {
		return nil, err
	}
	var out []PixelInspection
	for _, segments := range pixels {
		if len(segments) == 0 {
			continue
		}
		px := segments[0].Pixel
		if col >= 0 && px.Col != col {
			continue
		}
		v, err := Rasterize(segments)
		out = append(out, PixelInspection{
			Pixel:    px,
			Segments: Extrapolate(segments),
			Vector:   v,
			Err:      err,
		})
	}
	return out, nil
}
