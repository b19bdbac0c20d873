package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/chartmap/internal/contract"
	"github.com/huangsam/chartmap/internal/log"
	"github.com/huangsam/chartmap/schema"
)

// Compose rasterizes the segments of every row into an annual class grid
// shaped like geo. Pixels without segments are filled from the majority of
// their land-cover context when landCover is not nil.
//
// Row failures are recorded in the report and never abort the run. Compose
// returns ErrNothingProcessed (wrapped) when no row resolved a pixel from
// segments, and the context error when the run was canceled.
func Compose(ctx context.Context, geo schema.GeoRef, source contract.SegmentSource, landCover *schema.Grid, opts Options) (*schema.Grid, *schema.RunReport, error) {
	if landCover != nil {
		if err := checkContext(landCover, geo.Lines, geo.Samples); err != nil {
			return nil, nil, err
		}
	}

	out := schema.NewGrid(geo.Lines, geo.Samples, schema.NumYears, schema.Unresolved)
	report := &schema.RunReport{Kind: schema.BlendRun, Lines: geo.Lines, Started: time.Now()}

	outcomes, err := processRows(ctx, geo.Lines, opts, func(ctx context.Context, row int) schema.RowOutcome {
		return composeRow(ctx, row, out, source, landCover)
	})
	report.Outcomes = outcomes
	report.Finished = time.Now()
	if err != nil {
		return out, report, fmt.Errorf("blend canceled: %w", err)
	}
	if report.Succeeded() == 0 {
		return out, report, contract.ErrNothingProcessed
	}
	return out, report, nil
}

// composeRow builds row in a private buffer and copies it into out only on success.
func composeRow(ctx context.Context, row int, out *schema.Grid, source contract.SegmentSource, landCover *schema.Grid) schema.RowOutcome {
	outcome := schema.RowOutcome{Row: row}
	buf := make([]uint8, out.Samples*out.Bands)
	for i := range buf {
		buf[i] = schema.Unresolved
	}

	pixels, err := source.Row(ctx, row)
	switch {
	case errors.Is(err, contract.ErrNoSegmentCache):
		log.Warnw(fmt.Sprintf("Found no segment cache for line %d", row+1), "row", row)
		outcome.Status = schema.RowNoData
	case err != nil:
		return failedRow(row, err)
	default:
		for _, segments := range pixels {
			if len(segments) == 0 {
				continue
			}
			px := segments[0].Pixel
			if px.Row != row || px.Col < 0 || px.Col >= out.Samples {
				return failedRow(row, fmt.Errorf("pixel %v is outside row %d of %d samples", px, row, out.Samples))
			}
			v, err := Rasterize(segments)
			if err != nil {
				return failedRow(row, fmt.Errorf("pixel %v: %w", px, err))
			}
			copy(buf[px.Col*out.Bands:], v[:])
			outcome.Resolved++
			outcome.Gaps += v.Gaps()
		}
		outcome.Status = schema.RowEmpty
		if outcome.Resolved > 0 {
			outcome.Status = schema.RowSucceeded
		}
	}

	if landCover != nil {
		outcome.Fallback = fillFromContext(buf, row, out.Bands, landCover)
	}
	copy(out.Row(row), buf)
	return outcome
}

// fillFromContext fills fully unresolved pixels of a row buffer with the
// majority class of their land-cover context and returns how many it filled.
func fillFromContext(buf []uint8, row, bands int, landCover *schema.Grid) int {
	filled := 0
	for j := 0; j*bands < len(buf); j++ {
		var v schema.AnnualVector
		copy(v[:], buf[j*bands:])
		if !v.IsUnresolved() {
			continue
		}
		c := landCover.Context(row, j)
		class, _ := Majority(c[:])
		for b := range bands {
			buf[j*bands+b] = class
		}
		filled++
	}
	return filled
}

// checkContext verifies that landCover has a full context vector for every pixel.
func checkContext(landCover *schema.Grid, lines, samples int) error {
	if err := landCover.Validate(); err != nil {
		return fmt.Errorf("%w: land cover: %v", contract.ErrInputUnreadable, err)
	}
	if landCover.Bands < schema.NumYears {
		return fmt.Errorf("%w: land cover has %d bands, need %d", contract.ErrInputUnreadable, landCover.Bands, schema.NumYears)
	}
	if landCover.Lines < lines || landCover.Samples < samples {
		return fmt.Errorf("%w: land cover %dx%d does not cover grid %dx%d", contract.ErrInputUnreadable,
			landCover.Lines, landCover.Samples, lines, samples)
	}
	return nil
}
