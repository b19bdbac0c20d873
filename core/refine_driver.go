package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/chartmap/internal/contract"
	"github.com/huangsam/chartmap/schema"
)

// RefineGrid applies the refinement rules to every pixel of grid and returns
// a refined copy. The input grids are never modified.
func RefineGrid(ctx context.Context, grid, landCover *schema.Grid, rs *schema.RuleSet, opts Options) (*schema.Grid, *schema.RunReport, error) {
	if err := grid.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: classified map: %v", contract.ErrInputUnreadable, err)
	}
	if grid.Bands != schema.NumYears {
		return nil, nil, fmt.Errorf("%w: classified map has %d bands, need %d", contract.ErrInputUnreadable, grid.Bands, schema.NumYears)
	}
	if err := checkContext(landCover, grid.Lines, grid.Samples); err != nil {
		return nil, nil, err
	}

	out := grid.Clone()
	report := &schema.RunReport{Kind: schema.RefineRun, Lines: grid.Lines, Started: time.Now()}

	outcomes, err := processRows(ctx, grid.Lines, opts, func(_ context.Context, row int) schema.RowOutcome {
		return refineRow(row, grid, landCover, out, rs)
	})
	report.Outcomes = outcomes
	report.Finished = time.Now()
	if err != nil {
		return out, report, fmt.Errorf("refine canceled: %w", err)
	}
	if report.Succeeded() == 0 {
		return out, report, contract.ErrNothingProcessed
	}
	return out, report, nil
}

func refineRow(row int, grid, landCover, out *schema.Grid, rs *schema.RuleSet) schema.RowOutcome {
	outcome := schema.RowOutcome{Row: row, Status: schema.RowSucceeded}
	buf := make([]uint8, grid.Samples*grid.Bands)
	for j := range grid.Samples {
		v := grid.Vector(row, j)
		refined := Refine(v, landCover.Context(row, j), rs)
		if refined != v {
			outcome.Changed++
		}
		copy(buf[j*grid.Bands:], refined[:])
		outcome.Resolved++
		outcome.Gaps += refined.Gaps()
	}
	copy(out.Row(row), buf)
	return outcome
}
