package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/huangsam/chartmap/internal/log"
	"github.com/huangsam/chartmap/schema"
)

// rowFunc processes one row and reports its outcome.
type rowFunc func(ctx context.Context, row int) schema.RowOutcome

// processRows runs fn for every row using a fixed pool of workers.
// Workers check ctx before each row; rows picked up after cancellation are
// reported as canceled. The returned outcomes are in row order.
func processRows(ctx context.Context, lines int, opts Options, fn rowFunc) ([]schema.RowOutcome, error) {
	opts = opts.withDefaults()

	// Initialize channels based on the number of rows to be processed.
	rowCh := make(chan int, lines)
	outcomeCh := make(chan schema.RowOutcome, lines)
	var wg sync.WaitGroup

	// Start worker pool
	for range opts.Workers {
		wg.Go(func() {
			for row := range rowCh {
				if err := ctx.Err(); err != nil {
					outcomeCh <- schema.RowOutcome{Row: row, Status: schema.RowCanceled, Err: err}
					continue
				}
				outcomeCh <- runRow(ctx, row, fn)
			}
		})
	}

	// Send all rows to the channel
	for row := range lines {
		rowCh <- row
	}
	close(rowCh)

	go func() {
		wg.Wait()
		close(outcomeCh)
	}()

	// Single collector owns the outcomes and the progress counter
	tracker := newProgress(lines, opts.ProgressStep)
	report := schema.RunReport{Outcomes: make([]schema.RowOutcome, 0, lines)}
	for o := range outcomeCh {
		if o.Status == schema.RowFailed {
			log.Warnw(fmt.Sprintf("Failed to process line %d.", o.Row+1), "run", opts.Label, "row", o.Row, "error", o.Err)
		}
		report.Add(o)
		if pct, ok := tracker.advance(len(report.Outcomes)); ok {
			log.Infow(fmt.Sprintf("%d%% done.", pct), "run", opts.Label)
		}
	}
	report.Sort()

	return report.Outcomes, ctx.Err()
}

// runRow isolates a panic in fn to the row that caused it.
func runRow(ctx context.Context, row int, fn rowFunc) (outcome schema.RowOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = schema.RowOutcome{Row: row, Status: schema.RowFailed, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return fn(ctx, row)
}

// failedRow builds the outcome of a row that could not be processed.
func failedRow(row int, err error) schema.RowOutcome {
	return schema.RowOutcome{Row: row, Status: schema.RowFailed, Err: err}
}
