package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/chartmap/internal/contract"
	"github.com/huangsam/chartmap/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintRunReport prints the rows that did not succeed followed by run totals.
// A report where every row succeeded prints only the totals.
func PrintRunReport(w io.Writer, report *schema.RunReport, cfg *contract.Config) error {
	if report == nil {
		return nil
	}
	report.Sort()

	var data [][]string
	for _, o := range report.Outcomes {
		if o.Status == schema.RowSucceeded {
			continue
		}
		data = append(data, []string{
			strconv.Itoa(o.Row),
			statusLabel(o.Status, cfg.UseColors),
			formatCause(o.Err, GetMaxCauseWidth(cfg)),
		})
	}

	if len(data) > 0 {
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Row", "Status", "Cause"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignLeft
		})
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	resolved, fallback, changed, gaps := report.Totals()
	if _, err := fmt.Fprintf(w, "%d/%d lines successful (%d empty, %d no-data, %d failed, %d canceled)\n",
		report.Succeeded(), report.Lines,
		report.Count(schema.RowEmpty), report.Count(schema.RowNoData),
		report.Count(schema.RowFailed), report.Count(schema.RowCanceled)); err != nil {
		return err
	}
	switch report.Kind {
	case schema.RefineRun:
		if _, err := fmt.Fprintf(w, "Pixels refined: %d, changed: %d, unresolved slots: %d\n", resolved, changed, gaps); err != nil {
			return err
		}
	default:
		if _, err := fmt.Fprintf(w, "Pixels resolved: %d, filled from land cover: %d, unresolved slots: %d\n", resolved, fallback, gaps); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%s completed in %v with %d workers. Run backend: %s\n",
		report.Kind, report.Duration(), cfg.Workers, cfg.RunBackend); err != nil {
		return err
	}
	return nil
}

func statusLabel(status schema.RowStatus, useColors bool) string {
	if useColors {
		return contract.GetStatusLabel(status)
	}
	return string(status)
}

func formatCause(err error, maxWidth int) string {
	if err == nil {
		return "-"
	}
	return contract.TruncatePath(err.Error(), maxWidth)
}
