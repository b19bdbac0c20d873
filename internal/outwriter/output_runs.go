package outwriter

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/chartmap/internal/contract"
	"github.com/huangsam/chartmap/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

const timeLayout = "2006-01-02 15:04:05"

// PrintRunStatus prints run tracking status information.
func PrintRunStatus(w io.Writer, status schema.RunStatus) {
	_, _ = fmt.Fprintf(w, "Run Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %d\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format(timeLayout))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format(timeLayout))
		_, _ = fmt.Fprintf(w, "Total Rows Processed: %d\n", status.TotalRows)
		_, _ = fmt.Fprintf(w, "Total Rows Failed: %d\n", status.FailedRows)
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range slices.Sorted(maps.Keys(status.TableSizes)) {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}

// PrintRunHistory prints one table row per recorded run.
func PrintRunHistory(w io.Writer, runs []schema.RunRecord, cfg *contract.Config) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Kind", "Started", "Duration", "Rows", "Succeeded", "Failed", "No-Data", "Exit"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	red, green := fmt.Sprint, fmt.Sprint
	if cfg.UseColors {
		red = color.New(color.FgRed).SprintFunc()
		green = color.New(color.FgGreen).SprintFunc()
	}

	var data [][]string
	for _, r := range runs {
		duration := "-"
		if r.RunDurationMs != nil {
			duration = (time.Duration(*r.RunDurationMs) * time.Millisecond).String()
		}
		exit := "-"
		if r.ExitCode != nil {
			if *r.ExitCode == 0 {
				exit = green("0")
			} else {
				exit = red(strconv.Itoa(int(*r.ExitCode)))
			}
		}
		data = append(data, []string{
			strconv.FormatInt(r.RunID, 10),
			r.Kind,
			r.StartTime.Local().Format(timeLayout),
			duration,
			strconv.Itoa(int(r.TotalRows)),
			strconv.Itoa(int(r.SucceededRows)),
			strconv.Itoa(int(r.FailedRows)),
			strconv.Itoa(int(r.NoDataRows)),
			exit,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d runs. Run backend: %s\n", len(runs), cfg.RunBackend)
	return err
}
