package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/chartmap/core"
	"github.com/huangsam/chartmap/internal/contract"
	"github.com/huangsam/chartmap/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintInspection prints one table row per inspected pixel with its
// extrapolated segments and the resulting annual vector.
func PrintInspection(w io.Writer, results []core.PixelInspection, cfg *contract.Config) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No pixels with segments found.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Pixel", "Segments", "Annual Classes"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, r := range results {
		vector := schema.FormatVector(r.Vector)
		if r.Err != nil {
			vector = formatCause(r.Err, GetMaxCauseWidth(cfg))
		}
		data = append(data, []string{
			fmt.Sprintf("%d,%d", r.Pixel.Row, r.Pixel.Col),
			formatSegments(r.Segments),
			vector,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d pixels (years %d-%d)\n", len(results), schema.FirstYear, schema.LastYear)
	return err
}

// formatSegments renders segments as "yyyy-ddd..yyyy-ddd:class", one per line.
func formatSegments(segments []schema.Segment) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = schema.FormatDOY(core.OrdinalToDOY(s.Start)) + ".." +
			schema.FormatDOY(core.OrdinalToDOY(s.End)) + ":" + strconv.Itoa(int(s.Class))
	}
	return strings.Join(parts, "\n")
}
