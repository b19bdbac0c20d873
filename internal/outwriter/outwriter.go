// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"os"

	"github.com/huangsam/chartmap/core"
	"github.com/huangsam/chartmap/internal/contract"
	"github.com/huangsam/chartmap/schema"
)

// OutWriter provides a unified interface for all console output.
// It keeps table rendering out of the core run logic.
type OutWriter struct {
	w io.Writer
}

// NewOutWriter creates a new instance of the output writer on stdout.
func NewOutWriter() *OutWriter {
	return &OutWriter{w: os.Stdout}
}

// NewOutWriterTo creates an output writer on w.
func NewOutWriterTo(w io.Writer) *OutWriter {
	return &OutWriter{w: w}
}

// WriteReport prints the row summary of a blend or refine run.
func (ow *OutWriter) WriteReport(report *schema.RunReport, cfg *contract.Config) error {
	return PrintRunReport(ow.w, report, cfg)
}

// WriteInspection prints the rasterized segments of inspected pixels.
func (ow *OutWriter) WriteInspection(results []core.PixelInspection, cfg *contract.Config) error {
	return PrintInspection(ow.w, results, cfg)
}

// WriteRunStatus prints the status of the run tracking store.
func (ow *OutWriter) WriteRunStatus(status schema.RunStatus) {
	PrintRunStatus(ow.w, status)
}

// WriteRunHistory prints recorded runs, newest last.
func (ow *OutWriter) WriteRunHistory(runs []schema.RunRecord, cfg *contract.Config) error {
	return PrintRunHistory(ow.w, runs, cfg)
}
