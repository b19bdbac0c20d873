package cmd

import (
	"fmt"

	"github.com/huangsam/chartmap/core"
	"github.com/huangsam/chartmap/internal/contract"
	"github.com/huangsam/chartmap/internal/outwriter"
	"github.com/huangsam/chartmap/internal/segcache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// inspectCmd prints the rasterization of one cached row.
var inspectCmd = &cobra.Command{
	Use:   "inspect <segments-dir>",
	Short: "Show the cached segments of a row and their annual classes.",
	Long: `Read the segment cache of one row and print, per pixel, the segments
after extrapolation and the annual class vector they rasterize to.

Useful for diagnosing unexpected classes in a blended map.

Examples:
  # Every pixel of row 120
  chartmap inspect ./segments --row 120

  # A single pixel
  chartmap inspect ./segments --row 120 --col 45`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		row := viper.GetInt("row")
		if row < 0 {
			return fmt.Errorf("--row must be 0 or greater (received %d)", row)
		}
		if err := contract.CheckInputPath(cfg.SegmentsDir); err != nil {
			return err
		}

		source := segcache.NewSource(cfg.SegmentsDir, cfg.Recursive)
		results, err := core.InspectRow(cmd.Context(), source, row, viper.GetInt("col"))
		if err != nil {
			return err
		}
		return outwriter.NewOutWriter().WriteInspection(results, cfg)
	},
}
