package cmd

import (
	"github.com/huangsam/chartmap/core"
	"github.com/huangsam/chartmap/internal/contract"
	"github.com/huangsam/chartmap/internal/outwriter"
	"github.com/huangsam/chartmap/internal/raster"
	"github.com/huangsam/chartmap/internal/segcache"
	"github.com/spf13/cobra"
)

// blendCmd builds the annual map from per-row segment caches.
var blendCmd = &cobra.Command{
	Use:   "blend <segments-dir> <output> <reference-image>",
	Short: "Blend classified segments into one land-cover map per year.",
	Long: `Rasterize the classified time-series segments of every pixel into annual
land-cover classes for 2001 through 2016 and write them as a 16-band raster.

The reference image provides the grid size and spatial reference of the output.
Each raster row is read from its own cache file (segments_r{row}.parquet).
Pixels without segments are filled with the per-pixel majority of the
optional coarse land-cover stack, replicated 2x2 onto the fine grid.

Exit codes:
  0  success
  1  output already exists (use --overwrite)
  2  an input could not be read
  3  no row was processed
  4  the output could not be written

Examples:
  # Blend with a land-cover fallback
  chartmap blend ./segments blended.tif reference.tif --land-cover mcd12q1.tif

  # Look for cache files in nested directories and replace the output
  chartmap blend ./segments blended.tif reference.tif --recursive --overwrite`,
	Args:    cobra.ExactArgs(3),
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := contract.CheckOutputPath(cfg.OutputPath, cfg.Overwrite); err != nil {
			return err
		}
		if err := contract.CheckInputPath(cfg.SegmentsDir); err != nil {
			return err
		}

		source := segcache.NewSource(cfg.SegmentsDir, cfg.Recursive)
		report, err := core.ExecuteBlend(cmd.Context(), cfg, source, raster.NewReader(), raster.NewWriter(), storeManager)
		if report != nil {
			if werr := outwriter.NewOutWriter().WriteReport(report, cfg); werr != nil && err == nil {
				err = werr
			}
		}
		return err
	},
}
