package cmd

import (
	"github.com/huangsam/chartmap/core"
	"github.com/huangsam/chartmap/internal/outwriter"
	"github.com/huangsam/chartmap/internal/raster"
	"github.com/spf13/cobra"
)

// refineCmd applies the refinement rules to a classified annual map.
var refineCmd = &cobra.Command{
	Use:   "refine <classified> <land-cover> <output>",
	Short: "Refine an annual map with land-cover context rules.",
	Long: `Apply the refinement rules to every pixel of a 16-band classified map.

The rules run in order:
  1. fill unclassified years from the land-cover context or the nearest class
  2. drop plantation labels from the first three years unless year four is plantation
  3. relabel urban years whose context is barren to barren
  4. relabel urban years whose context is grassland to grassland
  5. relabel urban years outside urban context to their grassland or cropland majority
  6. relabel every urban year of a record running from urban to cropland
     to the substitute class of its context

Thresholds and the coarse-to-fine substitute table can be overridden
in the rules section of .chartmap.yaml.

Examples:
  # Refine a blended map
  chartmap refine blended.tif mcd12q1.tif refined.tif

  # Write Byte output with DEFLATE compression
  chartmap refine blended.tif mcd12q1.tif refined.tif --refine-datatype Byte --refine-compression DEFLATE`,
	Args:    cobra.ExactArgs(3),
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		report, err := core.ExecuteRefine(cmd.Context(), cfg, raster.NewReader(), raster.NewWriter(), storeManager)
		if report != nil {
			if werr := outwriter.NewOutWriter().WriteReport(report, cfg); werr != nil && err == nil {
				err = werr
			}
		}
		return err
	},
}
