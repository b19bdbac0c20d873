package core

import "github.com/huangsam/chartmap/schema"

// Replicate upsamples g by copying every cell into a factor x factor block.
func Replicate(g *schema.Grid, factor int) *schema.Grid {
	if factor <= 1 {
		return g.Clone()
	}
	out := schema.NewGrid(g.Lines*factor, g.Samples*factor, g.Bands, 0)
	for i := range out.Lines {
		for j := range out.Samples {
			copy(out.Pixel(i, j), g.Pixel(i/factor, j/factor))
		}
	}
	return out
}
