package schema

import "fmt"

// Grid is a lines x samples x bands raster held in memory.
// Data is band-interleaved-by-pixel: the bands of one pixel are contiguous,
// and pixels are stored row-major.
type Grid struct {
	Lines   int
	Samples int
	Bands   int
	Data    []uint8
}

// NewGrid allocates a grid with every value set to fill.
func NewGrid(lines, samples, bands int, fill uint8) *Grid {
	g := &Grid{
		Lines:   lines,
		Samples: samples,
		Bands:   bands,
		Data:    make([]uint8, lines*samples*bands),
	}
	if fill != 0 {
		for i := range g.Data {
			g.Data[i] = fill
		}
	}
	return g
}

// Validate checks that Data matches the declared shape.
func (g *Grid) Validate() error {
	if g.Lines < 0 || g.Samples < 0 || g.Bands < 0 {
		return fmt.Errorf("negative grid shape %dx%dx%d", g.Lines, g.Samples, g.Bands)
	}
	if want := g.Lines * g.Samples * g.Bands; len(g.Data) != want {
		return fmt.Errorf("grid data has %d values, shape %dx%dx%d needs %d", len(g.Data), g.Lines, g.Samples, g.Bands, want)
	}
	return nil
}

// SameFootprint reports whether other covers the same lines and samples.
func (g *Grid) SameFootprint(other *Grid) bool {
	return g.Lines == other.Lines && g.Samples == other.Samples
}

// Row returns the backing slice of row i; writes go to the grid.
func (g *Grid) Row(i int) []uint8 {
	n := g.Samples * g.Bands
	return g.Data[i*n : (i+1)*n]
}

// Pixel returns the backing slice of the bands at (i, j).
func (g *Grid) Pixel(i, j int) []uint8 {
	off := (i*g.Samples + j) * g.Bands
	return g.Data[off : off+g.Bands]
}

// Vector copies the first NumYears bands at (i, j) into an AnnualVector.
func (g *Grid) Vector(i, j int) AnnualVector {
	var v AnnualVector
	copy(v[:], g.Pixel(i, j))
	return v
}

// SetVector writes v into the first NumYears bands at (i, j).
func (g *Grid) SetVector(i, j int, v AnnualVector) {
	copy(g.Pixel(i, j), v[:])
}

// Context copies the first NumYears bands at (i, j) into a ContextVector.
func (g *Grid) Context(i, j int) ContextVector {
	var c ContextVector
	copy(c[:], g.Pixel(i, j))
	return c
}

// Band extracts band b (0-based) as a row-major plane.
func (g *Grid) Band(b int) []uint8 {
	plane := make([]uint8, g.Lines*g.Samples)
	for p := range plane {
		plane[p] = g.Data[p*g.Bands+b]
	}
	return plane
}

// SetBand writes a row-major plane into band b (0-based).
func (g *Grid) SetBand(b int, plane []uint8) {
	for p, v := range plane {
		g.Data[p*g.Bands+b] = v
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	clone := *g
	clone.Data = make([]uint8, len(g.Data))
	copy(clone.Data, g.Data)
	return &clone
}
