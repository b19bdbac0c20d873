// Package schema has configs, models and constants for all parts of chartmap.
package schema

import "slices"

// Pixel is a row/column coordinate in the fine raster grid.
type Pixel struct {
	Row int
	Col int
}

// Segment is one contiguous time interval with a single class label for one pixel.
// Start and End are ordinal day numbers where 0001-01-01 is day 1.
type Segment struct {
	Start int
	End   int
	Class uint8 // 0 means unclassified
	Pixel Pixel
}

// AnnualVector holds one class code per calendar year, FirstYear through LastYear.
// It is a value type: assigning or passing it copies all slots.
type AnnualVector [NumYears]uint8

// ContextVector holds the coarse land-cover classes aligned with the annual slots.
type ContextVector [NumYears]uint8

// GeoRef is the spatial reference of a raster stack.
type GeoRef struct {
	Path         string
	Lines        int
	Samples      int
	Bands        int
	GeoTransform [6]float64
	Projection   string
}

// NewUnresolvedVector returns a vector with every slot set to Unresolved.
func NewUnresolvedVector() AnnualVector {
	var v AnnualVector
	for i := range v {
		v[i] = Unresolved
	}
	return v
}

// Gaps counts the slots still at a sentinel (Filling or Unresolved).
func (v AnnualVector) Gaps() int {
	n := 0
	for _, c := range v {
		if c == Filling || c == Unresolved {
			n++
		}
	}
	return n
}

// IsUnresolved reports whether every slot is Unresolved.
func (v AnnualVector) IsUnresolved() bool {
	for _, c := range v {
		if c != Unresolved {
			return false
		}
	}
	return true
}

// Count returns how many slots hold class.
func (v AnnualVector) Count(class uint8) int {
	n := 0
	for _, c := range v {
		if c == class {
			n++
		}
	}
	return n
}

// Classes returns the distinct classes in the vector in ascending order.
func (v AnnualVector) Classes() []uint8 {
	out := make([]uint8, 0, NumYears)
	for _, c := range v {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return out
}

// Year returns the calendar year of slot i.
func Year(i int) int {
	return FirstYear + i
}
