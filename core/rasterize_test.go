package core

import (
	"testing"

	"github.com/huangsam/chartmap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seg builds a segment for pixel (0, 0) from yyyyddd dates.
func seg(start, end int, class uint8) schema.Segment {
	return schema.Segment{Start: DOYToOrdinal(start), End: DOYToOrdinal(end), Class: class}
}

// vec builds an annual vector from runs of (count, class) pairs.
func vec(runs ...int) schema.AnnualVector {
	var v schema.AnnualVector
	i := 0
	for r := 0; r < len(runs); r += 2 {
		for range runs[r] {
			v[i] = uint8(runs[r+1])
			i++
		}
	}
	return v
}

func TestRasterize(t *testing.T) {
	tests := []struct {
		name     string
		segments []schema.Segment
		want     schema.AnnualVector
	}{
		{
			name:     "single segment extrapolated to both edges",
			segments: []schema.Segment{seg(2001050, 2005200, 5)},
			want:     vec(16, 5),
		},
		{
			name: "full coverage",
			segments: []schema.Segment{
				seg(2001001, 2005200, 5),
				seg(2005201, 2010100, 12),
				seg(2010101, 2016365, 13),
			},
			want: vec(4, 5, 5, 12, 7, 13),
		},
		{
			name: "start on day 270 stays in its own year",
			segments: []schema.Segment{
				seg(2001001, 2008269, 5),
				seg(2008270, 2016365, 12),
			},
			want: vec(7, 5, 9, 12),
		},
		{
			name: "start on day 271 moves to the next year",
			segments: []schema.Segment{
				seg(2001001, 2008270, 5),
				seg(2008271, 2016365, 12),
			},
			want: vec(8, 5, 8, 12),
		},
		{
			name: "later segments overwrite shared years",
			segments: []schema.Segment{
				seg(2001001, 2004300, 5),
				seg(2004100, 2016365, 9),
			},
			want: vec(3, 5, 13, 9),
		},
		{
			name:     "years outside the window are clipped",
			segments: []schema.Segment{seg(1999001, 2020100, 3)},
			want:     vec(16, 3),
		},
		{
			name: "trailing extrapolation carries the first class",
			segments: []schema.Segment{
				seg(2001001, 2005100, 5),
				seg(2005101, 2012100, 12),
			},
			want: vec(4, 5, 7, 12, 5, 5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Rasterize(tt.segments)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Zero(t, got.Gaps())
		})
	}
}

// The leading segment borrows the second segment's class while the trailing
// segment borrows the first's. This asymmetry is intentional.
func TestRasterize_LeadingExtrapolationUsesSecondClass(t *testing.T) {
	segments := []schema.Segment{
		seg(2003100, 2008100, 5),
		seg(2008101, 2016365, 12),
	}

	ext := Extrapolate(segments)
	require.Len(t, ext, 3)
	assert.Equal(t, uint8(12), ext[0].Class)
	assert.Equal(t, DOYToOrdinal(2001001), ext[0].Start)
	assert.Equal(t, segments[0].Start, ext[0].End)

	got, err := Rasterize(segments)
	require.NoError(t, err)
	assert.Equal(t, vec(2, 12, 5, 5, 9, 12), got)
}

func TestRasterize_BothEdgesExtrapolated(t *testing.T) {
	segments := []schema.Segment{
		seg(2003100, 2005100, 3),
		seg(2005100, 2010100, 7),
	}

	ext := Extrapolate(segments)
	require.Len(t, ext, 4)
	assert.Equal(t, []uint8{7, 3, 7, 3}, []uint8{ext[0].Class, ext[1].Class, ext[2].Class, ext[3].Class})
	assert.Equal(t, DOYToOrdinal(2016365), ext[3].End)

	got, err := Rasterize(segments)
	require.NoError(t, err)
	assert.Equal(t, schema.AnnualVector{7, 7, 3, 3, 7, 7, 7, 7, 7, 3, 3, 3, 3, 3, 3, 3}, got)
}

func TestRasterize_LateSingleSegmentBorrowsItsOwnClass(t *testing.T) {
	got, err := Rasterize([]schema.Segment{seg(2002300, 2016365, 7)})
	require.NoError(t, err)
	assert.Equal(t, vec(16, 7), got)
}

func TestRasterize_GapsAreSurfaced(t *testing.T) {
	got, err := Rasterize([]schema.Segment{
		seg(2001001, 2004100, 5),
		seg(2009100, 2016365, 12),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, got.Gaps())
	assert.Equal(t, []uint8{schema.Filling, schema.Filling, schema.Filling, schema.Filling}, got[4:8])
}

func TestRasterize_Invalid(t *testing.T) {
	_, err := Rasterize(nil)
	assert.ErrorIs(t, err, ErrNoSegments)

	_, err = Rasterize([]schema.Segment{seg(2005001, 2004001, 5)})
	assert.Error(t, err)

	_, err = Rasterize([]schema.Segment{seg(2005001, 2006001, 5), seg(2001001, 2002001, 5)})
	assert.Error(t, err)

	other := seg(2006002, 2016365, 5)
	other.Pixel = schema.Pixel{Row: 0, Col: 1}
	_, err = Rasterize([]schema.Segment{seg(2001001, 2006001, 5), other})
	assert.Error(t, err)
}

func TestExtrapolate_Idempotent(t *testing.T) {
	cases := [][]schema.Segment{
		{seg(2001050, 2005200, 5)},
		{seg(2003100, 2008100, 5), seg(2008101, 2016365, 12)},
		{seg(2001001, 2005100, 5), seg(2005101, 2012100, 12)},
		{seg(2002300, 2016365, 7)},
	}

	for _, segments := range cases {
		once := Extrapolate(segments)
		assert.Equal(t, once, Extrapolate(once))

		first, err := Rasterize(segments)
		require.NoError(t, err)
		second, err := Rasterize(once)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestExtrapolate_DoesNotModifyInput(t *testing.T) {
	segments := []schema.Segment{seg(2003100, 2008100, 5), seg(2008101, 2012100, 12)}
	orig := append([]schema.Segment(nil), segments...)
	_ = Extrapolate(segments)
	assert.Equal(t, orig, segments)
}
