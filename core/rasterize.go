package core

import (
	"errors"
	"fmt"

	"github.com/huangsam/chartmap/schema"
)

// ErrNoSegments is returned when a pixel has an empty segment list.
var ErrNoSegments = errors.New("no segments to rasterize")

// Rasterize converts one pixel's time-ordered segments into an annual class vector.
// Slots no segment reaches stay at schema.Filling and are reported by Gaps.
func Rasterize(segments []schema.Segment) (schema.AnnualVector, error) {
	var v schema.AnnualVector
	for i := range v {
		v[i] = schema.Filling
	}
	if len(segments) == 0 {
		return v, ErrNoSegments
	}
	if err := validateSegments(segments); err != nil {
		return v, err
	}

	for _, seg := range Extrapolate(segments) {
		startYear, startDOY := SplitDOY(OrdinalToDOY(seg.Start))
		endYear, _ := SplitDOY(OrdinalToDOY(seg.End))
		if startDOY > schema.LateStartDOY {
			startYear++
		}
		from := max(startYear, schema.FirstYear)
		to := min(endYear, schema.LastYear)
		for y := from; y <= to; y++ {
			v[y-schema.FirstYear] = seg.Class
		}
	}
	return v, nil
}

// Extrapolate extends a segment list to the edges of the observation window.
// A record starting after 2001-270 gets a leading segment from 2001-001 that
// carries the second segment's class (the first's when there is only one).
// A record ending before 2016-001 gets a trailing segment to 2016-365 that
// carries the first segment's class. The input slice is not modified.
func Extrapolate(segments []schema.Segment) []schema.Segment {
	if len(segments) == 0 {
		return nil
	}
	first, last := segments[0], segments[len(segments)-1]

	out := make([]schema.Segment, 0, len(segments)+2)
	if OrdinalToDOY(first.Start) > schema.FirstYear*1000+schema.LateStartDOY {
		lead := first
		if len(segments) > 1 {
			lead.Class = segments[1].Class
		}
		lead.Start = DOYToOrdinal(schema.EpochStart)
		lead.End = first.Start
		out = append(out, lead)
	}
	out = append(out, segments...)
	if OrdinalToDOY(last.End) < schema.LastYear*1000+1 {
		trail := first
		trail.Start = last.End
		trail.End = DOYToOrdinal(schema.EpochEnd)
		out = append(out, trail)
	}
	return out
}

// validateSegments checks the ordering invariants of one pixel's segment list.
func validateSegments(segments []schema.Segment) error {
	px := segments[0].Pixel
	for i, seg := range segments {
		if seg.Start > seg.End {
			return fmt.Errorf("segment %d of pixel %v starts after it ends (%s > %s)", i, px,
				schema.FormatDOY(OrdinalToDOY(seg.Start)), schema.FormatDOY(OrdinalToDOY(seg.End)))
		}
		if seg.Pixel != px {
			return fmt.Errorf("segment %d belongs to pixel %v, not %v", i, seg.Pixel, px)
		}
		if i > 0 && seg.Start < segments[i-1].Start {
			return fmt.Errorf("segment %d of pixel %v is out of time order", i, px)
		}
	}
	return nil
}
