package chart

import "math"

// FindSegmentAt resolves a pointer position to the segment under it, or nil
// when the pointer is over empty space (the center hole, a gap left by a
// disabled branch, or outside the chart).
//
// The point is converted to polar form around (cx, cy) and matched against
// each segment's radial and angular extents, both inclusive. Well-formed
// segment lists have at most one true match; a point exactly on a shared
// edge resolves to whichever touching segment comes first.
func FindSegmentAt(segments []Segment, x, y, cx, cy float64) *Segment {
	dx := x - cx
	dy := y - cy
	radius := math.Hypot(dx, dy)

	angle := math.Atan2(dy, dx)
	if angle < 0 {
		angle += 2 * math.Pi
	}

	for i := range segments {
		s := &segments[i]
		if radius >= s.InnerRadius && radius <= s.OuterRadius &&
			angle >= s.StartAngle && angle <= s.EndAngle {
			return s
		}
	}
	return nil
}
