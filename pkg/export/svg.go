// Package export renders static snapshots of a computed segment list. The
// engine itself never draws to a screen; these writers give hosts and the
// CLI a way to capture the chart without a GUI.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/Loganavter/Tkonverter-sub001/pkg/chart"
)

const fullCircle = 2 * math.Pi

// SnapshotOptions configures snapshot output.
type SnapshotOptions struct {
	Width      int
	Height     int
	Background string // "" for none
	ShowLabels bool
}

// DefaultSnapshotOptions matches the analysis dialog's default canvas.
func DefaultSnapshotOptions() SnapshotOptions {
	return SnapshotOptions{Width: 600, Height: 600, Background: "#ffffff", ShowLabels: true}
}

// WriteSVG writes the segment list as an SVG document. Segments must have
// been computed for the same canvas size as opts.Width/Height, since their
// radii are already scaled.
func WriteSVG(w io.Writer, segments []chart.Segment, opts SnapshotOptions) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("export: invalid snapshot size %dx%d", opts.Width, opts.Height)
	}

	cx := float64(opts.Width) / 2
	cy := float64(opts.Height) / 2

	canvas := svg.New(w)
	canvas.Start(opts.Width, opts.Height)
	if opts.Background != "" {
		canvas.Rect(0, 0, opts.Width, opts.Height, fmt.Sprintf(`fill="%s"`, opts.Background))
	}

	for i := range segments {
		s := &segments[i]
		canvas.Path(sectorPath(s, cx, cy),
			fmt.Sprintf(`fill="%s" stroke="#ffffff" stroke-width="1"`, s.Color))
	}

	if opts.ShowLabels {
		for i := range segments {
			s := &segments[i]
			if s.Label == "" || !labelFits(s) {
				continue
			}
			x, y := s.Anchor(cx, cy)
			canvas.Text(int(x), int(y), s.Label,
				`text-anchor="middle" dominant-baseline="middle" font-size="11" fill="#222222"`)
		}
	}

	canvas.End()
	return nil
}

// sectorPath builds the SVG path for one annular sector. A segment spanning
// the full circle degenerates as a two-point arc, so it is emitted as a ring
// from two half arcs per edge instead.
func sectorPath(s *chart.Segment, cx, cy float64) string {
	span := s.EndAngle - s.StartAngle
	if span >= fullCircle-1e-9 {
		return ringPath(s, cx, cy)
	}

	ox1, oy1 := polar(cx, cy, s.OuterRadius, s.StartAngle)
	ox2, oy2 := polar(cx, cy, s.OuterRadius, s.EndAngle)
	ix1, iy1 := polar(cx, cy, s.InnerRadius, s.EndAngle)
	ix2, iy2 := polar(cx, cy, s.InnerRadius, s.StartAngle)

	largeArc := 0
	if span > math.Pi {
		largeArc = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "M%.3f,%.3f ", ox1, oy1)
	fmt.Fprintf(&b, "A%.3f,%.3f 0 %d 1 %.3f,%.3f ", s.OuterRadius, s.OuterRadius, largeArc, ox2, oy2)
	fmt.Fprintf(&b, "L%.3f,%.3f ", ix1, iy1)
	fmt.Fprintf(&b, "A%.3f,%.3f 0 %d 0 %.3f,%.3f ", s.InnerRadius, s.InnerRadius, largeArc, ix2, iy2)
	b.WriteString("Z")
	return b.String()
}

func ringPath(s *chart.Segment, cx, cy float64) string {
	var b strings.Builder
	// Outer circle clockwise, inner circle counterclockwise; the nonzero
	// fill rule leaves the hole open.
	writeCirclePair := func(r float64, sweep int) {
		x1, y1 := polar(cx, cy, r, 0)
		x2, y2 := polar(cx, cy, r, math.Pi)
		fmt.Fprintf(&b, "M%.3f,%.3f ", x1, y1)
		fmt.Fprintf(&b, "A%.3f,%.3f 0 1 %d %.3f,%.3f ", r, r, sweep, x2, y2)
		fmt.Fprintf(&b, "A%.3f,%.3f 0 1 %d %.3f,%.3f ", r, r, sweep, x1, y1)
		b.WriteString("Z ")
	}
	writeCirclePair(s.OuterRadius, 1)
	writeCirclePair(s.InnerRadius, 0)
	return strings.TrimSpace(b.String())
}

// labelFits suppresses labels on slivers too thin to carry text.
func labelFits(s *chart.Segment) bool {
	return s.EndAngle-s.StartAngle >= 0.1
}

func polar(cx, cy, r, angle float64) (float64, float64) {
	return cx + r*math.Cos(angle), cy + r*math.Sin(angle)
}
