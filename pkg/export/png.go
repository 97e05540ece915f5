package export

import (
	"fmt"

	"git.sr.ht/~sbinet/gg"

	"github.com/Loganavter/Tkonverter-sub001/pkg/chart"
)

// WritePNG rasterizes the segment list to a PNG file. Same contract as
// WriteSVG: segments must match the snapshot canvas size.
func WritePNG(path string, segments []chart.Segment, opts SnapshotOptions) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("export: invalid snapshot size %dx%d", opts.Width, opts.Height)
	}

	cx := float64(opts.Width) / 2
	cy := float64(opts.Height) / 2

	dc := gg.NewContext(opts.Width, opts.Height)
	if opts.Background != "" {
		dc.SetHexColor(opts.Background)
		dc.Clear()
	}

	for i := range segments {
		s := &segments[i]
		drawSector(dc, s, cx, cy)
	}

	if opts.ShowLabels {
		dc.SetHexColor("#222222")
		for i := range segments {
			s := &segments[i]
			if s.Label == "" || !labelFits(s) {
				continue
			}
			x, y := s.Anchor(cx, cy)
			dc.DrawStringAnchored(s.Label, x, y, 0.5, 0.5)
		}
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("export: writing %s: %w", path, err)
	}
	return nil
}

func drawSector(dc *gg.Context, s *chart.Segment, cx, cy float64) {
	start, end := s.StartAngle, s.EndAngle
	// A hair under a full turn keeps the two arc endpoints distinct.
	if end-start >= fullCircle {
		end = start + fullCircle - 1e-6
	}

	dc.NewSubPath()
	dc.DrawArc(cx, cy, s.OuterRadius, start, end)
	dc.DrawArc(cx, cy, s.InnerRadius, end, start)
	dc.ClosePath()

	dc.SetHexColor(s.Color)
	dc.FillPreserve()
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(1)
	dc.Stroke()
}
