// Package chart computes the radial ("sunburst") partition of the analysis
// tree and resolves pointer coordinates back to segments. It is pure
// computation: drawing is left to the host (or the export package).
package chart

import (
	"math"

	"github.com/Loganavter/Tkonverter-sub001/pkg/model"
)

// Tuning holds the layout constants. Radii are normalized fractions of the
// chart radius; the defaults reproduce the three-ring year/month/day chart.
type Tuning struct {
	HoleRadius float64 // center hole, fraction of max radius
	RingWidth  float64 // per-ring thickness, fraction of max radius
	MaxDepth   int     // rings rendered; deeper structure is not laid out
	Margin     float64 // fraction of half the smaller canvas dimension

	Saturations  []float64 // per-ring HSV saturation, outermost entry reused beyond
	Brightnesses []float64 // per-ring HSV value
	DarkenFactor float64   // RGB multiplier for disabled styling
}

// DefaultTuning returns the standard chart geometry and color ladders.
func DefaultTuning() Tuning {
	return Tuning{
		HoleRadius:   0.35,
		RingWidth:    0.25,
		MaxDepth:     3,
		Margin:       0.9,
		Saturations:  []float64{0.85, 0.70, 0.60},
		Brightnesses: []float64{0.95, 0.85, 0.75},
		DarkenFactor: 0.7,
	}
}

// Segment is the transient geometric projection of one tree node at one
// ring: an annular sector in polar coordinates. Angles are radians in
// [0, 2π); radii are in canvas units. The node reference is shared, not
// owned. Segment lists are recomputed in full on every layout pass.
type Segment struct {
	InnerRadius float64
	OuterRadius float64
	StartAngle  float64
	EndAngle    float64
	Level       int
	Color       string
	Label       string
	Node        *model.TreeNode
	Disabled    bool
}

// Anchor returns the canvas position of the segment midpoint (mid-radius,
// mid-angle), where a host would place the segment label.
func (s *Segment) Anchor(cx, cy float64) (x, y float64) {
	midRadius := (s.InnerRadius + s.OuterRadius) / 2
	midAngle := (s.StartAngle + s.EndAngle) / 2
	return cx + midRadius*math.Cos(midAngle), cy + midRadius*math.Sin(midAngle)
}

// LabelFunc renders a node name for display. The engine never hardcodes
// translation; hosts inject their own formatter.
type LabelFunc func(*model.TreeNode) string

// Layout computes segment lists for a tree under an exclusion set. It holds
// no mutable state beyond its tuning and label function, so a single Layout
// is safe to reuse across redraws.
type Layout struct {
	tuning Tuning
	label  LabelFunc
}

// NewLayout builds a Layout. A nil label function falls back to DefaultLabel.
func NewLayout(tuning Tuning, label LabelFunc) *Layout {
	if label == nil {
		label = DefaultLabel
	}
	if tuning.MaxDepth <= 0 {
		tuning.MaxDepth = DefaultTuning().MaxDepth
	}
	return &Layout{tuning: tuning, label: label}
}

// Tuning returns the layout constants in use.
func (l *Layout) Tuning() Tuning { return l.tuning }

// ComputeSegments performs the recursive angular partition of the tree.
//
// Nodes present in disabled, and nodes with zero value, are excluded from
// their ring's angular sum and emit nothing; the remaining siblings split
// the parent's span proportionally to value with no gaps or overlaps.
// Recursion covers primary children followed by aggregated overflow buckets
// and stops at MaxDepth rings.
//
// A nil root, a root without children, or a non-positive canvas all resolve
// to an empty result, never an error.
func (l *Layout) ComputeSegments(root *model.TreeNode, disabled map[*model.TreeNode]bool, width, height float64) []Segment {
	if root == nil || (len(root.Children) == 0 && len(root.AggregatedChildren) == 0) {
		return nil
	}
	maxRadius := math.Min(width, height) / 2 * l.tuning.Margin
	if maxRadius <= 0 {
		return nil
	}

	var segments []Segment
	nodes := concatChildren(root)
	l.layoutRing(nodes, disabled, &segments, 0, 0, 2*math.Pi, maxRadius)
	return segments
}

func (l *Layout) layoutRing(nodes []*model.TreeNode, disabled map[*model.TreeNode]bool, out *[]Segment, level int, startAngle, endAngle, maxRadius float64) {
	if level >= l.tuning.MaxDepth {
		return
	}

	innerRadius := (l.tuning.HoleRadius + float64(level)*l.tuning.RingWidth) * maxRadius
	outerRadius := innerRadius + l.tuning.RingWidth*maxRadius

	var totalValue float64
	for _, n := range nodes {
		if disabled[n] || n.Value <= 0 {
			continue
		}
		totalValue += n.Value
	}
	if totalValue <= 0 {
		return
	}

	currentAngle := startAngle
	angleRange := endAngle - startAngle

	for _, n := range nodes {
		if disabled[n] || n.Value <= 0 {
			continue
		}
		segEnd := currentAngle + n.Value/totalValue*angleRange

		*out = append(*out, Segment{
			InnerRadius: innerRadius,
			OuterRadius: outerRadius,
			StartAngle:  currentAngle,
			EndAngle:    segEnd,
			Level:       level,
			Color:       l.colorForNode(n, level),
			Label:       l.label(n),
			Node:        n,
		})

		if kids := concatChildren(n); len(kids) > 0 {
			l.layoutRing(kids, disabled, out, level+1, currentAngle, segEnd, maxRadius)
		}
		currentAngle = segEnd
	}
}

func concatChildren(n *model.TreeNode) []*model.TreeNode {
	if len(n.AggregatedChildren) == 0 {
		return n.Children
	}
	kids := make([]*model.TreeNode, 0, len(n.Children)+len(n.AggregatedChildren))
	kids = append(kids, n.Children...)
	kids = append(kids, n.AggregatedChildren...)
	return kids
}

// ApplyDisabledStyling marks segments whose node the predicate reports as
// disabled and darkens their color. Intended for hosts that render a full
// tree with muted disabled branches instead of omitting them.
func (l *Layout) ApplyDisabledStyling(segments []Segment, isDisabled func(*model.TreeNode) bool) {
	for i := range segments {
		s := &segments[i]
		if isDisabled(s.Node) {
			if !s.Disabled {
				s.Disabled = true
				s.Color = DarkenColor(s.Color, l.tuning.DarkenFactor)
			}
		} else {
			s.Disabled = false
		}
	}
}
