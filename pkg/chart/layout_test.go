package chart

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"pgregory.net/rapid"

	"github.com/Loganavter/Tkonverter-sub001/pkg/model"
)

const angleEps = 1e-9

// twoMonthTree builds root -> "2024" (10) -> "01" (4), "02" (6).
func twoMonthTree() *model.TreeNode {
	root := &model.TreeNode{ID: "root", Name: "Total", Value: 10, Level: model.LevelRoot}
	year := &model.TreeNode{ID: "2024", Name: "2024", Value: 10, Level: model.LevelYear}
	jan := &model.TreeNode{ID: "2024-01", Name: "01", Value: 4, Level: model.LevelMonth}
	feb := &model.TreeNode{ID: "2024-02", Name: "02", Value: 6, Level: model.LevelMonth}
	root.AddChild(year)
	year.AddChild(jan)
	year.AddChild(feb)
	return root
}

func segmentsFor(segs []Segment, name string) []*Segment {
	var out []*Segment
	for i := range segs {
		if segs[i].Node.Name == name {
			out = append(out, &segs[i])
		}
	}
	return out
}

func TestComputeSegmentsTwoMonthScenario(t *testing.T) {
	root := twoMonthTree()
	layout := NewLayout(DefaultTuning(), nil)
	segs := layout.ComputeSegments(root, nil, 200, 200)

	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}

	year := segmentsFor(segs, "2024")[0]
	if year.Level != 0 {
		t.Errorf("year level: got %d", year.Level)
	}
	if !scalar.EqualWithinAbs(year.StartAngle, 0, angleEps) ||
		!scalar.EqualWithinAbs(year.EndAngle, 2*math.Pi, angleEps) {
		t.Errorf("year span: [%v, %v]", year.StartAngle, year.EndAngle)
	}

	jan := segmentsFor(segs, "01")[0]
	feb := segmentsFor(segs, "02")[0]
	if !scalar.EqualWithinAbs(jan.EndAngle, 2*math.Pi*0.4, angleEps) {
		t.Errorf("jan end: got %v, want %v", jan.EndAngle, 2*math.Pi*0.4)
	}
	if !scalar.EqualWithinAbs(feb.StartAngle, 2*math.Pi*0.4, angleEps) ||
		!scalar.EqualWithinAbs(feb.EndAngle, 2*math.Pi, angleEps) {
		t.Errorf("feb span: [%v, %v]", feb.StartAngle, feb.EndAngle)
	}

	// Geometry: 200x200 canvas, margin 0.9 -> max radius 90.
	maxRadius := 90.0
	if !scalar.EqualWithinAbs(year.InnerRadius, 0.35*maxRadius, angleEps) {
		t.Errorf("year inner radius: got %v", year.InnerRadius)
	}
	if !scalar.EqualWithinAbs(year.OuterRadius, 0.60*maxRadius, angleEps) {
		t.Errorf("year outer radius: got %v", year.OuterRadius)
	}
	if !scalar.EqualWithinAbs(jan.InnerRadius, 0.60*maxRadius, angleEps) {
		t.Errorf("jan inner radius: got %v", jan.InnerRadius)
	}
}

func TestComputeSegmentsDisabledSiblingTakesFullSpan(t *testing.T) {
	root := twoMonthTree()
	layout := NewLayout(DefaultTuning(), nil)

	jan := root.Children[0].FindChild("01")
	disabled := map[*model.TreeNode]bool{jan: true}
	segs := layout.ComputeSegments(root, disabled, 200, 200)

	if len(segmentsFor(segs, "01")) != 0 {
		t.Error("disabled month must emit no segment")
	}
	feb := segmentsFor(segs, "02")
	if len(feb) != 1 {
		t.Fatalf("expected one feb segment, got %d", len(feb))
	}
	if !scalar.EqualWithinAbs(feb[0].StartAngle, 0, angleEps) ||
		!scalar.EqualWithinAbs(feb[0].EndAngle, 2*math.Pi, angleEps) {
		t.Errorf("remaining sibling must absorb the parent span, got [%v, %v]",
			feb[0].StartAngle, feb[0].EndAngle)
	}
}

func TestComputeSegmentsDisabledParentDropsSubtree(t *testing.T) {
	root := twoMonthTree()
	layout := NewLayout(DefaultTuning(), nil)

	year := root.Children[0]
	segs := layout.ComputeSegments(root, map[*model.TreeNode]bool{year: true}, 200, 200)
	if len(segs) != 0 {
		t.Errorf("disabling the only year must clear the chart, got %d segments", len(segs))
	}
}

func TestComputeSegmentsDegenerateInputs(t *testing.T) {
	layout := NewLayout(DefaultTuning(), nil)

	if segs := layout.ComputeSegments(nil, nil, 200, 200); segs != nil {
		t.Error("nil root must yield no segments")
	}
	if segs := layout.ComputeSegments(&model.TreeNode{Name: "Total"}, nil, 200, 200); segs != nil {
		t.Error("childless root must yield no segments")
	}
	root := twoMonthTree()
	if segs := layout.ComputeSegments(root, nil, 0, 200); segs != nil {
		t.Error("zero width must yield no segments")
	}
	if segs := layout.ComputeSegments(root, nil, 200, -5); segs != nil {
		t.Error("negative height must yield no segments")
	}
}

func TestComputeSegmentsZeroValueNodeOmitted(t *testing.T) {
	root := twoMonthTree()
	year := root.Children[0]
	year.AddChild(&model.TreeNode{ID: "2024-03", Name: "03", Value: 0, Level: model.LevelMonth})

	layout := NewLayout(DefaultTuning(), nil)
	segs := layout.ComputeSegments(root, nil, 200, 200)
	if len(segmentsFor(segs, "03")) != 0 {
		t.Error("zero-value node must consume no angle")
	}
}

func TestComputeSegmentsMaxDepthBound(t *testing.T) {
	// Four levels below root; only MaxDepth rings appear.
	root := &model.TreeNode{Name: "Total", Value: 1}
	l1 := &model.TreeNode{Name: "a", Value: 1}
	l2 := &model.TreeNode{Name: "b", Value: 1}
	l3 := &model.TreeNode{Name: "c", Value: 1}
	l4 := &model.TreeNode{Name: "d", Value: 1}
	root.AddChild(l1)
	l1.AddChild(l2)
	l2.AddChild(l3)
	l3.AddChild(l4)

	layout := NewLayout(DefaultTuning(), nil)
	segs := layout.ComputeSegments(root, nil, 200, 200)
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments at MaxDepth 3, got %d", len(segs))
	}
	for _, s := range segs {
		if s.Node == l4 {
			t.Error("segment beyond MaxDepth emitted")
		}
	}
}

func TestComputeSegmentsPreOrder(t *testing.T) {
	root := twoMonthTree()
	layout := NewLayout(DefaultTuning(), nil)
	segs := layout.ComputeSegments(root, nil, 200, 200)

	want := []string{"2024", "01", "02"}
	for i, name := range want {
		if segs[i].Node.Name != name {
			t.Errorf("segment[%d]: got %q, want %q", i, segs[i].Node.Name, name)
		}
	}
}

func TestComputeSegmentsIncludesAggregatedChildren(t *testing.T) {
	root := twoMonthTree()
	year := root.Children[0]
	bucket := &model.TreeNode{
		ID: "2024:others", Name: "2 others", Value: 3, Level: model.LevelOthers, Parent: year,
	}
	year.AggregatedChildren = append(year.AggregatedChildren, bucket)
	year.Value += bucket.Value
	root.Value += bucket.Value

	layout := NewLayout(DefaultTuning(), nil)
	segs := layout.ComputeSegments(root, nil, 200, 200)

	bucketSegs := segmentsFor(segs, "2 others")
	if len(bucketSegs) != 1 {
		t.Fatalf("expected bucket segment, got %d", len(bucketSegs))
	}
	// Buckets render after primary children.
	if last := segs[len(segs)-1]; last.Node != bucket {
		t.Errorf("bucket must be laid out last, got %q", last.Node.Name)
	}
}

func TestInjectedLabelFunc(t *testing.T) {
	root := twoMonthTree()
	layout := NewLayout(DefaultTuning(), func(n *model.TreeNode) string { return "X" + n.Name })
	segs := layout.ComputeSegments(root, nil, 200, 200)
	for _, s := range segs {
		if s.Label != "X"+s.Node.Name {
			t.Errorf("label func ignored: got %q", s.Label)
		}
	}
}

func TestApplyDisabledStyling(t *testing.T) {
	root := twoMonthTree()
	layout := NewLayout(DefaultTuning(), nil)
	segs := layout.ComputeSegments(root, nil, 200, 200)

	jan := root.Children[0].FindChild("01")
	original := segmentsFor(segs, "01")[0].Color

	layout.ApplyDisabledStyling(segs, func(n *model.TreeNode) bool { return n == jan })

	janSeg := segmentsFor(segs, "01")[0]
	if !janSeg.Disabled {
		t.Error("predicate match must mark the segment disabled")
	}
	if janSeg.Color != DarkenColor(original, DefaultTuning().DarkenFactor) {
		t.Errorf("disabled color: got %q", janSeg.Color)
	}
	if segmentsFor(segs, "02")[0].Disabled {
		t.Error("unmatched segment must stay enabled")
	}

	// A second pass must not darken twice.
	layout.ApplyDisabledStyling(segs, func(n *model.TreeNode) bool { return n == jan })
	if segmentsFor(segs, "01")[0].Color != janSeg.Color {
		t.Error("styling must be idempotent")
	}
}

// TestPartitionInvariant checks, over random trees and exclusion sets, that
// enabled children exactly tile their parent's span proportionally to value.
func TestPartitionInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		childCount := rapid.IntRange(1, 12).Draw(t, "children")
		values := make([]float64, childCount)
		for i := range values {
			values[i] = float64(rapid.IntRange(0, 50).Draw(t, "value"))
		}

		root := &model.TreeNode{Name: "Total"}
		year := &model.TreeNode{Name: "2024"}
		root.AddChild(year)
		var total float64
		for i, v := range values {
			child := &model.TreeNode{Name: string(rune('a' + i)), Value: v}
			year.AddChild(child)
			total += v
		}
		year.Value = total
		root.Value = total
		if total == 0 {
			year.Value = 1
			root.Value = 1
		}

		disabled := make(map[*model.TreeNode]bool)
		for _, c := range year.Children {
			if rapid.Bool().Draw(t, "disable") {
				disabled[c] = true
			}
		}

		layout := NewLayout(DefaultTuning(), nil)
		segs := layout.ComputeSegments(root, disabled, 400, 400)

		parent := segmentsFor(segs, "2024")
		if len(parent) == 0 {
			return // whole ring empty, nothing to tile
		}

		var enabledTotal float64
		for _, c := range year.Children {
			if !disabled[c] && c.Value > 0 {
				enabledTotal += c.Value
			}
		}

		cursor := parent[0].StartAngle
		span := parent[0].EndAngle - parent[0].StartAngle
		for _, c := range year.Children {
			if disabled[c] || c.Value <= 0 {
				if len(segmentsFor(segs, c.Name)) != 0 {
					t.Fatalf("excluded child %q emitted a segment", c.Name)
				}
				continue
			}
			cs := segmentsFor(segs, c.Name)
			if len(cs) != 1 {
				t.Fatalf("child %q: %d segments", c.Name, len(cs))
			}
			if !scalar.EqualWithinAbs(cs[0].StartAngle, cursor, 1e-6) {
				t.Fatalf("gap/overlap before %q: start %v, want %v", c.Name, cs[0].StartAngle, cursor)
			}
			wantWidth := c.Value / enabledTotal * span
			if !scalar.EqualWithinAbs(cs[0].EndAngle-cs[0].StartAngle, wantWidth, 1e-6) {
				t.Fatalf("child %q width %v, want %v", c.Name, cs[0].EndAngle-cs[0].StartAngle, wantWidth)
			}
			cursor = cs[0].EndAngle
		}
		if enabledTotal > 0 && !scalar.EqualWithinAbs(cursor, parent[0].EndAngle, 1e-6) {
			t.Fatalf("children do not close the parent span: %v vs %v", cursor, parent[0].EndAngle)
		}
	})
}
