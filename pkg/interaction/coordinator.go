// Package interaction orchestrates pointer events against the layout, hit
// tester and selection state, and emits the higher-level notifications
// (hover changed, tooltip text, statistics) the presentation layer draws
// from. The coordinator itself draws nothing.
package interaction

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/Loganavter/Tkonverter-sub001/pkg/chart"
	"github.com/Loganavter/Tkonverter-sub001/pkg/dateindex"
	"github.com/Loganavter/Tkonverter-sub001/pkg/model"
	"github.com/Loganavter/Tkonverter-sub001/pkg/selection"
)

// Cursor hints returned by Cursor.
const (
	CursorDefault = "default"
	CursorPointer = "pointer"
)

// Coordinator owns the current segment list and hover state for one chart
// view. Like the selection it serves, it is single-owner: callers must
// serialize access.
type Coordinator struct {
	root   *model.TreeNode
	layout *chart.Layout
	state  *selection.State
	index  *dateindex.Index // optional; enables statistics notifications
	unit   string

	width, height float64
	segments      []chart.Segment
	hovered       *chart.Segment

	hoverObservers []func(*chart.Segment)
	statsObservers []func(dateindex.Stats)
}

// NewCoordinator wires the pieces together. It registers itself on the
// selection state, so any mutation (a click here or a bulk calendar filter
// elsewhere) triggers exactly one segment recomputation and statistics
// fan-out. index may be nil when no calendar view is attached; unit names
// the counted quantity in tooltips (e.g. "messages").
func NewCoordinator(root *model.TreeNode, layout *chart.Layout, state *selection.State, index *dateindex.Index, unit string) *Coordinator {
	c := &Coordinator{
		root:   root,
		layout: layout,
		state:  state,
		index:  index,
		unit:   unit,
	}
	state.OnSelectionChanged(func(selection.Set) {
		c.Refresh()
		c.notifyStatistics()
	})
	return c
}

// OnHoverChanged registers an observer for hover transitions. The observer
// receives the hovered segment or nil when the pointer leaves all segments.
func (c *Coordinator) OnHoverChanged(fn func(*chart.Segment)) {
	c.hoverObservers = append(c.hoverObservers, fn)
}

// OnStatisticsUpdated registers an observer for filter statistics, emitted
// after every selection mutation when a date index is attached.
func (c *Coordinator) OnStatisticsUpdated(fn func(dateindex.Stats)) {
	c.statsObservers = append(c.statsObservers, fn)
}

// Resize sets the canvas size and recomputes the segment list.
func (c *Coordinator) Resize(width, height float64) {
	c.width, c.height = width, height
	c.Refresh()
}

// Refresh recomputes segments from the current tree, selection and canvas.
// Any previous hover is dropped since its segment reference is stale.
func (c *Coordinator) Refresh() {
	c.segments = c.layout.ComputeSegments(c.root, c.state.DisabledNodes(), c.width, c.height)
	if c.hovered != nil {
		c.hovered = nil
		c.notifyHover(nil)
	}
}

// Segments exposes the current segment list for rendering.
func (c *Coordinator) Segments() []chart.Segment {
	return c.segments
}

// MouseMove handles pointer movement and returns tooltip text for the
// segment under the pointer, or "" over empty space. Hover observers fire
// only on transitions, not on every move within the same segment.
func (c *Coordinator) MouseMove(x, y float64) string {
	seg := c.hitTest(x, y)
	if seg != c.hovered {
		c.hovered = seg
		c.notifyHover(seg)
	}
	if seg == nil {
		return ""
	}
	return c.Tooltip(seg)
}

// MouseClick toggles the clicked segment's node in the selection. It reports
// whether a segment was hit; clicks over empty space are ignored. The
// selection callback path recomputes segments before this returns.
func (c *Coordinator) MouseClick(x, y float64) bool {
	seg := c.hitTest(x, y)
	if seg == nil {
		return false
	}
	c.state.Toggle(seg.Node)
	return true
}

// MouseLeave clears hover state when the pointer exits the chart area.
func (c *Coordinator) MouseLeave() {
	if c.hovered != nil {
		c.hovered = nil
		c.notifyHover(nil)
	}
}

// Cursor returns the cursor hint for the position.
func (c *Coordinator) Cursor(x, y float64) string {
	if c.hitTest(x, y) != nil {
		return CursorPointer
	}
	return CursorDefault
}

// Tooltip renders the hover text for a segment: label, grouped count, unit,
// and a disabled marker when the node or an ancestor is filtered out.
func (c *Coordinator) Tooltip(seg *chart.Segment) string {
	text := fmt.Sprintf("%s: %s %s", seg.Label, groupDigits(int64(seg.Node.Value)), c.unit)
	if c.state.IsEffectivelyDisabled(seg.Node) {
		text += " (disabled)"
	}
	return text
}

func (c *Coordinator) hitTest(x, y float64) *chart.Segment {
	return chart.FindSegmentAt(c.segments, x, y, c.width/2, c.height/2)
}

func (c *Coordinator) notifyHover(seg *chart.Segment) {
	for _, fn := range c.hoverObservers {
		notifySafely(func() { fn(seg) })
	}
}

func (c *Coordinator) notifyStatistics() {
	if c.index == nil || len(c.statsObservers) == 0 {
		return
	}
	stats := c.index.Statistics(c.state.IsEffectivelyDisabled)
	for _, fn := range c.statsObservers {
		notifySafely(func() { fn(stats) })
	}
}

func notifySafely(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("interaction: observer panicked: %v", r)
		}
	}()
	fn()
}

// groupDigits formats n with thousands separators: 1234567 -> "1,234,567".
func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
