package chart

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/Loganavter/Tkonverter-sub001/pkg/model"
)

// colorForNode derives a deterministic color from the node name and ring
// level: the name hashes to a hue, saturation and brightness step down per
// ring. Stability across calls matters so hover and selection restyling
// never shifts a segment's base color.
func (l *Layout) colorForNode(n *model.TreeNode, level int) string {
	h := fnv.New32a()
	h.Write([]byte(n.Name))
	hue := float64(h.Sum32() % 360)

	sat := ladderAt(l.tuning.Saturations, level, 0.7)
	val := ladderAt(l.tuning.Brightnesses, level, 0.85)

	return colorful.Hsv(hue, sat, val).Hex()
}

func ladderAt(ladder []float64, level int, fallback float64) float64 {
	if len(ladder) == 0 {
		return fallback
	}
	if level >= len(ladder) {
		level = len(ladder) - 1
	}
	return ladder[level]
}

// DarkenColor scales an "#rrggbb" color toward black by factor. Unparseable
// input is returned unchanged.
func DarkenColor(hex string, factor float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	r, g, b := c.RGB255()
	scale := func(v uint8) uint8 { return uint8(float64(v) * factor) }
	return fmt.Sprintf("#%02x%02x%02x", scale(r), scale(g), scale(b))
}

// DefaultLabel renders node names for display without localization: month
// nodes become English month names, everything else keeps its raw name.
// Hosts with a translation layer inject their own LabelFunc instead.
func DefaultLabel(n *model.TreeNode) string {
	if n == nil {
		return ""
	}
	if n.Level == model.LevelMonth {
		if m, ok := monthNumber(n.Name); ok {
			return time.Month(m).String()
		}
	}
	return n.Name
}

func monthNumber(name string) (int, bool) {
	if len(name) == 0 || len(name) > 2 {
		return 0, false
	}
	m := 0
	for _, r := range name {
		if r < '0' || r > '9' {
			return 0, false
		}
		m = m*10 + int(r-'0')
	}
	if m < 1 || m > 12 {
		return 0, false
	}
	return m, true
}
