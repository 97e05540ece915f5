package model

import (
	"fmt"
	"sort"
	"time"
)

// Message is the minimal record the engine needs from a chat export: a
// parseable timestamp. Author and text ride along for host tooltips.
type Message struct {
	Date   time.Time `json:"date"`
	Author string    `json:"author,omitempty"`
	Text   string    `json:"text,omitempty"`
}

// RootName labels the synthetic top-level node.
const RootName = "Total"

// Stable node ID helpers. IDs survive tree rebuilds for the same data, which
// lets a host persist a disabled-node selection across sessions.

// RootID is the stable ID of the tree root.
func RootID() string { return "root" }

// YearID returns the stable ID for a year node.
func YearID(year int) string { return fmt.Sprintf("%04d", year) }

// MonthID returns the stable ID for a month node.
func MonthID(year, month int) string { return fmt.Sprintf("%04d-%02d", year, month) }

// DayID returns the stable ID for a day node.
func DayID(year, month, day int) string { return fmt.Sprintf("%04d-%02d-%02d", year, month, day) }

// OthersID returns the stable ID for the overflow bucket under parentID.
func OthersID(parentID string) string { return parentID + ":others" }

// BuildTree folds a flat message list into the three-level date hierarchy:
// root -> years -> months -> days. Each node's value is the number of
// messages in its subtree. Siblings are ordered chronologically. Messages
// with a zero timestamp are skipped. An empty list yields a root with no
// children, which consumers treat as "no data".
func BuildTree(messages []Message) *TreeNode {
	type ymd struct{ year, month, day int }
	counts := make(map[ymd]int)
	for _, m := range messages {
		if m.Date.IsZero() {
			continue
		}
		counts[ymd{m.Date.Year(), int(m.Date.Month()), m.Date.Day()}]++
	}

	keys := make([]ymd, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.year != b.year {
			return a.year < b.year
		}
		if a.month != b.month {
			return a.month < b.month
		}
		return a.day < b.day
	})

	total := 0
	for _, c := range counts {
		total += c
	}

	root := &TreeNode{ID: RootID(), Name: RootName, Value: float64(total), Level: LevelRoot}

	var yearNode, monthNode *TreeNode
	for _, k := range keys {
		if yearNode == nil || yearNode.Name != fmt.Sprintf("%04d", k.year) {
			yearNode = &TreeNode{
				ID:    YearID(k.year),
				Name:  fmt.Sprintf("%04d", k.year),
				Level: LevelYear,
			}
			root.AddChild(yearNode)
			monthNode = nil
		}
		monthName := fmt.Sprintf("%02d", k.month)
		if monthNode == nil || monthNode.Name != monthName {
			monthNode = &TreeNode{
				ID:    MonthID(k.year, k.month),
				Name:  monthName,
				Level: LevelMonth,
			}
			yearNode.AddChild(monthNode)
		}
		dayNode := &TreeNode{
			ID:    DayID(k.year, k.month, k.day),
			Name:  fmt.Sprintf("%d", k.day),
			Value: float64(counts[k]),
			Level: LevelDay,
		}
		monthNode.AddChild(dayNode)
		monthNode.Value += dayNode.Value
		yearNode.Value += dayNode.Value
	}

	return root
}
