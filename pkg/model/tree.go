// Package model defines the date-hierarchy tree built from a chat export.
// The tree is constructed once per analysis session and never mutated
// afterward; filtering is expressed through an external disabled-node set.
package model

import "time"

// Level tags a node's position in the date hierarchy.
type Level string

const (
	LevelRoot   Level = "root"
	LevelYear   Level = "year"
	LevelMonth  Level = "month"
	LevelDay    Level = "day"
	LevelOthers Level = "others" // synthetic overflow bucket
)

// TreeNode is one bucket of the date hierarchy (or a synthetic root/"others"
// aggregate). Node identity, not name, is the key used for set membership
// elsewhere: two "15" day nodes under different months are distinct nodes.
//
// Parent is a non-owning navigational pointer. Children keep chronological
// insertion order, which the layout relies on for stable angular placement.
// AggregatedChildren holds overflow buckets rendered after the primary
// children.
type TreeNode struct {
	ID                 string
	Name               string
	Value              float64
	Level              Level
	Parent             *TreeNode
	Children           []*TreeNode
	AggregatedChildren []*TreeNode
}

// AddChild appends child and fixes its parent pointer.
func (n *TreeNode) AddChild(child *TreeNode) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// IsLeaf reports whether the node has no children of either kind.
func (n *TreeNode) IsLeaf() bool {
	return len(n.Children) == 0 && len(n.AggregatedChildren) == 0
}

// Root walks parent links to the top of the tree.
func (n *TreeNode) Root() *TreeNode {
	cur := n
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// Depth is the number of parent links between the node and the root.
func (n *TreeNode) Depth() int {
	depth := 0
	for cur := n; cur.Parent != nil; cur = cur.Parent {
		depth++
	}
	return depth
}

// Walk visits the node and every descendant in pre-order, primary children
// before aggregated ones.
func (n *TreeNode) Walk(visit func(*TreeNode)) {
	visit(n)
	for _, c := range n.Children {
		c.Walk(visit)
	}
	for _, c := range n.AggregatedChildren {
		c.Walk(visit)
	}
}

// Leaves collects every leaf in the subtree in traversal order.
func (n *TreeNode) Leaves() []*TreeNode {
	var leaves []*TreeNode
	n.Walk(func(node *TreeNode) {
		if node.IsLeaf() {
			leaves = append(leaves, node)
		}
	})
	return leaves
}

// DayNodes collects every day-level node in the subtree, including days
// folded into overflow buckets.
func (n *TreeNode) DayNodes() []*TreeNode {
	var days []*TreeNode
	n.Walk(func(node *TreeNode) {
		if node.Level == LevelDay {
			days = append(days, node)
		}
	})
	return days
}

// FindChild returns the direct child with the given name, or nil.
func (n *TreeNode) FindChild(name string) *TreeNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// FindByID searches the subtree for a node with the given stable ID.
func (n *TreeNode) FindByID(id string) *TreeNode {
	var found *TreeNode
	n.Walk(func(node *TreeNode) {
		if found == nil && node.ID == id {
			found = node
		}
	})
	return found
}

// ValidateIntegrity checks parent/child link consistency across the subtree.
func (n *TreeNode) ValidateIntegrity() bool {
	for _, c := range n.Children {
		if c.Parent != n || !c.ValidateIntegrity() {
			return false
		}
	}
	for _, c := range n.AggregatedChildren {
		if c.Parent != n || !c.ValidateIntegrity() {
			return false
		}
	}
	return true
}

// Date reconstructs the calendar date of a day node from its ancestry,
// skipping any synthetic overflow buckets on the way up. Returns false for
// non-day nodes or malformed name chains.
func (n *TreeNode) Date() (time.Time, bool) {
	if n.Level != LevelDay {
		return time.Time{}, false
	}
	monthNode := realAncestor(n.Parent)
	if monthNode == nil || realAncestor(monthNode.Parent) == nil {
		return time.Time{}, false
	}
	yearNode := realAncestor(monthNode.Parent)
	day, okD := atoiStrict(n.Name)
	month, okM := atoiStrict(monthNode.Name)
	year, okY := atoiStrict(yearNode.Name)
	if !okD || !okM || !okY || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Reject dates the calendar normalized away, e.g. February 30th.
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}

// realAncestor climbs past "others" buckets to the nearest genuine
// hierarchy node.
func realAncestor(n *TreeNode) *TreeNode {
	for n != nil && n.Level == LevelOthers {
		n = n.Parent
	}
	return n
}

func atoiStrict(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	v := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		v = v*10 + int(r-'0')
	}
	return v, true
}
