package model

import (
	"fmt"
	"sort"
)

// Visible-child caps for overflow aggregation. A node showing more children
// than its dynamic cap folds the smallest ones into a single "N others"
// bucket so thin slivers don't dominate a ring.
const (
	rootMaxChildren    = 5
	baseMaxChildren    = 35
	minVisibleChildren = 5
)

// AggregateSmallChildren runs the overflow pass over the whole tree. It is
// part of tree construction: call it once right after BuildTree, before the
// tree is shared with readers.
//
// For each node whose child count exceeds its cap, the lowest-value children
// are detached into a synthetic "others" node appended through
// AggregatedChildren. Surviving children keep chronological order; bucket
// members are sorted by value descending and reparented onto the bucket, so
// disabling the bucket effectively disables every member.
func AggregateSmallChildren(root *TreeNode) {
	if root == nil {
		return
	}
	aggregateNode(root)
	for _, c := range root.Children {
		AggregateSmallChildren(c)
	}
	// Subtrees folded into a bucket still aggregate their own children.
	for _, bucket := range root.AggregatedChildren {
		for _, c := range bucket.AggregatedChildren {
			AggregateSmallChildren(c)
		}
	}
}

func aggregateNode(n *TreeNode) {
	if len(n.Children) == 0 || n.Value <= 0 || n.Level == LevelOthers {
		return
	}

	limit := dynamicMaxChildren(n)
	// One extra child costs less than an "others" bucket of size one.
	if len(n.Children) <= limit+1 {
		return
	}

	numToShow := limit - 1
	if numToShow < 1 {
		numToShow = 1
	}

	// Rank children by value to pick the overflow set, but keep the
	// survivors in their original chronological order.
	ranked := make([]*TreeNode, len(n.Children))
	copy(ranked, n.Children)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Value > ranked[j].Value })

	overflow := make(map[*TreeNode]bool, len(ranked)-numToShow)
	var aggregatedValue float64
	for _, c := range ranked[numToShow:] {
		overflow[c] = true
		aggregatedValue += c.Value
	}

	if aggregatedValue <= 0 {
		return
	}

	visible := make([]*TreeNode, 0, numToShow)
	hidden := make([]*TreeNode, 0, len(overflow))
	for _, c := range n.Children {
		if overflow[c] {
			hidden = append(hidden, c)
		} else {
			visible = append(visible, c)
		}
	}
	sort.SliceStable(hidden, func(i, j int) bool { return hidden[i].Value > hidden[j].Value })

	others := &TreeNode{
		ID:                 OthersID(n.ID),
		Name:               fmt.Sprintf("%d others", len(hidden)),
		Value:              aggregatedValue,
		Level:              LevelOthers,
		Parent:             n,
		AggregatedChildren: hidden,
	}
	for _, c := range hidden {
		c.Parent = others
	}

	n.Children = visible
	n.AggregatedChildren = append(n.AggregatedChildren, others)
}

// dynamicMaxChildren scales the visible-child cap with the node's share of
// its parent: dominant nodes get room for detail, minor ones collapse early.
func dynamicMaxChildren(n *TreeNode) int {
	if n.Parent == nil {
		return rootMaxChildren
	}
	share := 0.0
	if n.Parent.Value > 0 {
		share = n.Value / n.Parent.Value
	}
	return minVisibleChildren + int(float64(baseMaxChildren-minVisibleChildren)*share)
}
