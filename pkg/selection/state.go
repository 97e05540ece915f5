// Package selection owns the mutable disabled-node set for an analysis
// session and the aggregate value derived from it. It is the only stateful
// part of the engine; confine a State to one logical owner and marshal
// cross-thread requests to it.
package selection

import (
	"log"
	"sort"

	"github.com/Loganavter/Tkonverter-sub001/pkg/model"
)

// Set is a disabled-node set keyed by node identity.
type Set map[*model.TreeNode]bool

// State tracks which nodes are disabled and keeps the filtered aggregate
// value consistent with the set after every mutation. Observers are notified
// exactly once per effective mutation, with the final set; no-op mutations
// fire nothing.
type State struct {
	root     *model.TreeNode
	disabled Set
	filtered float64

	selectionObservers []func(Set)
	valueObservers     []func(float64)
}

// NewState creates an empty selection for the given tree. The initial
// filtered value is the full root value.
func NewState(root *model.TreeNode) *State {
	s := &State{root: root, disabled: make(Set)}
	s.filtered = s.computeFilteredValue()
	return s
}

// OnSelectionChanged registers an observer for disabled-set changes. The
// observer receives a copy and may not retain write access to internals.
func (s *State) OnSelectionChanged(fn func(Set)) {
	s.selectionObservers = append(s.selectionObservers, fn)
}

// OnFilteredValueChanged registers an observer for aggregate changes.
func (s *State) OnFilteredValueChanged(fn func(float64)) {
	s.valueObservers = append(s.valueObservers, fn)
}

// Toggle flips the node's membership in the disabled set.
func (s *State) Toggle(node *model.TreeNode) {
	if node == nil {
		return
	}
	if s.disabled[node] {
		delete(s.disabled, node)
	} else {
		s.disabled[node] = true
	}
	s.afterMutation()
}

// Disable adds the given nodes to the disabled set. Used by the bulk date
// filters; a single notification covers the whole batch.
func (s *State) Disable(nodes ...*model.TreeNode) {
	changed := false
	for _, n := range nodes {
		if n != nil && !s.disabled[n] {
			s.disabled[n] = true
			changed = true
		}
	}
	if changed {
		s.afterMutation()
	}
}

// Enable removes the given nodes from the disabled set.
func (s *State) Enable(nodes ...*model.TreeNode) {
	changed := false
	for _, n := range nodes {
		if n != nil && s.disabled[n] {
			delete(s.disabled, n)
			changed = true
		}
	}
	if changed {
		s.afterMutation()
	}
}

// DisableAll replaces the set with exactly the given nodes.
func (s *State) DisableAll(nodes []*model.TreeNode) {
	next := make(Set, len(nodes))
	for _, n := range nodes {
		if n != nil {
			next[n] = true
		}
	}
	s.SetDisabled(next)
}

// EnableAll clears the set. Calling it on an already-empty selection is a
// no-op and fires no notification.
func (s *State) EnableAll() {
	s.SetDisabled(nil)
}

// SetDisabled replaces the set wholesale, typically to sync from an external
// source. It compares against the previous set and only signals a change
// when the sets differ.
func (s *State) SetDisabled(next Set) {
	if setsEqual(s.disabled, next) {
		return
	}
	s.disabled = make(Set, len(next))
	for n := range next {
		if n != nil && next[n] {
			s.disabled[n] = true
		}
	}
	s.afterMutation()
}

// IsDisabled reports direct membership in the disabled set.
func (s *State) IsDisabled(node *model.TreeNode) bool {
	return s.disabled[node]
}

// IsEffectivelyDisabled reports whether the node or any of its ancestors is
// disabled. Disabling a year implicitly disables every month and day below
// it without adding those descendants to the set.
func (s *State) IsEffectivelyDisabled(node *model.TreeNode) bool {
	for n := node; n != nil; n = n.Parent {
		if s.disabled[n] {
			return true
		}
	}
	return false
}

// DisabledNodes returns a copy of the current set.
func (s *State) DisabledNodes() Set {
	out := make(Set, len(s.disabled))
	for n := range s.disabled {
		out[n] = true
	}
	return out
}

// FilteredValue is the root value after excluding disabled subtrees. It is
// consistent with the set immediately after any mutating operation returns.
func (s *State) FilteredValue() float64 {
	return s.filtered
}

// DisabledIDs exports the set as sorted stable node IDs for persistence by
// the host.
func (s *State) DisabledIDs() []string {
	ids := make([]string, 0, len(s.disabled))
	for n := range s.disabled {
		ids = append(ids, n.ID)
	}
	sort.Strings(ids)
	return ids
}

// RestoreIDs rebuilds the set from stable node IDs against the current tree.
// IDs with no matching node are dropped silently: the data may have changed
// since the selection was saved.
func (s *State) RestoreIDs(ids []string) {
	next := make(Set, len(ids))
	for _, id := range ids {
		if n := s.root.FindByID(id); n != nil {
			next[n] = true
		}
	}
	s.SetDisabled(next)
}

// afterMutation recomputes the aggregate and fans out notifications. A
// panicking observer is isolated and logged; the remaining observers still
// run and the caller of the mutation never sees the failure.
func (s *State) afterMutation() {
	prevValue := s.filtered
	s.filtered = s.computeFilteredValue()

	snapshot := s.DisabledNodes()
	for _, fn := range s.selectionObservers {
		notifySafely(func() { fn(snapshot) })
	}
	if s.filtered != prevValue {
		for _, fn := range s.valueObservers {
			v := s.filtered
			notifySafely(func() { fn(v) })
		}
	}
}

func notifySafely(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("selection: observer panicked: %v", r)
		}
	}()
	fn()
}

// computeFilteredValue walks the tree once, summing leaf values outside
// disabled subtrees. Descent stops at any directly disabled node, which
// zeroes its whole subtree's contribution.
func (s *State) computeFilteredValue() float64 {
	if s.root == nil {
		return 0
	}
	var sum func(n *model.TreeNode) float64
	sum = func(n *model.TreeNode) float64 {
		if s.disabled[n] {
			return 0
		}
		if n.IsLeaf() {
			return n.Value
		}
		var total float64
		for _, c := range n.Children {
			total += sum(c)
		}
		for _, c := range n.AggregatedChildren {
			total += sum(c)
		}
		return total
	}
	return sum(s.root)
}

func setsEqual(a, b Set) bool {
	count := 0
	for n, ok := range b {
		if !ok {
			continue
		}
		if !a[n] {
			return false
		}
		count++
	}
	return count == len(a)
}
