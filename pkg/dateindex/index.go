// Package dateindex maps calendar dates to day-level tree nodes and per-date
// message counts. It translates date predicates (day, month, year, weekend,
// range) into node sets for the selection state to mutate.
//
// An Index is built once from a message list and the corresponding tree, and
// is read-only afterward; rebuild it whenever the message list changes.
package dateindex

import (
	"sort"
	"time"

	"github.com/Loganavter/Tkonverter-sub001/pkg/model"
)

const dayKeyFormat = "2006-01-02"

// Index holds the derived date lookup structures.
type Index struct {
	dateToNode     map[string]*model.TreeNode
	messagesByDate map[string]int
	available      map[string]time.Time
}

// New builds the index. Messages with zero timestamps are skipped. Only
// genuine day leaves enter the date-to-node map, never synthetic aggregates;
// days folded into an overflow bucket are still indexed because they remain
// day-level nodes.
func New(messages []model.Message, root *model.TreeNode) *Index {
	idx := &Index{
		dateToNode:     make(map[string]*model.TreeNode),
		messagesByDate: make(map[string]int),
		available:      make(map[string]time.Time),
	}

	for _, m := range messages {
		if m.Date.IsZero() {
			continue
		}
		day := time.Date(m.Date.Year(), m.Date.Month(), m.Date.Day(), 0, 0, 0, 0, time.UTC)
		key := day.Format(dayKeyFormat)
		idx.messagesByDate[key]++
		idx.available[key] = day
	}

	if root != nil {
		for _, n := range root.DayNodes() {
			if date, ok := n.Date(); ok {
				idx.dateToNode[date.Format(dayKeyFormat)] = n
			}
		}
	}

	return idx
}

// NodeForDate returns the day node for the date, or nil when no messages
// fell on it.
func (idx *Index) NodeForDate(date time.Time) *model.TreeNode {
	return idx.dateToNode[dayKey(date)]
}

// NodesForDate resolves a single date to at most one node.
func (idx *Index) NodesForDate(date time.Time) []*model.TreeNode {
	if n := idx.NodeForDate(date); n != nil {
		return []*model.TreeNode{n}
	}
	return nil
}

// NodesForMonth resolves every indexed day of the given month, in date
// order.
func (idx *Index) NodesForMonth(year int, month time.Month) []*model.TreeNode {
	return idx.nodesMatching(func(d time.Time) bool {
		return d.Year() == year && d.Month() == month
	})
}

// NodesForYear resolves every indexed day of the given year, in date order.
func (idx *Index) NodesForYear(year int) []*model.TreeNode {
	return idx.nodesMatching(func(d time.Time) bool {
		return d.Year() == year
	})
}

// NodesForWeekend resolves every indexed Saturday and Sunday, in date order.
func (idx *Index) NodesForWeekend() []*model.TreeNode {
	return idx.nodesMatching(func(d time.Time) bool {
		wd := d.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	})
}

// NodesForRange resolves the inclusive date range day by day. Dates without
// messages contribute nothing; an inverted range yields nil.
func (idx *Index) NodesForRange(start, end time.Time) []*model.TreeNode {
	start = truncateToDay(start)
	end = truncateToDay(end)

	var nodes []*model.TreeNode
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if n := idx.NodeForDate(d); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// HasMessages reports whether at least one message fell on the date.
func (idx *Index) HasMessages(date time.Time) bool {
	_, ok := idx.available[dayKey(date)]
	return ok
}

// MessageCount returns the number of messages on the date.
func (idx *Index) MessageCount(date time.Time) int {
	return idx.messagesByDate[dayKey(date)]
}

// AvailableDates returns every date with at least one message, sorted.
func (idx *Index) AvailableDates() []time.Time {
	dates := make([]time.Time, 0, len(idx.available))
	for _, d := range idx.available {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// AvailableYears returns the sorted years that have messages.
func (idx *Index) AvailableYears() []int {
	seen := make(map[int]bool)
	for _, d := range idx.available {
		seen[d.Year()] = true
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// AvailableMonths returns the sorted months of the year that have messages.
func (idx *Index) AvailableMonths(year int) []time.Month {
	seen := make(map[time.Month]bool)
	for _, d := range idx.available {
		if d.Year() == year {
			seen[d.Month()] = true
		}
	}
	months := make([]time.Month, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })
	return months
}

// DateRange returns the earliest and latest dates with messages. ok is false
// for an empty index.
func (idx *Index) DateRange() (first, last time.Time, ok bool) {
	for _, d := range idx.available {
		if !ok {
			first, last, ok = d, d, true
			continue
		}
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}
	return first, last, ok
}

// Stats summarizes the filter state over the indexed dates.
type Stats struct {
	TotalDays        int     `json:"total_days"`
	EnabledDays      int     `json:"enabled_days"`
	DisabledDays     int     `json:"disabled_days"`
	TotalMessages    int     `json:"total_messages"`
	EnabledMessages  int     `json:"enabled_messages"`
	DisabledMessages int     `json:"disabled_messages"`
	EnabledPercent   float64 `json:"enabled_percent"`
}

// Statistics computes day and message totals under the given disabled
// predicate (typically selection.State.IsEffectivelyDisabled). The enabled
// percentage is zero, not a division error, when there are no messages.
func (idx *Index) Statistics(isDisabled func(*model.TreeNode) bool) Stats {
	stats := Stats{TotalDays: len(idx.available)}
	for key := range idx.available {
		count := idx.messagesByDate[key]
		stats.TotalMessages += count
		if n := idx.dateToNode[key]; n != nil && isDisabled != nil && isDisabled(n) {
			stats.DisabledDays++
			stats.DisabledMessages += count
		}
	}
	stats.EnabledDays = stats.TotalDays - stats.DisabledDays
	stats.EnabledMessages = stats.TotalMessages - stats.DisabledMessages
	if stats.TotalMessages > 0 {
		stats.EnabledPercent = float64(stats.EnabledMessages) / float64(stats.TotalMessages) * 100
	}
	return stats
}

func (idx *Index) nodesMatching(match func(time.Time) bool) []*model.TreeNode {
	keys := make([]string, 0)
	for key, d := range idx.available {
		if match(d) && idx.dateToNode[key] != nil {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	nodes := make([]*model.TreeNode, 0, len(keys))
	for _, key := range keys {
		nodes = append(nodes, idx.dateToNode[key])
	}
	return nodes
}

func dayKey(date time.Time) string {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC).Format(dayKeyFormat)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
