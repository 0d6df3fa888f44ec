package engine

import "sort"

// orderedCounter counts normalized strings while remembering first
// appearance, so ranking ties break in first-encountered order.
type orderedCounter struct {
	order  []string
	counts map[string]int
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{counts: make(map[string]int)}
}

func (c *orderedCounter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// top returns up to n entries sorted by descending count; equal counts
// keep insertion order.
func (c *orderedCounter) top(n int) []entry {
	entries := make([]entry, 0, len(c.order))
	for _, key := range c.order {
		entries = append(entries, entry{key: key, count: c.counts[key]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

type entry struct {
	key   string
	count int
}
