package index

import "sort"

// orderedCounter counts string keys and remembers the order each key was
// first seen, so a stable sort by count breaks ties by first occurrence.
type orderedCounter struct {
	keys   []string
	counts map[string]int
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{counts: make(map[string]int)}
}

func (c *orderedCounter) inc(key string) {
	if _, ok := c.counts[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.counts[key]++
}

func (c *orderedCounter) len() int {
	return len(c.keys)
}

// byCount returns keys in descending count order, ties in first-seen order.
func (c *orderedCounter) byCount() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	sort.SliceStable(out, func(i, j int) bool {
		return c.counts[out[i]] > c.counts[out[j]]
	})
	return out
}
