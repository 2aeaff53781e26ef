package valgrind

import "slices"

// Counter is an occurrence map that remembers the order keys were first seen.
type Counter[K comparable] struct {
	order  []K
	counts map[K]int
}

type Entry[K comparable] struct {
	Key   K
	Count int
}

func NewCounter[K comparable]() *Counter[K] {
	return &Counter[K]{counts: make(map[K]int)}
}

func (c *Counter[K]) Inc(key K) {
	c.Add(key, 1)
}

func (c *Counter[K]) Add(key K, n int) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key] += n
}

// Set overwrites the count for key. A key keeps its original first-seen position.
func (c *Counter[K]) Set(key K, n int) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key] = n
}

func (c *Counter[K]) Get(key K) int {
	return c.counts[key]
}

func (c *Counter[K]) Len() int {
	return len(c.order)
}

func (c *Counter[K]) Keys() []K {
	return slices.Clone(c.order)
}

// Ranked returns all entries by count descending, ties in first-seen order.
func (c *Counter[K]) Ranked() []Entry[K] {
	entries := make([]Entry[K], 0, len(c.order))
	for _, key := range c.order {
		entries = append(entries, Entry[K]{Key: key, Count: c.counts[key]})
	}

	slices.SortStableFunc(entries, func(a, b Entry[K]) int {
		return b.Count - a.Count
	})
	return entries
}

// Top returns at most n ranked entries. n <= 0 means no limit.
func (c *Counter[K]) Top(n int) []Entry[K] {
	ranked := c.Ranked()
	if n > 0 && len(ranked) > n {
		return ranked[:n]
	}
	return ranked
}

// Max returns the highest count entry, earliest key on ties.
func (c *Counter[K]) Max() (Entry[K], bool) {
	top := c.Top(1)
	if len(top) == 0 {
		return Entry[K]{}, false
	}
	return top[0], true
}
