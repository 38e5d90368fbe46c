package store

import (
	"sync"
	"sync/atomic"
)

// Counters mints monotonic per-name integer IDs (message_<n>, thread_<n>,
// draft_<n>, Label_<n>, history_<n>, watch_<n>). Each name gets its own
// int64 cell so increments are lock-free past the first reference; the
// mutex only guards the rare case of creating a new name.
type Counters struct {
	mu   sync.Mutex
	vals map[string]*int64
}

// NewCounters returns an empty counter table.
func NewCounters() *Counters {
	return &Counters{vals: make(map[string]*int64)}
}

// Next atomically increments and returns the counter named by name,
// starting at 1 for a name seen for the first time.
func (c *Counters) Next(name string) int64 {
	c.mu.Lock()
	cell, ok := c.vals[name]
	if !ok {
		var v int64
		cell = &v
		c.vals[name] = cell
	}
	c.mu.Unlock()
	return atomic.AddInt64(cell, 1)
}

// Snapshot returns the current value of every counter, for the JSON
// snapshot format (§6.1). Counters never observed default to 0 and are
// omitted by the caller if it prefers a sparse map.
func (c *Counters) Snapshot() map[string]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int64, len(c.vals))
	for k, v := range c.vals {
		out[k] = atomic.LoadInt64(v)
	}
	return out
}

// Restore overwrites the counter table from a snapshot (used by Load).
func (c *Counters) Restore(values map[string]int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals = make(map[string]*int64, len(values))
	for k, v := range values {
		val := v
		c.vals[k] = &val
	}
}
