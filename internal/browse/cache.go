package browse

import "sync"

// Status is the cached watchlist membership of a single movie.
type Status int

const (
	// StatusAbsent means no lookup has resolved for the movie. Rendered as
	// not-in-watchlist.
	StatusAbsent Status = iota
	// StatusPending means a lookup is in flight. Rendered as
	// not-in-watchlist until it resolves.
	StatusPending
	StatusMember
	StatusNotMember
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusMember:
		return "member"
	case StatusNotMember:
		return "not-member"
	default:
		return "absent"
	}
}

// InWatchlist is the display rule: only a resolved positive membership
// counts. Absent, pending and failed lookups all render as not saved.
func (s Status) InWatchlist() bool { return s == StatusMember }

// StatusCache maps movie ids to their watchlist membership status. It is
// session-global rather than page-scoped: membership is a property of the
// movie, not of any particular search. Writes are idempotent single-key
// overwrites; entries are only removed by Clear.
type StatusCache struct {
	mu      sync.RWMutex
	entries map[int64]Status
}

func NewStatusCache() *StatusCache {
	return &StatusCache{entries: make(map[int64]Status)}
}

// Get returns the status for id, StatusAbsent when never set.
func (c *StatusCache) Get(id int64) Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[id]
}

func (c *StatusCache) Set(id int64, status Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if status == StatusAbsent {
		delete(c.entries, id)
		return
	}
	c.entries[id] = status
}

// Clear resets a single entry back to absent.
func (c *StatusCache) Clear(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

func (c *StatusCache) Has(id int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[id]
	return ok
}

func (c *StatusCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Snapshot copies the statuses for the given ids, including absent ones.
func (c *StatusCache) Snapshot(ids []int64) map[int64]Status {
	out := make(map[int64]Status, len(ids))
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range ids {
		out[id] = c.entries[id]
	}
	return out
}
