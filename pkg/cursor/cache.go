package cursor

// Cache sizing. The server trims its own cursor cache the same way, so the
// client never needs more entries than this to resolve a signal.
const (
	cacheMaxEntries  = 50
	cacheTrimEntries = 25
)

// cursorCache holds recently seen cursors by ID so a CursorSignal can
// re-materialize a visible snapshot without retransmission.
//
// Not safe for concurrent use: only the receive loop touches it, which is
// the same single-writer discipline the projector itself relies on.
type cursorCache struct {
	byID  map[string]*Snapshot
	order []string // insertion order, for trimming oldest first
}

func newCursorCache() *cursorCache {
	return &cursorCache{byID: make(map[string]*Snapshot)}
}

func (c *cursorCache) get(id string) (*Snapshot, bool) {
	s, ok := c.byID[id]
	return s, ok
}

func (c *cursorCache) put(id string, s *Snapshot) {
	if _, exists := c.byID[id]; !exists {
		c.order = append(c.order, id)
	}
	c.byID[id] = s

	if len(c.byID) > cacheMaxEntries {
		trim := len(c.order) - cacheTrimEntries
		for _, old := range c.order[:trim] {
			delete(c.byID, old)
		}
		c.order = append(c.order[:0], c.order[trim:]...)
	}
}

func (c *cursorCache) len() int {
	return len(c.byID)
}
