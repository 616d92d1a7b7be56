package dispatcher

// messageCache remembers recently answered prompt texts in insertion order.
// When an insertion pushes it past limit, only the newest retain entries are
// kept.
type messageCache struct {
	limit  int
	retain int
	order  []string
	seen   map[string]struct{}
}

func newMessageCache(limit, retain int) *messageCache {
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if retain <= 0 || retain > limit {
		retain = min(defaultMessageRetain, limit)
	}
	return &messageCache{limit: limit, retain: retain, seen: make(map[string]struct{})}
}

func (c *messageCache) contains(msg string) bool {
	_, ok := c.seen[msg]
	return ok
}

func (c *messageCache) add(msg string) {
	if c.contains(msg) {
		return
	}
	c.order = append(c.order, msg)
	c.seen[msg] = struct{}{}
	if len(c.order) <= c.limit {
		return
	}
	drop := len(c.order) - c.retain
	for _, old := range c.order[:drop] {
		delete(c.seen, old)
	}
	c.order = append([]string(nil), c.order[drop:]...)
}

func (c *messageCache) len() int {
	return len(c.order)
}
