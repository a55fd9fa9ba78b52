package broadcast

import (
	"sync"

	"heating_monitor/internal/models"
)

// recentRevisions bounds the duplicate filter.
const recentRevisions = 16

// Hub fans snapshots out to in-process subscribers. A snapshot revision is
// delivered at most once, whichever path (transport or store watcher) brings it first.
type Hub struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]Handler
	seen     [recentRevisions]int64
	seenPos  int
}

func NewHub() *Hub {
	return &Hub{handlers: make(map[int]Handler)}
}

// OnReceive registers fn and returns a function removing it again.
func (h *Hub) OnReceive(fn Handler) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.handlers[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.handlers, id)
			h.mu.Unlock()
		})
	}
}

// Deliver hands s to every subscriber. It reports false for empty snapshots
// and for revisions already delivered.
func (h *Hub) Deliver(s models.Snapshot) bool {
	rev := s.Revision()
	if rev == 0 {
		return false
	}

	h.mu.Lock()
	for _, r := range h.seen {
		if r == rev {
			h.mu.Unlock()
			return false
		}
	}
	h.seen[h.seenPos] = rev
	h.seenPos = (h.seenPos + 1) % recentRevisions

	handlers := make([]Handler, 0, len(h.handlers))
	for _, fn := range h.handlers {
		handlers = append(handlers, fn)
	}
	h.mu.Unlock()

	for _, fn := range handlers {
		fn(s)
	}
	return true
}

// Subscribers returns the number of registered handlers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handlers)
}
