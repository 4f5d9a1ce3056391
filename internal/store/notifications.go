package store

import (
	"sync"
	"time"
)

// feedCapacity bounds the per-store notification ring.
const feedCapacity = 50

// Notification is a user-facing message recorded by the store, typically when
// a write or refetch fails.
type Notification struct {
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// feed is a fixed-capacity ring of notifications. Oldest entries are dropped
// once the capacity is reached.
type feed struct {
	mu      sync.Mutex
	entries []Notification
}

func newFeed() *feed {
	return &feed{entries: make([]Notification, 0, feedCapacity)}
}

func (f *feed) add(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.entries) == feedCapacity {
		copy(f.entries, f.entries[1:])
		f.entries = f.entries[:feedCapacity-1]
	}
	f.entries = append(f.entries, Notification{Message: message, At: time.Now()})
}

func (f *feed) list() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Notification, len(f.entries))
	copy(out, f.entries)
	return out
}
