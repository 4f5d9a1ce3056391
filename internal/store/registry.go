package store

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Registry hands out one Store per user and keeps it alive across requests.
// Drop is called on logout so the next request starts from a fresh fetch.
type Registry struct {
	log *slog.Logger
	gw  Gateways

	mu     sync.Mutex
	stores map[uuid.UUID]*Store
}

// NewRegistry creates an empty registry backed by the given gateways.
func NewRegistry(logger *slog.Logger, gw Gateways) *Registry {
	return &Registry{
		log:    logger,
		gw:     gw,
		stores: make(map[uuid.UUID]*Store),
	}
}

// Get returns the user's store, creating one on first use. The returned store
// may have an empty cache; callers fetch before reading.
func (r *Registry) Get(userID uuid.UUID) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[userID]; ok {
		return s
	}
	s := New(r.log, userID, r.gw)
	r.stores[userID] = s
	return s
}

// Drop discards the user's store if one exists.
func (r *Registry) Drop(userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, userID)
}
