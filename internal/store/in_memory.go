package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/abgdnv/gocart/internal/cart"
)

// inMemory implements cart.SnapshotStore on top of an in-process byte
// buffer. It keeps the same serialize-on-save semantics as PgStore so
// dev mode and tests observe the same behavior as the durable store.
type inMemory struct {
	mu      sync.RWMutex
	payload []byte
}

// NewInMemoryStore creates a new in-memory snapshot store.
func NewInMemoryStore() cart.SnapshotStore {
	return &inMemory{}
}

// Load deserializes the stored snapshot, or returns an empty cart if
// nothing has been saved yet.
func (s *inMemory) Load(_ context.Context) ([]cart.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.payload == nil {
		return nil, nil
	}
	var items []cart.Item
	if err := json.Unmarshal(s.payload, &items); err != nil {
		return nil, fmt.Errorf("failed to deserialize cart snapshot: %w", err)
	}
	return items, nil
}

// Save serializes the cart and replaces the stored snapshot.
func (s *inMemory) Save(_ context.Context, items []cart.Item) error {
	if items == nil {
		items = []cart.Item{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to serialize cart snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = payload
	return nil
}
