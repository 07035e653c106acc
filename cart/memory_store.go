package cart

import (
	"context"
	"sync"

	"storefront-bff/models"
)

// MemoryStore is a process-local Store. It backs development runs without
// Redis and the test suites.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]models.CartItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]models.CartItem)}
}

func (s *MemoryStore) Load(ctx context.Context, clientID string) ([]models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, ok := s.carts[clientID]
	if !ok {
		return nil, nil
	}
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out, nil
}

func (s *MemoryStore) Save(ctx context.Context, clientID string, items []models.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]models.CartItem, len(items))
	copy(stored, items)
	s.carts[clientID] = stored
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, clientID)
	return nil
}
