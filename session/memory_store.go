package session

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store. It backs development runs without
// Redis and the test suites.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Load(ctx context.Context, clientID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[clientID]
	if !ok {
		return nil, nil
	}
	out := rec
	return &out, nil
}

func (s *MemoryStore) Save(ctx context.Context, clientID string, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[clientID] = *rec
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, clientID)
	return nil
}
