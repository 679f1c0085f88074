package patient

import (
	"context"
	"sync"
)

// MemoryStore keeps the collection in process memory. Used by tests
// and ephemeral runs; contents are gone on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	patients []*Patient
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) ([]*Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ClonePatients(s.patients), nil
}

func (s *MemoryStore) Save(_ context.Context, patients []*Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients = ClonePatients(patients)
	return nil
}
