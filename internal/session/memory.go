package session

import (
	"sync"

	"github.com/arjunks/storefront/internal/models"
)

// MemoryStore is an in-process Store for programmatic callers and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	pair    models.TokenPair
	present bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() (models.TokenPair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.present {
		return models.TokenPair{}, false
	}
	return s.pair, true
}

func (s *MemoryStore) Set(pair models.TokenPair) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pair = pair
	s.present = true
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pair = models.TokenPair{}
	s.present = false
}
