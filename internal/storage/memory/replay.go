package memory

import (
	"context"
	"sync"
	"time"
)

type InMemoryReplayGuard struct {
	mu       sync.Mutex
	consumed map[string]time.Time
}

func NewReplayGuard() *InMemoryReplayGuard {
	return &InMemoryReplayGuard{
		consumed: make(map[string]time.Time),
	}
}

func (g *InMemoryReplayGuard) Claim(_ context.Context, paymentID string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	if expiry, ok := g.consumed[paymentID]; ok && now.Before(expiry) {
		return false, nil
	}
	g.consumed[paymentID] = now.Add(ttl)
	return true, nil
}

func (g *InMemoryReplayGuard) Release(_ context.Context, paymentID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.consumed, paymentID)
	return nil
}
