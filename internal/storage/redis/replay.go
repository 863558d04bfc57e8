package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const replayKeyPrefix = "payment:consumed:"

// ReplayGuard records consumed payment callbacks so a captured signature
// cannot be presented twice.
type ReplayGuard struct {
	client *redis.Client
}

func NewReplayGuard(client *redis.Client) *ReplayGuard {
	return &ReplayGuard{client: client}
}

// Claim marks the payment id as consumed. SETNX keeps the check and the
// write a single atomic step across instances.
func (g *ReplayGuard) Claim(ctx context.Context, paymentID string, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, replayKeyPrefix+paymentID, "consumed", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim payment id: %w", err)
	}
	return ok, nil
}

// Release drops the claim so the callback may be presented again.
func (g *ReplayGuard) Release(ctx context.Context, paymentID string) error {
	if err := g.client.Del(ctx, replayKeyPrefix+paymentID).Err(); err != nil {
		return fmt.Errorf("release payment id: %w", err)
	}
	return nil
}
