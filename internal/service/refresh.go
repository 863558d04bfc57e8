package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/arjunks/storefront/internal/models"
	"github.com/arjunks/storefront/internal/session"
)

// RefreshCoordinator exchanges the refresh token for a new pair and
// installs it atomically. Concurrent refreshes for the same refresh token
// are coalesced into a single upstream call: refresh tokens are single-use
// on the remote API, so a second in-flight refresh would invalidate the
// first and log the user out for no reason.
type RefreshCoordinator struct {
	remote RemoteAPI
	group  singleflight.Group
	log    *zap.SugaredLogger
}

func NewRefreshCoordinator(remoteAPI RemoteAPI, log *zap.SugaredLogger) *RefreshCoordinator {
	return &RefreshCoordinator{
		remote: remoteAPI,
		log:    log,
	}
}

// Refresh returns the pair to continue with. staleAccessToken is the
// access token the caller just failed with; when the store already holds
// a different one, a concurrent refresh has rotated the pair and that
// result is reused instead of burning another single-use refresh token.
// On upstream failure the session is terminated: the store is cleared and
// ErrRefreshFailed returned. Refreshes are never retried.
func (rc *RefreshCoordinator) Refresh(ctx context.Context, store session.Store, staleAccessToken string) (models.TokenPair, error) {
	pair, ok := store.Get()
	if !ok || pair.RefreshToken == "" {
		store.Clear()
		return models.TokenPair{}, fmt.Errorf("%w: no refresh token", ErrRefreshFailed)
	}
	if staleAccessToken != "" && pair.AccessToken != staleAccessToken {
		return pair, nil
	}

	// The upstream call is detached from the waiter's context so that one
	// canceled request cannot fail the refresh every coalesced waiter is
	// sharing.
	upstream := context.WithoutCancel(ctx)

	v, err, shared := rc.group.Do(pair.RefreshToken, func() (interface{}, error) {
		// Re-check under the flight: a refresh that settled between our
		// read and this call has already rotated the pair.
		if current, ok := store.Get(); ok && current.AccessToken != pair.AccessToken {
			return current, nil
		}

		newPair, err := rc.remote.Refresh(upstream, pair.RefreshToken)
		if err != nil {
			return models.TokenPair{}, err
		}
		store.Set(newPair)
		return newPair, nil
	})
	if err != nil {
		store.Clear()
		return models.TokenPair{}, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	newPair := v.(models.TokenPair)
	// Idempotent for the winner; installs the shared result for waiters
	// carrying their own store.
	store.Set(newPair)
	if shared {
		rc.log.Debugw("refresh coalesced with in-flight call")
	}
	return newPair, nil
}
