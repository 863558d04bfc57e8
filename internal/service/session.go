package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/arjunks/storefront/internal/remote"
	"github.com/arjunks/storefront/internal/session"
)

// callState makes the recovery flow a visible state machine instead of
// nested error handling. One invocation performs at most one refresh and
// at most one retried call.
type callState int

const (
	stateInitial callState = iota
	stateAwaitingRefresh
	stateRetried
	stateDone
)

// SessionClient issues remote API calls on behalf of one end-user session.
// It attaches the stored access token and absorbs exactly one
// expired-session recovery: refresh once, retry once, surface everything
// else untouched.
type SessionClient struct {
	remote    RemoteAPI
	refresher *RefreshCoordinator
	log       *zap.SugaredLogger
}

func NewSessionClient(remoteAPI RemoteAPI, refresher *RefreshCoordinator, log *zap.SugaredLogger) *SessionClient {
	return &SessionClient{
		remote:    remoteAPI,
		refresher: refresher,
		log:       log,
	}
}

// Call runs attach -> send -> (maybe refresh) -> (maybe retry), strictly
// in that order. The retried call always uses the pair written by the
// refresh that preceded it.
func (c *SessionClient) Call(ctx context.Context, store session.Store, req remote.Request) (*remote.Envelope, error) {
	pair, _ := store.Get()
	accessToken := pair.AccessToken

	var (
		env *remote.Envelope
		err error
	)

	state := stateInitial
	for state != stateDone {
		switch state {
		case stateInitial:
			env, err = c.remote.Do(ctx, accessToken, req)
			if errors.Is(err, remote.ErrSessionExpired) {
				state = stateAwaitingRefresh
				continue
			}
			state = stateDone

		case stateAwaitingRefresh:
			newPair, refreshErr := c.refresher.Refresh(ctx, store, accessToken)
			if refreshErr != nil {
				c.log.Infow("session terminated, refresh rejected",
					"path", req.Path, "error", refreshErr)
				return nil, fmt.Errorf("%w: %v", remote.ErrUnauthenticated, refreshErr)
			}
			accessToken = newPair.AccessToken
			state = stateRetried

		case stateRetried:
			// Final either way. A second expiry here means the remote API
			// is rejecting tokens it just issued; surfacing it beats looping.
			env, err = c.remote.Do(ctx, accessToken, req)
			state = stateDone
		}
	}

	return env, err
}
