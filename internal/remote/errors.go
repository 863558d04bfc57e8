package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionExpired means the access token went stale but the refresh
	// token may still be good. Recoverable by one refresh + one retry.
	ErrSessionExpired = errors.New("session expired")
	// ErrUnauthenticated means there is no valid session at all. Terminal
	// for the call; the user has to log in again.
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrNetworkUnreachable = errors.New("remote api unreachable")
	ErrServerError        = errors.New("remote api server error")
)

// CallError is any remote failure that is not one of the protocol
// sentinels above. It keeps the envelope message for the caller.
type CallError struct {
	StatusCode int
	Message    string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("remote api: status %d: %s", e.StatusCode, e.Message)
}
