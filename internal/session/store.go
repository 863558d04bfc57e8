// Package session holds the access/refresh token pair for one end-user
// session. The pair is owned exclusively by the Store; every write replaces
// both tokens together, and a reader never sees tokens from two different
// pairs.
package session

import "github.com/arjunks/storefront/internal/models"

type Store interface {
	// Get returns the current pair, or false when no session is present.
	Get() (models.TokenPair, bool)
	// Set atomically replaces the pair.
	Set(pair models.TokenPair)
	// Clear terminates the session.
	Clear()
}
