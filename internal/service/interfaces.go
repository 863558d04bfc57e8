package service

import (
	"context"

	"github.com/arjunks/storefront/internal/models"
	"github.com/arjunks/storefront/internal/remote"
)

// RemoteAPI is the slice of the remote client the session layer needs.
// *remote.Client satisfies it; tests substitute their own.
type RemoteAPI interface {
	Do(ctx context.Context, accessToken string, r remote.Request) (*remote.Envelope, error)
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
}
