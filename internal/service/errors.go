package service

import "errors"

var (
	// ErrRefreshFailed means the refresh token was missing, expired or
	// rejected. The session is terminated; refreshes are never retried.
	ErrRefreshFailed = errors.New("token refresh failed")
	// ErrSecretNotConfigured is a configuration fault, not a verification
	// verdict. It must never be collapsed into "not verified".
	ErrSecretNotConfigured = errors.New("payment secret not configured")
	ErrOrderCreationFailed = errors.New("order creation failed")
	ErrInvalidAmount       = errors.New("invalid order amount")
)
