package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjunks/storefront/internal/util"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&util.RemoteConfig{
		BaseURL: baseURL,
		APIKey:  "api-key-test",
		Timeout: 5 * time.Second,
	})
}

func serveEnvelope(status int, success bool, envelopeStatus int, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"success":    success,
			"statusCode": envelopeStatus,
			"message":    message,
			"data":       nil,
		})
	}
}

func TestDoClassifiesFailures(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		success        bool
		envelopeStatus int
		want           error
	}{
		{"session expired by transport status", CodeSessionExpired, false, CodeSessionExpired, ErrSessionExpired},
		{"session expired by envelope only", http.StatusOK, false, CodeSessionExpired, ErrSessionExpired},
		{"unauthenticated", http.StatusUnauthorized, false, http.StatusUnauthorized, ErrUnauthenticated},
		{"forbidden is unauthenticated", http.StatusForbidden, false, http.StatusForbidden, ErrUnauthenticated},
		{"server error", http.StatusBadGateway, false, http.StatusBadGateway, ErrServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(serveEnvelope(tt.status, tt.success, tt.envelopeStatus, "nope"))
			defer srv.Close()

			_, err := newTestClient(srv.URL).Do(context.Background(), "token", Request{Method: http.MethodGet, Path: "/x"})
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDoReturnsCallErrorForOtherFailures(t *testing.T) {
	srv := httptest.NewServer(serveEnvelope(http.StatusUnprocessableEntity, false, http.StatusUnprocessableEntity, "amount above merchant limit"))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Do(context.Background(), "token", Request{Method: http.MethodPost, Path: "/x"})

	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, http.StatusUnprocessableEntity, callErr.StatusCode)
	assert.Equal(t, "amount above merchant limit", callErr.Message)
}

func TestDoDistrustsFalseSuccessOn200(t *testing.T) {
	srv := httptest.NewServer(serveEnvelope(http.StatusOK, false, http.StatusOK, "soft failure"))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Do(context.Background(), "token", Request{Method: http.MethodGet, Path: "/x"})
	assert.Error(t, err, "success must be asserted by both the transport and the envelope")
}

func TestDoAttachesCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))
		assert.Equal(t, "api-key-test", r.Header.Get("X-API-Key"))
		serveEnvelope(http.StatusOK, true, http.StatusOK, "ok")(w, r)
	}))
	defer srv.Close()

	env, err := newTestClient(srv.URL).Do(context.Background(), "token-abc", Request{Method: http.MethodGet, Path: "/x"})
	require.NoError(t, err)
	assert.True(t, env.Success)
}

func TestDoClassifiesConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := newTestClient(srv.URL).Do(context.Background(), "token", Request{Method: http.MethodGet, Path: "/x"})
	require.ErrorIs(t, err, ErrNetworkUnreachable)
}

func TestRefreshRejectsIncompletePair(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success":    true,
			"statusCode": http.StatusOK,
			"message":    "ok",
			"data":       map[string]string{"access_token": "only-half"},
		})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Refresh(context.Background(), "refresh-token")
	assert.Error(t, err)
}
