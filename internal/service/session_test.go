package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arjunks/storefront/internal/models"
	"github.com/arjunks/storefront/internal/remote"
	"github.com/arjunks/storefront/internal/session"
	"github.com/arjunks/storefront/internal/util"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func newRemoteClient(baseURL string) *remote.Client {
	return remote.NewClient(&util.RemoteConfig{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	})
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success":    success,
		"statusCode": status,
		"message":    message,
		"data":       data,
	})
}

func stalePair() models.TokenPair {
	return models.TokenPair{AccessToken: "stale-access", RefreshToken: "stale-refresh"}
}

func freshPair() models.TokenPair {
	return models.TokenPair{AccessToken: "fresh-access", RefreshToken: "fresh-refresh"}
}

// newFakeAPI serves /data accepting only the fresh access token and
// /auth/refresh rotating the stale pair. refreshDelay stretches the
// refresh window for the coalescing tests.
func newFakeAPI(dataCalls, refreshCalls *int32, refreshDelay time.Duration) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/data", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(dataCalls, 1)
		if r.Header.Get("Authorization") == "Bearer fresh-access" {
			writeEnvelope(w, http.StatusOK, true, "ok", map[string]string{"value": "42"})
			return
		}
		writeEnvelope(w, remote.CodeSessionExpired, false, "access token expired", nil)
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(refreshCalls, 1)
		time.Sleep(refreshDelay)
		writeEnvelope(w, http.StatusOK, true, "ok", freshPair())
	})
	return httptest.NewServer(mux)
}

func TestCallRefreshesAndRetriesExactlyOnce(t *testing.T) {
	var dataCalls, refreshCalls int32
	srv := newFakeAPI(&dataCalls, &refreshCalls, 0)
	defer srv.Close()

	rc := newRemoteClient(srv.URL)
	client := NewSessionClient(rc, NewRefreshCoordinator(rc, testLogger()), testLogger())

	store := session.NewMemoryStore()
	store.Set(stalePair())

	env, err := client.Call(context.Background(), store, remote.Request{Method: http.MethodGet, Path: "/data"})
	require.NoError(t, err, "the caller must never see the absorbed expiry")
	assert.True(t, env.Success)

	assert.EqualValues(t, 2, atomic.LoadInt32(&dataCalls), "original call plus exactly one retry")
	assert.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls))

	pair, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, freshPair(), pair, "retry must run on the refreshed pair")
}

func TestCallSurfacesUnauthenticatedWhenRefreshFails(t *testing.T) {
	var dataCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/data", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&dataCalls, 1)
		writeEnvelope(w, remote.CodeSessionExpired, false, "access token expired", nil)
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, false, "refresh token invalid or used", nil)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	rc := newRemoteClient(srv.URL)
	client := NewSessionClient(rc, NewRefreshCoordinator(rc, testLogger()), testLogger())

	store := session.NewMemoryStore()
	store.Set(stalePair())

	_, err := client.Call(context.Background(), store, remote.Request{Method: http.MethodGet, Path: "/data"})
	require.ErrorIs(t, err, remote.ErrUnauthenticated)

	assert.EqualValues(t, 1, atomic.LoadInt32(&dataCalls), "no retry after a failed refresh")
	_, ok := store.Get()
	assert.False(t, ok, "failed refresh terminates the session")
}

func TestCallDoesNotRefreshOnPlainUnauthenticated(t *testing.T) {
	var refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/data", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, false, "authenticate first", nil)
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		writeEnvelope(w, http.StatusOK, true, "ok", freshPair())
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	rc := newRemoteClient(srv.URL)
	client := NewSessionClient(rc, NewRefreshCoordinator(rc, testLogger()), testLogger())

	store := session.NewMemoryStore()
	store.Set(stalePair())

	_, err := client.Call(context.Background(), store, remote.Request{Method: http.MethodGet, Path: "/data"})
	require.ErrorIs(t, err, remote.ErrUnauthenticated)
	assert.EqualValues(t, 0, atomic.LoadInt32(&refreshCalls))
}

func TestCallSurfacesServerErrorWithoutRetry(t *testing.T) {
	var dataCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/data", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&dataCalls, 1)
		writeEnvelope(w, http.StatusInternalServerError, false, "boom", nil)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	rc := newRemoteClient(srv.URL)
	client := NewSessionClient(rc, NewRefreshCoordinator(rc, testLogger()), testLogger())

	store := session.NewMemoryStore()
	store.Set(freshPair())

	_, err := client.Call(context.Background(), store, remote.Request{Method: http.MethodGet, Path: "/data"})
	require.ErrorIs(t, err, remote.ErrServerError)
	assert.EqualValues(t, 1, atomic.LoadInt32(&dataCalls))
}

func TestCallClassifiesUnreachableNetwork(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listens anymore

	rc := newRemoteClient(srv.URL)
	client := NewSessionClient(rc, NewRefreshCoordinator(rc, testLogger()), testLogger())

	store := session.NewMemoryStore()
	store.Set(freshPair())

	_, err := client.Call(context.Background(), store, remote.Request{Method: http.MethodGet, Path: "/data"})
	require.ErrorIs(t, err, remote.ErrNetworkUnreachable)
}

func TestConcurrentExpiryCoalescesIntoOneRefresh(t *testing.T) {
	var dataCalls, refreshCalls int32
	srv := newFakeAPI(&dataCalls, &refreshCalls, 100*time.Millisecond)
	defer srv.Close()

	rc := newRemoteClient(srv.URL)
	client := NewSessionClient(rc, NewRefreshCoordinator(rc, testLogger()), testLogger())

	store := session.NewMemoryStore()
	store.Set(stalePair())

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.Call(context.Background(), store, remote.Request{Method: http.MethodGet, Path: "/data"})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls),
		"concurrent expiries must share a single in-flight refresh")
}

func TestRefreshWithoutTokenFailsWithoutNetworkCall(t *testing.T) {
	var refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		writeEnvelope(w, http.StatusOK, true, "ok", freshPair())
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	coordinator := NewRefreshCoordinator(newRemoteClient(srv.URL), testLogger())

	_, err := coordinator.Refresh(context.Background(), session.NewMemoryStore(), "")
	require.ErrorIs(t, err, ErrRefreshFailed)
	assert.EqualValues(t, 0, atomic.LoadInt32(&refreshCalls))
}

func TestRefreshReusesAlreadyRotatedPair(t *testing.T) {
	var refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		writeEnvelope(w, http.StatusOK, true, "ok", freshPair())
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	coordinator := NewRefreshCoordinator(newRemoteClient(srv.URL), testLogger())

	store := session.NewMemoryStore()
	store.Set(freshPair())

	// The caller failed with an access token the store no longer holds:
	// somebody else already refreshed.
	pair, err := coordinator.Refresh(context.Background(), store, "stale-access")
	require.NoError(t, err)
	assert.Equal(t, freshPair(), pair)
	assert.EqualValues(t, 0, atomic.LoadInt32(&refreshCalls))
}
