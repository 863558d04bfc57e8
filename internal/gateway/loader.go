package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arjunks/storefront/internal/models"
	"github.com/arjunks/storefront/internal/util"
)

type loadState int

const (
	stateNotLoaded loadState = iota
	stateLoading
	stateLoaded
	stateFailed
)

const bootstrapTimeout = 10 * time.Second

// Loader makes the gateway checkout ready at most once per process.
// Concurrent Acquires share the single in-flight bootstrap; a failed
// bootstrap is sticky and keeps surfacing ErrCheckoutUnavailable until
// Reset, so repeated network failures reach the user instead of looping.
type Loader struct {
	cfg    *util.GatewayConfig
	client *http.Client
	log    *zap.SugaredLogger

	mu      sync.Mutex
	state   loadState
	done    chan struct{}
	surface CheckoutSurface
	loadErr error
}

func NewLoader(cfg *util.GatewayConfig, log *zap.SugaredLogger) *Loader {
	return &Loader{
		cfg:    cfg,
		client: &http.Client{Timeout: bootstrapTimeout},
		log:    log,
	}
}

// Acquire returns the ready surface, performing the one-time bootstrap if
// nobody has yet. Waiters are released together when the first load
// settles.
func (l *Loader) Acquire(ctx context.Context) (CheckoutSurface, error) {
	for {
		l.mu.Lock()
		switch l.state {
		case stateLoaded:
			s := l.surface
			l.mu.Unlock()
			return s, nil

		case stateFailed:
			err := l.loadErr
			l.mu.Unlock()
			return nil, fmt.Errorf("%w: %v", ErrCheckoutUnavailable, err)

		case stateLoading:
			done := l.done
			l.mu.Unlock()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-done:
			}
			// Re-read the settled state.

		case stateNotLoaded:
			l.state = stateLoading
			l.done = make(chan struct{})
			done := l.done
			l.mu.Unlock()

			// Detached from the first caller's context: its cancellation
			// must not poison the load for every later caller.
			surface, err := l.bootstrap(context.WithoutCancel(ctx))

			l.mu.Lock()
			if err != nil {
				l.state = stateFailed
				l.loadErr = err
				l.log.Errorw("gateway bootstrap failed", "error", err)
			} else {
				l.state = stateLoaded
				l.surface = surface
				l.log.Infow("gateway checkout ready", "key_id", l.cfg.KeyID)
			}
			close(done)
			l.mu.Unlock()
		}
	}
}

// Reset clears a sticky failure so the next Acquire loads again. Operator
// escape hatch; nothing calls it automatically.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == stateFailed {
		l.state = stateNotLoaded
		l.loadErr = nil
	}
}

// OpenCheckout is the acquire-and-use operation handlers call.
func (l *Loader) OpenCheckout(ctx context.Context, order models.PaymentOrder, prefill Prefill) (CheckoutParams, error) {
	surface, err := l.Acquire(ctx)
	if err != nil {
		return CheckoutParams{}, err
	}
	return surface.Open(ctx, order, prefill)
}

// bootstrap validates the merchant key against the gateway. With no
// gateway URL configured (local runs) the probe is skipped and the surface
// is built from the key alone.
func (l *Loader) bootstrap(ctx context.Context) (CheckoutSurface, error) {
	if l.cfg.KeyID == "" {
		return nil, fmt.Errorf("gateway key id not configured")
	}
	if l.cfg.BaseURL == "" {
		return &keyedSurface{keyID: l.cfg.KeyID}, nil
	}

	u := l.cfg.BaseURL + "/v1/checkout/preferences?" + url.Values{"key_id": {l.cfg.KeyID}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create bootstrap request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch gateway preferences: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway preferences returned status %d", resp.StatusCode)
	}
	return &keyedSurface{keyID: l.cfg.KeyID}, nil
}
