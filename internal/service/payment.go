package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arjunks/storefront/internal/events"
	"github.com/arjunks/storefront/internal/models"
	"github.com/arjunks/storefront/internal/remote"
	"github.com/arjunks/storefront/internal/session"
	"github.com/arjunks/storefront/internal/storage"
	"github.com/arjunks/storefront/internal/util"
)

const createOrderPath = "/payment/orders"

// gatewayOrder is the remote API's view of a created gateway order.
type gatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// PaymentOrders creates gateway orders and settles them once their
// callback is verified.
type PaymentOrders struct {
	sessions  *SessionClient
	verifier  *Verifier
	orders    storage.OrderRepository
	replay    storage.ReplayGuard
	publisher events.Publisher
	cfg       *util.GatewayConfig
	replayTTL time.Duration
	log       *zap.SugaredLogger
}

func NewPaymentOrders(
	sessions *SessionClient,
	verifier *Verifier,
	orders storage.OrderRepository,
	replay storage.ReplayGuard,
	publisher events.Publisher,
	cfg *util.GatewayConfig,
	replayTTL time.Duration,
	log *zap.SugaredLogger,
) *PaymentOrders {
	return &PaymentOrders{
		sessions:  sessions,
		verifier:  verifier,
		orders:    orders,
		replay:    replay,
		publisher: publisher,
		cfg:       cfg,
		replayTTL: replayTTL,
		log:       log,
	}
}

// CreateOrder converts the major-unit amount to minor units and asks the
// remote API to create a gateway order. There is no retry and no
// idempotency key: a duplicate submission after a network failure would
// create a second order, which is the caller's call to make.
func (s *PaymentOrders) CreateOrder(
	ctx context.Context,
	store session.Store,
	amount decimal.Decimal,
	currency string,
) (models.PaymentOrder, error) {
	if currency == "" {
		currency = s.cfg.Currency
	}
	if amount.Sign() <= 0 {
		return models.PaymentOrder{}, fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}

	minor := amount.Mul(decimal.NewFromInt(util.SubunitFactor))
	if !minor.IsInteger() {
		return models.PaymentOrder{}, fmt.Errorf("%w: %s has sub-minor-unit precision", ErrInvalidAmount, amount)
	}

	receipt := "rcpt_" + uuid.NewString()
	body := map[string]any{
		"amount":   minor.IntPart(),
		"currency": currency,
		"receipt":  receipt,
	}

	env, err := s.sessions.Call(ctx, store, remote.Request{
		Method: http.MethodPost,
		Path:   createOrderPath,
		Body:   body,
	})
	if err != nil {
		if errors.Is(err, remote.ErrUnauthenticated) {
			return models.PaymentOrder{}, err
		}
		return models.PaymentOrder{}, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}

	var created gatewayOrder
	if err := env.Decode(&created); err != nil {
		return models.PaymentOrder{}, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}

	order := models.PaymentOrder{
		OrderID:          created.ID,
		Receipt:          receipt,
		AmountMinorUnits: created.Amount,
		Currency:         created.Currency,
		Status:           models.OrderStatusCreated,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return models.PaymentOrder{}, fmt.Errorf("persist order %s: %w", order.OrderID, err)
	}

	s.log.Infow("payment order created",
		"order_id", order.OrderID, "amount", order.AmountMinorUnits, "currency", order.Currency)
	return order, nil
}

func (s *PaymentOrders) GetOrder(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	return s.orders.GetOrder(ctx, orderID)
}

// ConfirmPayment is the single entry point for gateway callbacks. It
// verifies the signature, consumes the callback exactly once and marks
// the order paid. A negative verdict comes back as a result, not an
// error; only configuration and storage faults are errors.
func (s *PaymentOrders) ConfirmPayment(ctx context.Context, cb models.PaymentCallback) (models.VerificationResult, error) {
	result, err := s.verifier.Verify(cb)
	if err != nil {
		return models.VerificationResult{}, err
	}
	if !result.Verified {
		s.log.Warnw("payment callback rejected",
			"order_id", cb.OrderID, "payment_id", cb.PaymentID, "reason", result.Reason)
		return result, nil
	}

	claimed, err := s.replay.Claim(ctx, cb.PaymentID, s.replayTTL)
	if err != nil {
		return models.VerificationResult{}, fmt.Errorf("claim payment %s: %w", cb.PaymentID, err)
	}
	if !claimed {
		s.log.Warnw("payment callback replayed", "payment_id", cb.PaymentID)
		return models.VerificationResult{Verified: false, Reason: models.ReasonReplayed}, nil
	}

	if err := s.orders.MarkOrderPaid(ctx, cb.OrderID, cb.PaymentID); err != nil {
		// The payment did not settle, so the claim must not outlive this
		// attempt: the gateway retries the same callback and a held claim
		// would reject it as a replay for the whole TTL.
		if relErr := s.replay.Release(ctx, cb.PaymentID); relErr != nil {
			s.log.Errorw("failed to release replay claim",
				"payment_id", cb.PaymentID, "error", relErr)
		}
		return models.VerificationResult{}, fmt.Errorf("mark order %s paid: %w", cb.OrderID, err)
	}

	if err := s.publisher.PublishPaymentCaptured(ctx, cb.OrderID, cb.PaymentID); err != nil {
		// The payment is settled either way; the event is advisory.
		s.log.Errorw("failed to publish payment captured event", "error", err)
	}

	s.log.Infow("payment verified", "order_id", cb.OrderID, "payment_id", cb.PaymentID)
	return result, nil
}
