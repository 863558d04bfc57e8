package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/arjunks/storefront/internal/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrPaymentConflict means the order is already paid under a different
	// payment id. Never reconciled automatically.
	ErrPaymentConflict = errors.New("order paid with different payment")
)

// DBTX lets repositories run against *sql.DB and *sql.Tx alike.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order models.PaymentOrder) error
	GetOrder(ctx context.Context, orderID string) (*models.PaymentOrder, error)
	// MarkOrderPaid transitions created -> paid. Marking an order that is
	// already paid with the same payment id is a no-op.
	MarkOrderPaid(ctx context.Context, orderID, paymentID string) error
}

// ReplayGuard claims a payment id the first time its callback is consumed.
// Claim reports false when the id was already claimed. Release gives a
// claim back when settling the payment failed, so the gateway's retry of
// the same callback is not mistaken for a replay.
type ReplayGuard interface {
	Claim(ctx context.Context, paymentID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, paymentID string) error
}
