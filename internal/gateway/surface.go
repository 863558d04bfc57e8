// Package gateway is the boundary with the external payment gateway's
// checkout UI. The gateway owns the actual payment surface; this package
// only prepares it and hands its parameters to the storefront.
package gateway

import (
	"context"
	"errors"

	"github.com/arjunks/storefront/internal/models"
)

// ErrCheckoutUnavailable means the gateway checkout could not be made
// ready (bootstrap fetch failed). It is surfaced to the user, never
// retried automatically.
var ErrCheckoutUnavailable = errors.New("checkout unavailable")

// Prefill is the customer data the checkout UI is seeded with.
type Prefill struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// CheckoutParams is everything the frontend needs to open the gateway's
// native checkout for one order.
type CheckoutParams struct {
	KeyID    string  `json:"key_id"`
	OrderID  string  `json:"order_id"`
	Amount   int64   `json:"amount"`
	Currency string  `json:"currency"`
	Prefill  Prefill `json:"prefill"`
}

// CheckoutSurface is the injected capability for the gateway's checkout
// UI; tests substitute a double.
type CheckoutSurface interface {
	Open(ctx context.Context, order models.PaymentOrder, prefill Prefill) (CheckoutParams, error)
}

// keyedSurface is the real surface: checkout parameters bound to the
// merchant key the bootstrap validated.
type keyedSurface struct {
	keyID string
}

func (s *keyedSurface) Open(_ context.Context, order models.PaymentOrder, prefill Prefill) (CheckoutParams, error) {
	if order.OrderID == "" {
		return CheckoutParams{}, errors.New("order has no gateway id")
	}
	return CheckoutParams{
		KeyID:    s.keyID,
		OrderID:  order.OrderID,
		Amount:   order.AmountMinorUnits,
		Currency: order.Currency,
		Prefill:  prefill,
	}, nil
}
