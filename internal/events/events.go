// Package events notifies the rest of the platform about session and
// payment state changes.
package events

import "context"

const (
	TopicSessionRevoked  = "storefront.session.revoked"
	TopicPaymentCaptured = "storefront.payment.captured"
)

type Publisher interface {
	PublishSessionRevoked(ctx context.Context, reason string) error
	PublishPaymentCaptured(ctx context.Context, orderID, paymentID string) error
}
