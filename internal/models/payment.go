package models

import "time"

// PaymentOrder is a gateway order record created through the remote API.
// Amount is in the smallest currency unit (paise, cents). Immutable once
// created.
type PaymentOrder struct {
	OrderID          string     `json:"order_id"`
	Receipt          string     `json:"receipt"`
	AmountMinorUnits int64      `json:"amount"`
	Currency         string     `json:"currency"`
	Status           string     `json:"status"`
	PaymentID        string     `json:"payment_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
}

const (
	OrderStatusCreated = "created"
	OrderStatusPaid    = "paid"
)

// PaymentCallback carries the three parameters the gateway posts back after
// a checkout attempt. Field names are fixed by the gateway's contract.
type PaymentCallback struct {
	OrderID   string `json:"razorpay_order_id" form:"razorpay_order_id" query:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id" form:"razorpay_payment_id" query:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature" form:"razorpay_signature" query:"razorpay_signature"`
}

// VerificationResult is the terminal verdict on a payment callback. A
// negative verdict is decisive and never retried.
type VerificationResult struct {
	Verified bool   `json:"verified"`
	Reason   string `json:"reason,omitempty"`
}

const (
	ReasonMissingFields     = "MissingFields"
	ReasonSignatureMismatch = "SignatureMismatch"
	ReasonReplayed          = "Replayed"
)
