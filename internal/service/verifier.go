package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/arjunks/storefront/internal/models"
)

// Verifier checks the gateway's payment callback signature. It runs
// server-side only; the key secret never leaves this process.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify recomputes HMAC-SHA256(secret, orderID|paymentID) and compares it
// to the supplied signature without short-circuiting. The verdict is
// terminal: a mismatch is decisive, never a transient failure. A missing
// secret is reported as ErrSecretNotConfigured, distinguishable from a
// negative verdict.
func (v *Verifier) Verify(cb models.PaymentCallback) (models.VerificationResult, error) {
	if cb.OrderID == "" || cb.PaymentID == "" || cb.Signature == "" {
		return models.VerificationResult{Verified: false, Reason: models.ReasonMissingFields}, nil
	}
	if len(v.secret) == 0 {
		return models.VerificationResult{}, ErrSecretNotConfigured
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(cb.OrderID + "|" + cb.PaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(cb.Signature)) {
		return models.VerificationResult{Verified: false, Reason: models.ReasonSignatureMismatch}, nil
	}
	return models.VerificationResult{Verified: true}, nil
}
