package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjunks/storefront/internal/models"
)

const (
	testSecret    = "s3cr3t"
	testOrderID   = "order_ABC123"
	testPaymentID = "pay_XYZ789"
)

func signCallback(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifierAcceptsExactDigest(t *testing.T) {
	v := NewVerifier(testSecret)

	result, err := v.Verify(models.PaymentCallback{
		OrderID:   testOrderID,
		PaymentID: testPaymentID,
		Signature: signCallback(testSecret, testOrderID, testPaymentID),
	})
	require.NoError(t, err)
	assert.True(t, result.Verified)
	assert.Empty(t, result.Reason)
}

func TestVerifierRejectsEveryMutation(t *testing.T) {
	v := NewVerifier(testSecret)
	signature := signCallback(testSecret, testOrderID, testPaymentID)

	for i := range signature {
		mutated := []byte(signature)
		if mutated[i] == '0' {
			mutated[i] = '1'
		} else {
			mutated[i] = '0'
		}

		result, err := v.Verify(models.PaymentCallback{
			OrderID:   testOrderID,
			PaymentID: testPaymentID,
			Signature: string(mutated),
		})
		require.NoError(t, err)
		assert.False(t, result.Verified, "mutation at position %d must be rejected", i)
		assert.Equal(t, models.ReasonSignatureMismatch, result.Reason)
	}
}

func TestVerifierRejectsTruncatedDigest(t *testing.T) {
	v := NewVerifier(testSecret)
	signature := signCallback(testSecret, testOrderID, testPaymentID)

	result, err := v.Verify(models.PaymentCallback{
		OrderID:   testOrderID,
		PaymentID: testPaymentID,
		Signature: signature[:len(signature)-1],
	})
	require.NoError(t, err)
	assert.False(t, result.Verified)
}

func TestVerifierMissingFields(t *testing.T) {
	v := NewVerifier(testSecret)
	signature := signCallback(testSecret, testOrderID, testPaymentID)

	tests := []struct {
		name string
		cb   models.PaymentCallback
	}{
		{"no order id", models.PaymentCallback{PaymentID: testPaymentID, Signature: signature}},
		{"no payment id", models.PaymentCallback{OrderID: testOrderID, Signature: signature}},
		{"no signature", models.PaymentCallback{OrderID: testOrderID, PaymentID: testPaymentID}},
		{"all empty", models.PaymentCallback{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := v.Verify(tt.cb)
			require.NoError(t, err)
			assert.False(t, result.Verified)
			assert.Equal(t, models.ReasonMissingFields, result.Reason)
		})
	}
}

func TestVerifierUnconfiguredSecretIsAFault(t *testing.T) {
	v := NewVerifier("")

	result, err := v.Verify(models.PaymentCallback{
		OrderID:   testOrderID,
		PaymentID: testPaymentID,
		Signature: signCallback(testSecret, testOrderID, testPaymentID),
	})
	require.ErrorIs(t, err, ErrSecretNotConfigured)
	assert.False(t, result.Verified, "a configuration fault must not masquerade as a verdict")
	assert.Empty(t, result.Reason)
}
