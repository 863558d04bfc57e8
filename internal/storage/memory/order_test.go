package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjunks/storefront/internal/models"
	"github.com/arjunks/storefront/internal/storage"
)

func seedOrder(t *testing.T, repo *InMemoryOrderRepository) {
	t.Helper()
	require.NoError(t, repo.CreateOrder(context.Background(), models.PaymentOrder{
		OrderID:          "order_1",
		AmountMinorUnits: 5000,
		Currency:         "INR",
		Status:           models.OrderStatusCreated,
		CreatedAt:        time.Now().UTC(),
	}))
}

func TestMarkOrderPaid(t *testing.T) {
	repo := NewOrderRepository()
	seedOrder(t, repo)

	require.NoError(t, repo.MarkOrderPaid(context.Background(), "order_1", "pay_1"))

	order, err := repo.GetOrder(context.Background(), "order_1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, "pay_1", order.PaymentID)
	require.NotNil(t, order.PaidAt)
}

func TestMarkOrderPaidIsIdempotentForSamePayment(t *testing.T) {
	repo := NewOrderRepository()
	seedOrder(t, repo)

	require.NoError(t, repo.MarkOrderPaid(context.Background(), "order_1", "pay_1"))
	assert.NoError(t, repo.MarkOrderPaid(context.Background(), "order_1", "pay_1"))
}

func TestMarkOrderPaidConflictsForDifferentPayment(t *testing.T) {
	repo := NewOrderRepository()
	seedOrder(t, repo)

	require.NoError(t, repo.MarkOrderPaid(context.Background(), "order_1", "pay_1"))

	err := repo.MarkOrderPaid(context.Background(), "order_1", "pay_2")
	assert.ErrorIs(t, err, storage.ErrPaymentConflict)
}

func TestMarkOrderPaidUnknownOrder(t *testing.T) {
	repo := NewOrderRepository()

	err := repo.MarkOrderPaid(context.Background(), "order_missing", "pay_1")
	assert.ErrorIs(t, err, storage.ErrOrderNotFound)
}

func TestReplayGuardClaimsOnce(t *testing.T) {
	guard := NewReplayGuard()

	claimed, err := guard.Claim(context.Background(), "pay_1", time.Hour)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = guard.Claim(context.Background(), "pay_1", time.Hour)
	require.NoError(t, err)
	assert.False(t, claimed, "a payment id is consumable exactly once")

	claimed, err = guard.Claim(context.Background(), "pay_2", time.Hour)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestReplayGuardReleaseReopensClaim(t *testing.T) {
	guard := NewReplayGuard()

	claimed, err := guard.Claim(context.Background(), "pay_1", time.Hour)
	require.NoError(t, err)
	require.True(t, claimed)

	require.NoError(t, guard.Release(context.Background(), "pay_1"))

	claimed, err = guard.Claim(context.Background(), "pay_1", time.Hour)
	require.NoError(t, err)
	assert.True(t, claimed, "a released id is claimable again")
}
