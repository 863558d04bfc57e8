package memory

import (
	"context"
	"sync"
	"time"

	"github.com/arjunks/storefront/internal/models"
	"github.com/arjunks/storefront/internal/storage"
)

type InMemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]models.PaymentOrder
}

func NewOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{
		orders: make(map[string]models.PaymentOrder),
	}
}

func (m *InMemoryOrderRepository) CreateOrder(_ context.Context, order models.PaymentOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.orders[order.OrderID] = order
	return nil
}

func (m *InMemoryOrderRepository) GetOrder(_ context.Context, orderID string) (*models.PaymentOrder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	order, ok := m.orders[orderID]
	if !ok {
		return nil, storage.ErrOrderNotFound
	}
	return &order, nil
}

func (m *InMemoryOrderRepository) MarkOrderPaid(_ context.Context, orderID, paymentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[orderID]
	if !ok {
		return storage.ErrOrderNotFound
	}
	if order.Status == models.OrderStatusPaid {
		if order.PaymentID == paymentID {
			return nil
		}
		return storage.ErrPaymentConflict
	}

	now := time.Now().UTC()
	order.Status = models.OrderStatusPaid
	order.PaymentID = paymentID
	order.PaidAt = &now
	m.orders[orderID] = order
	return nil
}
