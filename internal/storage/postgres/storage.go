package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arjunks/storefront/internal/models"
	"github.com/arjunks/storefront/internal/storage"
)

type Storage struct {
	db *sql.DB
	*OrderRepository
}

func NewStorage(db *sql.DB) *Storage {
	return &Storage{
		db:              db,
		OrderRepository: NewOrderRepository(db),
	}
}

// MarkOrderPaid transitions created -> paid inside a transaction. The
// re-read under the transaction makes the settle idempotent: a repeated
// callback with the same payment id is a no-op, a different payment id on
// an already-paid order is a conflict.
func (s *Storage) MarkOrderPaid(ctx context.Context, orderID, paymentID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	orderRepoTx := NewOrderRepository(tx)

	err = orderRepoTx.markPaid(ctx, orderID, paymentID)
	if err != nil {
		if !errors.Is(err, errOrderNotUpdated) {
			return err
		}

		order, getErr := orderRepoTx.GetOrder(ctx, orderID)
		if getErr != nil {
			return getErr
		}
		if order.Status == models.OrderStatusPaid && order.PaymentID == paymentID {
			return tx.Commit()
		}
		return fmt.Errorf("order %s: %w", orderID, storage.ErrPaymentConflict)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
