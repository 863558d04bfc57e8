package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arjunks/storefront/internal/models"
	"github.com/arjunks/storefront/internal/storage"
)

type OrderRepository struct {
	db storage.DBTX
}

func NewOrderRepository(db storage.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order models.PaymentOrder) error {
	query := `INSERT INTO payment_orders (order_id, receipt, amount_minor, currency, status, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(
		ctx,
		query,
		order.OrderID,
		order.Receipt,
		order.AmountMinorUnits,
		order.Currency,
		order.Status,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment order: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetOrder(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	var (
		order     models.PaymentOrder
		paymentID sql.NullString
		paidAt    sql.NullTime
	)
	query := `SELECT order_id, receipt, amount_minor, currency, status, payment_id, created_at, paid_at FROM payment_orders WHERE order_id = $1`
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&order.OrderID,
		&order.Receipt,
		&order.AmountMinorUnits,
		&order.Currency,
		&order.Status,
		&paymentID,
		&order.CreatedAt,
		&paidAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order %s: %w", orderID, storage.ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to get payment order: %w", err)
	}
	order.PaymentID = paymentID.String
	if paidAt.Valid {
		order.PaidAt = &paidAt.Time
	}
	return &order, nil
}

func (r *OrderRepository) markPaid(ctx context.Context, orderID, paymentID string) error {
	query := `UPDATE payment_orders SET status = $1, payment_id = $2, paid_at = NOW() WHERE order_id = $3 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, models.OrderStatusPaid, paymentID, orderID, models.OrderStatusCreated)
	if err != nil {
		return fmt.Errorf("failed to mark order as paid: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return errOrderNotUpdated
	}
	return nil
}

var errOrderNotUpdated = errors.New("order not updated")
