package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/verbstore/backoffice/internal/domain/order"
)

const orderColumns = `o.id, o.order_number, COALESCE(o.colleague_id, ''), COALESCE(o.first_name, ''),
	COALESCE(o.last_name, ''), COALESCE(o.email, ''), COALESCE(o.phone_number, ''),
	os.name, o.tax, COALESCE(pc.code, ''), COALESCE(o.promo_code_id, ''),
	o.total_items_count, o.total_items_cost, o.shipping_cost, o.total_order_cost,
	ps.name, o.accumulate_payment, o.order_date, o.created_at, o.modified_at`

const orderFrom = ` FROM orders o
	JOIN order_statuses os ON os.id = o.status_id
	JOIN payment_statuses ps ON ps.id = o.payment_status_id
	LEFT JOIN promo_codes pc ON pc.id = o.promo_code_id`

const (
	insertOrderSQL = `INSERT INTO orders
		(id, order_number, colleague_id, first_name, last_name, email, phone_number,
		 status_id, tax, promo_code_id, total_items_count, total_items_cost, shipping_cost,
		 total_order_cost, payment_status_id, accumulate_payment)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''),
			(SELECT id FROM order_statuses WHERE name = $8),
			$9, NULLIF($10, ''), $11, $12, $13, $14,
			(SELECT id FROM payment_statuses WHERE name = $15),
			$16)`

	insertOrderItemSQL = `INSERT INTO order_items
		(id, order_id, product_id, position, qty, unit_price, tax, discount, line_cost, total_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	insertShippingSQL = `INSERT INTO shipping_info (id, order_id, shipping_address, shipping_cost, delivery_period)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))`

	getOrderByNumberSQL = `SELECT ` + orderColumns + orderFrom + ` WHERE o.order_number = $1`

	listOrdersSQL = `SELECT ` + orderColumns + orderFrom + `
		ORDER BY o.created_at DESC LIMIT $1 OFFSET $2`

	getOrderItemsSQL = `SELECT i.id, i.product_id, p.name, i.position, i.qty, i.unit_price,
			i.tax, i.discount, i.line_cost, i.total_cost
		FROM order_items i JOIN products p ON p.id = i.product_id
		WHERE i.order_id = $1 ORDER BY i.position`

	getShippingSQL = `SELECT id, shipping_address, shipping_cost, COALESCE(delivery_period, '')
		FROM shipping_info WHERE order_id = $1`

	deleteOrderSQL = `DELETE FROM orders WHERE order_number = $1`

	insertPaymentSQL = `INSERT INTO payment_info (id, order_id, payment_method_id, transaction_id, amount_paid)
		VALUES ($1, $2, (SELECT id FROM payment_methods WHERE name = $3), NULLIF($4, ''), $5)`

	sumPaymentsSQL = `SELECT COALESCE(SUM(amount_paid), 0) FROM payment_info WHERE order_id = $1`

	setPaymentStatusSQL = `UPDATE orders SET
		payment_status_id = (SELECT id FROM payment_statuses WHERE name = $2),
		modified_at = now()
		WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order, all its lines, and the shipping record in one
// transaction. An order with zero lines is rejected before any row is
// written.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	if len(o.Lines) == 0 {
		return order.ErrEmptyOrder
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertOrderSQL,
			o.ID, o.OrderNumber, o.ColleagueID, o.FirstName, o.LastName, o.Email, o.PhoneNumber,
			o.Status, o.Tax, o.PromoCodeID, o.TotalItemsCount, o.TotalItemsCost, o.ShippingCost,
			o.TotalOrderCost, o.PaymentStatus, o.AccumulatePayment,
		)
		if err != nil {
			return fmt.Errorf("inserting order %q: %w", o.OrderNumber, err)
		}

		for _, line := range o.Lines {
			_, err := tx.Exec(ctx, insertOrderItemSQL,
				line.ID, o.ID, line.ProductID, line.Position, line.Qty,
				line.UnitPrice, line.Tax, line.Discount, line.Cost, line.Total,
			)
			if err != nil {
				return fmt.Errorf("inserting order item for product %q: %w", line.ProductID, err)
			}
		}

		if o.Shipping != nil {
			_, err := tx.Exec(ctx, insertShippingSQL,
				o.Shipping.ID, o.ID, o.Shipping.Address, o.Shipping.Cost, o.Shipping.DeliveryPeriod,
			)
			if err != nil {
				return fmt.Errorf("inserting shipping info for order %q: %w", o.OrderNumber, err)
			}
		}
		return nil
	})
}

// GetByNumber returns a single order with its lines and shipping record.
func (r *OrderRepository) GetByNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByNumberSQL, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", orderNumber, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", orderNumber, err)
	}

	if o.Lines, err = r.items(ctx, o.ID); err != nil {
		return nil, err
	}
	if o.Shipping, err = r.shipping(ctx, o.ID); err != nil {
		return nil, err
	}
	return &o, nil
}

// List returns a page of orders, newest first, without their lines.
func (r *OrderRepository) List(ctx context.Context, limit, offset int) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// DeleteByNumber removes an order; lines, shipping, and payments cascade.
func (r *OrderRepository) DeleteByNumber(ctx context.Context, orderNumber string) error {
	tag, err := r.pool.Exec(ctx, deleteOrderSQL, orderNumber)
	if err != nil {
		return fmt.Errorf("deleting order %q: %w", orderNumber, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// AddPayment stores a payment record against an order.
func (r *OrderRepository) AddPayment(ctx context.Context, p *order.Payment) error {
	_, err := r.pool.Exec(ctx, insertPaymentSQL, p.ID, p.OrderID, p.Method, p.TransactionID, p.Amount)
	if err != nil {
		return fmt.Errorf("inserting payment for order %q: %w", p.OrderID, err)
	}
	return nil
}

// SumPayments returns the total amount paid against an order so far.
func (r *OrderRepository) SumPayments(ctx context.Context, orderID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := r.pool.QueryRow(ctx, sumPaymentsSQL, orderID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("summing payments for order %q: %w", orderID, err)
	}
	return sum, nil
}

// SetPaymentStatus updates an order's payment status by status name.
func (r *OrderRepository) SetPaymentStatus(ctx context.Context, orderID, statusName string) error {
	tag, err := r.pool.Exec(ctx, setPaymentStatusSQL, orderID, statusName)
	if err != nil {
		return fmt.Errorf("setting payment status for order %q: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) items(ctx context.Context, orderID string) ([]order.Line, error) {
	rows, err := r.pool.Query(ctx, getOrderItemsSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("getting items for order %q: %w", orderID, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.Line, error) {
		var line order.Line
		err := row.Scan(
			&line.ID, &line.ProductID, &line.ProductName, &line.Position, &line.Qty,
			&line.UnitPrice, &line.Tax, &line.Discount, &line.Cost, &line.Total,
		)
		return line, err
	})
}

func (r *OrderRepository) shipping(ctx context.Context, orderID string) (*order.ShippingInfo, error) {
	rows, err := r.pool.Query(ctx, getShippingSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("getting shipping info for order %q: %w", orderID, err)
	}

	s, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (order.ShippingInfo, error) {
		var s order.ShippingInfo
		err := row.Scan(&s.ID, &s.Address, &s.Cost, &s.DeliveryPeriod)
		return s, err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting shipping info for order %q: %w", orderID, err)
	}
	return &s, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.ColleagueID, &o.FirstName, &o.LastName, &o.Email, &o.PhoneNumber,
		&o.Status, &o.Tax, &o.PromoCode, &o.PromoCodeID,
		&o.TotalItemsCount, &o.TotalItemsCost, &o.ShippingCost, &o.TotalOrderCost,
		&o.PaymentStatus, &o.AccumulatePayment, &o.OrderDate, &o.CreatedAt, &o.ModifiedAt,
	)
	return o, err
}
