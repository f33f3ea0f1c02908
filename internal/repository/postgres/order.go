package postgres

import (
	"context"
	"database/sql"
	"errors"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// OrderRepository is a PostgreSQL implementation of repository.OrderRepository.
type OrderRepository struct {
	q Querier
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{q: db}
}

// NewOrderRepositoryWithTx creates an order repository using a transaction.
func NewOrderRepositoryWithTx(tx *sql.Tx) *OrderRepository {
	return &OrderRepository{q: tx}
}

// Create persists a new order and its items. Callers should run it inside a
// transaction so a failed item insert does not leave a partial order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (order_ref, buyer_id, status, total_amount, shipping_address, notes, delivery_location_id, delivery_fee)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRowContext(ctx, query,
		order.OrderRef,
		order.BuyerID,
		order.Status,
		order.TotalAmount,
		order.ShippingAddress,
		order.Notes,
		nullInt64(order.DeliveryLocationID),
		order.DeliveryFee,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if err := r.q.QueryRowContext(ctx, itemQuery,
			item.OrderID,
			item.ProductID,
			item.Quantity,
			item.Price,
		).Scan(&item.ID, &item.CreatedAt); err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves an order and its items.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` WHERE o.id = $1`

	order, err := scanOrder(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	itemsQuery := `
		SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.price, oi.created_at
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.created_at, oi.id
	`

	rows, err := r.q.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.Price,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	return order, rows.Err()
}

// List retrieves orders, newest first.
func (r *OrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]*domain.Order, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var (
		rows *sql.Rows
		err  error
	)
	if filter.BuyerID != 0 {
		query := `SELECT ` + orderColumns + ` WHERE o.buyer_id = $1 ORDER BY o.created_at DESC LIMIT $2`
		rows, err = r.q.QueryContext(ctx, query, filter.BuyerID, limit)
	} else {
		query := `SELECT ` + orderColumns + ` ORDER BY o.created_at DESC LIMIT $1`
		rows, err = r.q.QueryContext(ctx, query, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

// UpdateStatus sets the status of an order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ConfirmIfPending moves a pending order to confirmed. The status predicate in
// the WHERE clause makes repeated calls no-ops.
func (r *OrderRepository) ConfirmIfPending(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`

	result, err := r.q.ExecContext(ctx, query, domain.OrderStatusConfirmed, id, domain.OrderStatusPending)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected == 1, nil
}

const orderColumns = `
	o.id, o.order_ref, o.buyer_id, o.status, o.total_amount, o.shipping_address, o.notes,
	o.delivery_location_id, COALESCE(l.name, ''), COALESCE(s.name, ''), o.delivery_fee,
	o.created_at, o.updated_at
	FROM orders o
	LEFT JOIN locations l ON l.id = o.delivery_location_id
	LEFT JOIN states s ON s.id = l.state_id
`

func scanOrder(s scanner) (*domain.Order, error) {
	var (
		order      domain.Order
		locationID sql.NullInt64
	)
	err := s.Scan(
		&order.ID,
		&order.OrderRef,
		&order.BuyerID,
		&order.Status,
		&order.TotalAmount,
		&order.ShippingAddress,
		&order.Notes,
		&locationID,
		&order.DeliveryLocationName,
		&order.DeliveryLocationState,
		&order.DeliveryFee,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	order.DeliveryLocationID = int64Ptr(locationID)
	return &order, nil
}

// Ensure OrderRepository implements repository.OrderRepository.
var _ repository.OrderRepository = (*OrderRepository)(nil)
