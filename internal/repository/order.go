package repository

import (
	"context"

	"storefront/internal/domain"
)

// OrderFilter narrows order listings. A zero BuyerID lists all orders.
type OrderFilter struct {
	BuyerID int64
	Limit   int
}

// OrderRepository defines the persistence operations for orders.
type OrderRepository interface {
	// Create persists a new order together with its items.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order and its items.
	GetByID(ctx context.Context, id int64) (*domain.Order, error)

	// List retrieves orders without items, newest first.
	List(ctx context.Context, filter OrderFilter) ([]*domain.Order, error)

	// UpdateStatus sets the status of an order unconditionally.
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error

	// ConfirmIfPending moves a pending order to confirmed.
	// Returns false without error when the order was not pending.
	ConfirmIfPending(ctx context.Context, id int64) (bool, error)
}
