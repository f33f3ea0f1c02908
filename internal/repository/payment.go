package repository

import (
	"context"

	"storefront/internal/domain"
)

// PaymentFilter narrows payment listings. A zero UserID lists all payments.
type PaymentFilter struct {
	UserID int64
	Limit  int
}

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Create persists a new payment and fills in its ID and timestamps.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)

	// GetByTxRef retrieves a payment by its transaction reference.
	GetByTxRef(ctx context.Context, txRef string) (*domain.Payment, error)

	// GetByTxRefForUpdate retrieves a payment and locks its row until the
	// surrounding transaction ends. Only meaningful inside a TxRunner.
	GetByTxRefForUpdate(ctx context.Context, txRef string) (*domain.Payment, error)

	// List retrieves payments, newest first.
	List(ctx context.Context, filter PaymentFilter) ([]*domain.Payment, error)

	// Update persists the mutable reconciliation fields and bumps UpdatedAt.
	Update(ctx context.Context, payment *domain.Payment) error
}
