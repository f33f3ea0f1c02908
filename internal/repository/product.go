package repository

import (
	"context"

	"storefront/internal/domain"
)

// ProductRepository defines the persistence operations for the catalog.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetAll(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error

	// Delete returns ErrReferenced while order items still point at the product.
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository defines the persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	GetAll(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error

	// Delete removes the category. Its products become uncategorised.
	Delete(ctx context.Context, id int64) error
}
