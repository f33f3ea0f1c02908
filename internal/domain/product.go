package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products in the catalog.
type Category struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Product represents a catalog entry. CategoryID is nil for uncategorised
// products.
type Product struct {
	ID           int64
	CategoryID   *int64
	CategoryName string
	Name         string
	Description  string
	Price        decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
