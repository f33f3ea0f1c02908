package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// State is a delivery region, e.g. Lagos.
type State struct {
	ID        int64
	Name      string
	Code      string // e.g. LA
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location is a delivery area within a state with a flat delivery fee.
type Location struct {
	ID          int64
	StateID     int64
	StateName   string
	StateCode   string
	Name        string
	DeliveryFee decimal.Decimal
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
