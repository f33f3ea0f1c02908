package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfilment status of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order represents a buyer's order. TotalAmount includes DeliveryFee.
type Order struct {
	ID              int64
	OrderRef        string // ORD-XXXXXXXX
	BuyerID         int64
	Status          OrderStatus
	TotalAmount     decimal.Decimal
	ShippingAddress string
	Notes           string
	Items           []OrderItem

	// Delivery location and the fee it carried when the order was placed.
	DeliveryLocationID    *int64
	DeliveryLocationName  string
	DeliveryLocationState string
	DeliveryFee           decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem is a product line with the price captured at order time.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    int
	Price       decimal.Decimal
	CreatedAt   time.Time
}

// Subtotal returns quantity times the captured price.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
