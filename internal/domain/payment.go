package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the reconciliation state of a payment attempt.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusSuccessful PaymentStatus = "successful"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
)

// IsTerminal reports whether no further gateway observation can move the
// payment back to pending or processing.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusSuccessful || s == PaymentStatusFailed || s == PaymentStatusCancelled
}

// Customer holds the contact details captured at checkout.
type Customer struct {
	Email string
	Name  string
	Phone string
}

// Payment represents one payment attempt for an order.
//
// TxRef is assigned once before any gateway call and never changes. Amount
// and Currency are a snapshot of the order at creation time.
type Payment struct {
	ID            int64
	OrderID       int64
	UserID        int64
	Amount        decimal.Decimal
	Currency      string
	Status        PaymentStatus
	PaymentMethod string

	TxRef         string
	FlwRef        string
	TransactionID string

	Customer Customer

	Metadata      map[string]any
	FailureReason string
	WebhookData   json.RawMessage

	CreatedAt time.Time
	UpdatedAt time.Time
	PaidAt    *time.Time
}
