package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// DefaultFailureReason is recorded when the gateway reports a failed
// transaction without a processor response.
const DefaultFailureReason = "Payment failed"

// TransactionRecord is the typed view of a gateway transaction, whether it
// came from a verify query or a webhook delivery.
type TransactionRecord struct {
	TxRef             string
	Status            string
	FlwRef            string
	TransactionID     string
	PaymentType       string
	ProcessorResponse string
	CreatedAt         *time.Time

	// Raw is the gateway payload the record was extracted from.
	Raw json.RawMessage
}

// LocalStatus maps the gateway's transaction status onto a payment status.
// Matching is case-insensitive; unknown values mean the gateway is still
// working on the charge.
func (r TransactionRecord) LocalStatus() PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(r.Status)) {
	case "successful":
		return PaymentStatusSuccessful
	case "failed", "cancelled":
		return PaymentStatusFailed
	default:
		return PaymentStatusProcessing
	}
}

// FailureReason returns the processor response or the default message.
func (r TransactionRecord) FailureReason() string {
	if reason := strings.TrimSpace(r.ProcessorResponse); reason != "" {
		return reason
	}
	return DefaultFailureReason
}
