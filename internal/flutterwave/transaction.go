package flutterwave

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// DecodeObject decodes a JSON object into a map, keeping numbers as
// json.Number so transaction ids do not go through float64.
func DecodeObject(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, fmt.Errorf("expected a JSON object")
	}
	return fields, nil
}

// ParseTransaction extracts a TransactionRecord from a gateway transaction
// object. raw is kept on the record as the payload to persist.
func ParseTransaction(fields map[string]any, raw json.RawMessage) domain.TransactionRecord {
	record := domain.TransactionRecord{
		TxRef:             stringField(fields, "tx_ref"),
		Status:            stringField(fields, "status"),
		FlwRef:            stringField(fields, "flw_ref"),
		TransactionID:     stringField(fields, "id"),
		PaymentType:       stringField(fields, "payment_type"),
		ProcessorResponse: stringField(fields, "processor_response"),
		Raw:               raw,
	}

	if ts := stringField(fields, "created_at"); ts != "" {
		record.CreatedAt = parseTimestamp(ts)
	}

	return record
}

func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}

// parseTimestamp returns nil for malformed values so the caller falls back
// to the current time.
func parseTimestamp(s string) *time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
