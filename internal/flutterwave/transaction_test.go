package flutterwave

import (
	"encoding/json"
	"testing"
)

func TestParseTransaction(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{"id":98765,"tx_ref":"JHYTERMAX-3-0F0F0F0F","flw_ref":"FLW-1","status":"failed","processor_response":"Insufficient funds","created_at":"not-a-date"}`)
	fields, err := DecodeObject(raw)
	if err != nil {
		t.Fatalf("DecodeObject() error = %v", err)
	}

	record := ParseTransaction(fields, raw)

	if record.TxRef != "JHYTERMAX-3-0F0F0F0F" {
		t.Errorf("TxRef = %q", record.TxRef)
	}
	if record.TransactionID != "98765" {
		t.Errorf("TransactionID = %q, want integer id rendered without exponent", record.TransactionID)
	}
	if record.FailureReason() != "Insufficient funds" {
		t.Errorf("FailureReason() = %q", record.FailureReason())
	}
	if record.CreatedAt != nil {
		t.Errorf("CreatedAt = %v, want nil for malformed timestamp", record.CreatedAt)
	}
}

func TestDecodeObject_RejectsNonObject(t *testing.T) {
	t.Parallel()

	for _, in := range []string{`[]`, `null`, `"x"`, `{`} {
		if _, err := DecodeObject([]byte(in)); err == nil {
			t.Errorf("DecodeObject(%s) error = nil", in)
		}
	}
}
