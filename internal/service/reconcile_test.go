package service

import (
	"encoding/json"
	"testing"
	"time"

	"storefront/internal/domain"
)

var (
	observedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	appliedAt  = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
)

func record(status string) domain.TransactionRecord {
	createdAt := observedAt
	return domain.TransactionRecord{
		TxRef:         "JHYTERMAX-1-0000AAAA",
		Status:        status,
		FlwRef:        "FLW-MOCK-1",
		TransactionID: "991",
		PaymentType:   "BankTransfer",
		CreatedAt:     &createdAt,
		Raw:           json.RawMessage(`{"status":"` + status + `"}`),
	}
}

func TestApplyTransaction_Transitions(t *testing.T) {
	t.Parallel()

	statuses := []domain.PaymentStatus{
		domain.PaymentStatusPending,
		domain.PaymentStatusProcessing,
		domain.PaymentStatusSuccessful,
		domain.PaymentStatusFailed,
		domain.PaymentStatusCancelled,
	}
	observations := []string{"successful", "failed", "cancelled", "pending", "weird"}

	for _, from := range statuses {
		for _, obs := range observations {
			from, obs := from, obs
			t.Run(string(from)+"+"+obs, func(t *testing.T) {
				t.Parallel()

				p := &domain.Payment{Status: from, TxRef: "JHYTERMAX-1-0000AAAA"}
				rec := record(obs)
				next := rec.LocalStatus()

				applied := applyTransaction(p, rec, appliedAt)

				wantApplied := true
				if from == domain.PaymentStatusSuccessful && next != domain.PaymentStatusSuccessful {
					wantApplied = false
				}
				if from.IsTerminal() && next == domain.PaymentStatusProcessing {
					wantApplied = false
				}

				if applied != wantApplied {
					t.Fatalf("applied = %v, want %v", applied, wantApplied)
				}
				if !applied {
					if p.Status != from {
						t.Errorf("rejected observation changed status to %s", p.Status)
					}
					return
				}

				if p.Status != next {
					t.Errorf("status = %s, want %s", p.Status, next)
				}
				if p.Status == domain.PaymentStatusSuccessful && p.PaidAt == nil {
					t.Error("successful payment without paid_at")
				}
				if p.Status == domain.PaymentStatusFailed && p.FailureReason == "" {
					t.Error("failed payment without failure reason")
				}
			})
		}
	}
}

func TestApplyTransaction_PaidAtPrefersGatewayTimeAndIsSetOnce(t *testing.T) {
	t.Parallel()

	p := &domain.Payment{Status: domain.PaymentStatusPending}
	if !applyTransaction(p, record("successful"), appliedAt) {
		t.Fatal("expected observation to apply")
	}
	if !p.PaidAt.Equal(observedAt) {
		t.Errorf("paid_at = %v, want gateway time %v", p.PaidAt, observedAt)
	}

	later := record("successful")
	laterTime := observedAt.Add(time.Hour)
	later.CreatedAt = &laterTime
	applyTransaction(p, later, appliedAt.Add(time.Hour))

	if !p.PaidAt.Equal(observedAt) {
		t.Errorf("paid_at moved to %v", p.PaidAt)
	}
}

func TestApplyTransaction_PaidAtFallsBackToNow(t *testing.T) {
	t.Parallel()

	p := &domain.Payment{Status: domain.PaymentStatusPending}
	rec := record("successful")
	rec.CreatedAt = nil

	applyTransaction(p, rec, appliedAt)

	if p.PaidAt == nil || !p.PaidAt.Equal(appliedAt) {
		t.Errorf("paid_at = %v, want %v", p.PaidAt, appliedAt)
	}
}

func TestApplyTransaction_FailureReason(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name              string
		processorResponse string
		want              string
	}{
		{"processor response", "Insufficient funds", "Insufficient funds"},
		{"no processor response", "", domain.DefaultFailureReason},
		{"blank processor response", "   ", domain.DefaultFailureReason},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := &domain.Payment{Status: domain.PaymentStatusPending}
			rec := record("failed")
			rec.ProcessorResponse = tc.processorResponse

			applyTransaction(p, rec, appliedAt)

			if p.FailureReason != tc.want {
				t.Errorf("failure_reason = %q, want %q", p.FailureReason, tc.want)
			}
		})
	}
}

func TestApplyTransaction_FailedThenSuccessfulClearsReason(t *testing.T) {
	t.Parallel()

	p := &domain.Payment{Status: domain.PaymentStatusFailed, FailureReason: "Declined"}

	if !applyTransaction(p, record("successful"), appliedAt) {
		t.Fatal("expected late success to apply")
	}
	if p.Status != domain.PaymentStatusSuccessful {
		t.Errorf("status = %s, want successful", p.Status)
	}
	if p.FailureReason != "" {
		t.Errorf("failure_reason = %q, want empty", p.FailureReason)
	}
	if p.PaymentMethod != "banktransfer" {
		t.Errorf("payment_method = %q, want banktransfer", p.PaymentMethod)
	}
}

func TestApplyTransaction_ReferencesMirrorLatestRecord(t *testing.T) {
	t.Parallel()

	p := &domain.Payment{
		Status:        domain.PaymentStatusProcessing,
		FlwRef:        "FLW-EXISTING",
		TransactionID: "123",
		WebhookData:   json.RawMessage(`{"old":true}`),
	}
	rec := record("successful")

	applyTransaction(p, rec, appliedAt)

	if p.FlwRef != rec.FlwRef || p.TransactionID != rec.TransactionID {
		t.Errorf("references not replaced: flw_ref=%q transaction_id=%q", p.FlwRef, p.TransactionID)
	}
	if string(p.WebhookData) != string(rec.Raw) {
		t.Errorf("webhook_data = %s, want %s", p.WebhookData, rec.Raw)
	}
}

func TestApplyTransaction_Idempotent(t *testing.T) {
	t.Parallel()

	for _, obs := range []string{"successful", "failed", "pending"} {
		obs := obs
		t.Run(obs, func(t *testing.T) {
			t.Parallel()

			once := &domain.Payment{Status: domain.PaymentStatusPending}
			applyTransaction(once, record(obs), appliedAt)

			twice := &domain.Payment{Status: domain.PaymentStatusPending}
			applyTransaction(twice, record(obs), appliedAt)
			applyTransaction(twice, record(obs), appliedAt.Add(time.Minute))

			if once.Status != twice.Status || once.FailureReason != twice.FailureReason {
				t.Errorf("second application changed result: %+v vs %+v", once, twice)
			}
			if (once.PaidAt == nil) != (twice.PaidAt == nil) ||
				(once.PaidAt != nil && !once.PaidAt.Equal(*twice.PaidAt)) {
				t.Errorf("paid_at differs: %v vs %v", once.PaidAt, twice.PaidAt)
			}
		})
	}
}

func TestNewTxRef_DefaultPrefix(t *testing.T) {
	t.Parallel()

	ref := NewTxRef("", 12)
	if len(ref) != len("JHYTERMAX-12-")+8 || ref[:13] != "JHYTERMAX-12-" {
		t.Errorf("unexpected tx_ref %q", ref)
	}
}
