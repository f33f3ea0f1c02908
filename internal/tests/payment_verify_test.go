package tests

import (
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/flutterwave"
	"storefront/internal/service"
)

// ──────────────────────────────────────────────
// 2. ACTIVE VERIFICATION
// ──────────────────────────────────────────────

func TestVerifyPayment_NotYetAvailable_LeavesPaymentPending(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	order := f.addPendingOrder()
	payment := f.addPayment(order, "JHYTERMAX-1-0000AAAA", domain.PaymentStatusPending)

	result, err := f.service.VerifyPayment(bg, buyer, payment.TxRef)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.Outcome != service.VerifyStillProcessing {
		t.Errorf("expected VerifyStillProcessing, got %v", result.Outcome)
	}

	stored := f.payments.GetPayment(payment.ID)
	if stored.Status != domain.PaymentStatusPending {
		t.Errorf("expected payment to stay pending, got %s", stored.Status)
	}
	if atomic.LoadInt32(&f.payments.UpdateCallCount) != 0 {
		t.Error("expected no payment writes")
	}
	if f.orders.GetOrder(order.ID).Status != domain.OrderStatusPending {
		t.Error("expected order to stay pending")
	}
}

func TestVerifyPayment_Successful_ConfirmsOrder(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	order := f.addPendingOrder()
	payment := f.addPayment(order, "JHYTERMAX-1-0000BBBB", domain.PaymentStatusPending)
	f.gateway.SetTransaction(gatewayRecord(payment.TxRef, "successful"))

	result, err := f.service.VerifyPayment(bg, buyer, payment.TxRef)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.Outcome != service.VerifyResolved {
		t.Errorf("expected VerifyResolved, got %v", result.Outcome)
	}

	stored := f.payments.GetPayment(payment.ID)
	if stored.Status != domain.PaymentStatusSuccessful {
		t.Fatalf("expected status successful, got %s", stored.Status)
	}
	if stored.PaidAt == nil {
		t.Error("expected paid_at to be set")
	}
	if stored.FlwRef != "FLW-MOCK-"+payment.TxRef {
		t.Errorf("expected flw_ref to be stored, got %q", stored.FlwRef)
	}
	if stored.TransactionID != "4455667" {
		t.Errorf("expected transaction id to be stored, got %q", stored.TransactionID)
	}
	if stored.PaymentMethod != "card" {
		t.Errorf("expected lowercased payment method, got %q", stored.PaymentMethod)
	}
	if f.orders.GetOrder(order.ID).Status != domain.OrderStatusConfirmed {
		t.Error("expected order to be confirmed")
	}
	if atomic.LoadInt32(&f.notifier.PaymentSuccessCount) != 1 {
		t.Errorf("expected 1 success notification, got %d", f.notifier.PaymentSuccessCount)
	}
	if atomic.LoadInt32(&f.notifier.OrderConfirmedCount) != 1 {
		t.Errorf("expected 1 order confirmation notification, got %d", f.notifier.OrderConfirmedCount)
	}
}

func TestVerifyPayment_GatewayStatusMapping(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		gatewayStatus string
		want          domain.PaymentStatus
	}{
		{"successful", domain.PaymentStatusSuccessful},
		{"SUCCESSFUL", domain.PaymentStatusSuccessful},
		{"failed", domain.PaymentStatusFailed},
		{"cancelled", domain.PaymentStatusFailed},
		{"pending", domain.PaymentStatusProcessing},
		{"something-new", domain.PaymentStatusProcessing},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.gatewayStatus, func(t *testing.T) {
			t.Parallel()

			f := newPaymentFixture(t)
			order := f.addPendingOrder()
			payment := f.addPayment(order, "JHYTERMAX-1-0000CCCC", domain.PaymentStatusPending)
			f.gateway.SetTransaction(gatewayRecord(payment.TxRef, tc.gatewayStatus))

			result, err := f.service.VerifyPayment(bg, buyer, payment.TxRef)
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if result.Payment.Status != tc.want {
				t.Errorf("expected %s, got %s", tc.want, result.Payment.Status)
			}
			if tc.want == domain.PaymentStatusFailed && result.Payment.FailureReason == "" {
				t.Error("expected failure reason on failed payment")
			}
		})
	}
}

func TestVerifyPayment_GatewayError_MarksFailed(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	order := f.addPendingOrder()
	payment := f.addPayment(order, "JHYTERMAX-1-0000DDDD", domain.PaymentStatusPending)
	f.gateway.QueryError = &flutterwave.Error{
		Kind:   flutterwave.KindUnavailable,
		Op:     "query transaction",
		Detail: "connection refused",
	}

	_, err := f.service.VerifyPayment(bg, buyer, payment.TxRef)
	if !errors.Is(err, flutterwave.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got: %v", err)
	}

	stored := f.payments.GetPayment(payment.ID)
	if stored.Status != domain.PaymentStatusFailed {
		t.Errorf("expected status failed, got %s", stored.Status)
	}
	if stored.FailureReason != "connection refused" {
		t.Errorf("expected failure reason from gateway error, got %q", stored.FailureReason)
	}
	if f.orders.GetOrder(order.ID).Status != domain.OrderStatusPending {
		t.Error("expected order to stay pending")
	}
}

func TestVerifyPayment_GatewayError_KeepsSuccessfulPayment(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	order := f.addPendingOrder()
	payment := f.addPayment(order, "JHYTERMAX-1-0000EEEE", domain.PaymentStatusSuccessful)
	f.gateway.QueryError = &flutterwave.Error{Kind: flutterwave.KindRejected, Op: "query transaction", Detail: "bad key"}

	if _, err := f.service.VerifyPayment(bg, buyer, payment.TxRef); err == nil {
		t.Fatal("expected gateway error to be returned")
	}
	if got := f.payments.GetPayment(payment.ID).Status; got != domain.PaymentStatusSuccessful {
		t.Errorf("expected successful payment to stay successful, got %s", got)
	}
}

func TestVerifyPayment_AccessControl(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		caller  domain.Principal
		txRef   string
		wantErr error
	}{
		{"owner", buyer, "JHYTERMAX-1-0000FFFF", nil},
		{"admin", admin, "JHYTERMAX-1-0000FFFF", nil},
		{"other buyer", otherBuyer, "JHYTERMAX-1-0000FFFF", service.ErrPaymentNotFound},
		{"unknown reference", buyer, "JHYTERMAX-1-DEADBEEF", service.ErrPaymentNotFound},
		{"empty reference", buyer, "   ", service.ErrInvalidTxRef},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newPaymentFixture(t)
			order := f.addPendingOrder()
			f.addPayment(order, "JHYTERMAX-1-0000FFFF", domain.PaymentStatusPending)

			_, err := f.service.VerifyPayment(bg, tc.caller, tc.txRef)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got: %v", tc.wantErr, err)
			}
		})
	}
}

func TestVerifyPayment_Repeated_ConfirmsOrderOnce(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	order := f.addPendingOrder()
	payment := f.addPayment(order, "JHYTERMAX-1-00001111", domain.PaymentStatusPending)
	f.gateway.SetTransaction(gatewayRecord(payment.TxRef, "successful"))

	first, err := f.service.VerifyPayment(bg, buyer, payment.TxRef)
	if err != nil {
		t.Fatalf("first verify: %v", err)
	}
	second, err := f.service.VerifyPayment(bg, buyer, payment.TxRef)
	if err != nil {
		t.Fatalf("second verify: %v", err)
	}

	if !first.Payment.PaidAt.Equal(*second.Payment.PaidAt) {
		t.Errorf("expected paid_at to be set once, got %v then %v", first.Payment.PaidAt, second.Payment.PaidAt)
	}
	if atomic.LoadInt32(&f.orders.ConfirmedCount) != 1 {
		t.Errorf("expected order confirmed once, got %d", f.orders.ConfirmedCount)
	}
	if atomic.LoadInt32(&f.notifier.PaymentSuccessCount) != 1 {
		t.Errorf("expected 1 success notification, got %d", f.notifier.PaymentSuccessCount)
	}
}

// ──────────────────────────────────────────────
// 3. VERIFY AND WEBHOOK RACING
// ──────────────────────────────────────────────

func TestReconcile_ConcurrentVerifyAndWebhook_ConfirmOnce(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	order := f.addPendingOrder()
	payment := f.addPayment(order, "JHYTERMAX-1-00002222", domain.PaymentStatusPending)
	f.gateway.SetTransaction(gatewayRecord(payment.TxRef, "successful"))

	const rounds = 10
	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := f.service.VerifyPayment(bg, buyer, payment.TxRef); err != nil {
				t.Errorf("verify: %v", err)
			}
		}()

		// Distinct bodies so delivery dedup does not short-circuit.
		body := chargePayload(t, service.EventChargeCompleted, payment.TxRef, "successful")
		body = append(body[:len(body)-1], []byte(`,"attempt":`+strconv.Itoa(i)+`}`)...)
		sig := sign(t, body)

		go func() {
			defer wg.Done()
			if _, err := f.service.HandleWebhook(bg, sig, body); err != nil {
				t.Errorf("webhook: %v", err)
			}
		}()
	}
	wg.Wait()

	stored := f.payments.GetPayment(payment.ID)
	if stored.Status != domain.PaymentStatusSuccessful {
		t.Fatalf("expected status successful, got %s", stored.Status)
	}
	if stored.PaidAt == nil {
		t.Error("expected paid_at to be set")
	}
	if got := atomic.LoadInt32(&f.orders.ConfirmedCount); got != 1 {
		t.Errorf("expected order confirmed exactly once, got %d", got)
	}
	if got := atomic.LoadInt32(&f.notifier.PaymentSuccessCount); got != 1 {
		t.Errorf("expected exactly 1 success notification, got %d", got)
	}
	if got := atomic.LoadInt32(&f.notifier.OrderConfirmedCount); got != 1 {
		t.Errorf("expected exactly 1 order confirmation notification, got %d", got)
	}
}
