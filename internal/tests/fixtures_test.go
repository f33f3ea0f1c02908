package tests

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/service"
	"storefront/internal/webhook"
)

const (
	testSecretHash = "test-secret-hash"
	buyerID        = int64(7)
	otherBuyerID   = int64(8)
	adminID        = int64(1)
)

var (
	buyer      = domain.Principal{UserID: buyerID, Role: domain.RoleBuyer}
	otherBuyer = domain.Principal{UserID: otherBuyerID, Role: domain.RoleBuyer}
	admin      = domain.Principal{UserID: adminID, Role: domain.RoleAdmin}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// paymentFixture bundles a PaymentService with the doubles behind it.
type paymentFixture struct {
	payments   *MockPaymentRepository
	orders     *MockOrderRepository
	txRunner   *MockTxRunner
	gateway    *FakeGateway
	locks      *MockLockStore
	deliveries *MockDeliveryStore
	notifier   *MockNotifier
	service    *service.PaymentService
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	f := &paymentFixture{
		payments:   NewMockPaymentRepository(),
		orders:     NewMockOrderRepository(),
		gateway:    NewFakeGateway(),
		locks:      NewMockLockStore(),
		deliveries: NewMockDeliveryStore(),
		notifier:   &MockNotifier{},
	}
	f.txRunner = NewMockTxRunner(f.payments, f.orders)
	f.service = service.NewPaymentService(
		f.payments,
		f.orders,
		f.txRunner,
		f.gateway,
		webhook.NewAuthenticator(testSecretHash, true),
		f.locks,
		f.deliveries,
		f.notifier,
		service.CheckoutSettings{
			Currency:    "NGN",
			RedirectURL: "http://localhost:3000/payment/callback",
			TxRefPrefix: "JHYTERMAX",
			Title:       "Test Checkout",
		},
		discardLogger(),
	)
	return f
}

// addPendingOrder stores a pending order for buyer worth 150.00.
func (f *paymentFixture) addPendingOrder() *domain.Order {
	order := &domain.Order{
		OrderRef:    "ORD-0000AAAA",
		BuyerID:     buyerID,
		Status:      domain.OrderStatusPending,
		TotalAmount: decimal.RequireFromString("150.00"),
	}
	f.orders.AddOrder(order)
	return order
}

// addPayment stores a payment for order in the given status.
func (f *paymentFixture) addPayment(order *domain.Order, txRef string, status domain.PaymentStatus) *domain.Payment {
	payment := &domain.Payment{
		OrderID:  order.ID,
		UserID:   order.BuyerID,
		Amount:   order.TotalAmount,
		Currency: "NGN",
		Status:   status,
		TxRef:    txRef,
		Customer: domain.Customer{Email: "buyer@example.com", Name: "Ada Buyer"},
	}
	f.payments.AddPayment(payment)
	return payment
}

func gatewayRecord(txRef, status string) domain.TransactionRecord {
	createdAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return domain.TransactionRecord{
		TxRef:         txRef,
		Status:        status,
		FlwRef:        "FLW-MOCK-" + txRef,
		TransactionID: "4455667",
		PaymentType:   "Card",
		CreatedAt:     &createdAt,
		Raw:           json.RawMessage(`{"status":"` + status + `"}`),
	}
}

// chargePayload builds a charge.completed webhook body.
func chargePayload(t *testing.T, event, txRef, status string) []byte {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"event": event,
		"data": map[string]any{
			"id":                 4455667,
			"tx_ref":             txRef,
			"flw_ref":            "FLW-MOCK-" + txRef,
			"status":             status,
			"payment_type":       "card",
			"processor_response": "Insufficient funds",
			"created_at":         "2026-03-14T09:30:00.000Z",
		},
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return body
}

func sign(t *testing.T, body []byte) string {
	t.Helper()

	sig, err := webhook.Sign(testSecretHash, body)
	if err != nil {
		t.Fatalf("sign payload: %v", err)
	}
	return sig
}

var bg = context.Background()
