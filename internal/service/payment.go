package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/flutterwave"
	"storefront/internal/redis"
	"storefront/internal/repository"
)

const maxTxRefAttempts = 3

// Gateway is the payment gateway the service reconciles against.
type Gateway interface {
	InitiateCheckout(ctx context.Context, req flutterwave.CheckoutRequest) (string, error)
	QueryTransactionByRef(ctx context.Context, txRef string) (*domain.TransactionRecord, error)
}

// SignatureChecker decides whether a webhook delivery is authentic.
type SignatureChecker interface {
	Allow(payload []byte, signature string) bool
}

// CheckoutSettings configures hosted checkouts.
type CheckoutSettings struct {
	Currency    string
	RedirectURL string
	TxRefPrefix string
	Title       string
	Logo        string
}

// PaymentService handles checkout initiation and payment reconciliation.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	txRunner    repository.TxRunner
	gateway     Gateway
	signatures  SignatureChecker
	lockStore   redis.LockStoreInterface
	deliveries  redis.DeliveryStoreInterface
	notifier    Notifier
	settings    CheckoutSettings
	logger      *slog.Logger
	now         func() time.Time
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	txRunner repository.TxRunner,
	gateway Gateway,
	signatures SignatureChecker,
	lockStore redis.LockStoreInterface,
	deliveries redis.DeliveryStoreInterface,
	notifier Notifier,
	settings CheckoutSettings,
	logger *slog.Logger,
) *PaymentService {
	if settings.Currency == "" {
		settings.Currency = "NGN"
	}
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		txRunner:    txRunner,
		gateway:     gateway,
		signatures:  signatures,
		lockStore:   lockStore,
		deliveries:  deliveries,
		notifier:    notifier,
		settings:    settings,
		logger:      logger,
		now:         time.Now,
	}
}

// InitiatePaymentRequest contains the parameters for starting a checkout.
type InitiatePaymentRequest struct {
	OrderID       int64
	Customer      domain.Customer
	PaymentMethod string
	Metadata      map[string]any
}

// InitiatePaymentResult is a created payment and its hosted checkout link.
type InitiatePaymentResult struct {
	Payment     *domain.Payment
	PaymentLink string
}

// InitiatePayment creates a pending payment for the caller's order and opens
// a hosted checkout for it. The payment row exists before the gateway is
// called; if the gateway fails the row is marked failed and the error is
// returned.
func (s *PaymentService) InitiatePayment(ctx context.Context, caller domain.Principal, req InitiatePaymentRequest) (*InitiatePaymentResult, error) {
	if req.OrderID <= 0 {
		return nil, ErrInvalidOrderID
	}
	req.Customer.Email = strings.TrimSpace(req.Customer.Email)
	req.Customer.Name = strings.TrimSpace(req.Customer.Name)
	if req.Customer.Email == "" || req.Customer.Name == "" {
		return nil, ErrInvalidCustomer
	}

	order, err := s.orderRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.BuyerID != caller.UserID {
		return nil, ErrForbidden
	}
	if order.Status != domain.OrderStatusPending {
		return nil, ErrOrderNotPayable
	}

	acquired, err := s.lockStore.AcquireCheckoutLock(ctx, order.ID, redis.CheckoutLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire checkout lock: %w", err)
	}
	if !acquired {
		return nil, ErrPaymentInProgress
	}
	defer func() {
		if err := s.lockStore.ReleaseCheckoutLock(context.WithoutCancel(ctx), order.ID); err != nil {
			s.logger.WarnContext(ctx, "failed to release checkout lock",
				slog.Int64("order_id", order.ID), slog.String("error", err.Error()))
		}
	}()

	payment := &domain.Payment{
		OrderID:       order.ID,
		UserID:        order.BuyerID,
		Amount:        order.TotalAmount,
		Currency:      s.settings.Currency,
		Status:        domain.PaymentStatusPending,
		PaymentMethod: strings.ToLower(strings.TrimSpace(req.PaymentMethod)),
		Customer:      req.Customer,
		Metadata:      req.Metadata,
	}

	if err := s.createWithFreshTxRef(ctx, payment); err != nil {
		return nil, err
	}

	link, err := s.gateway.InitiateCheckout(ctx, flutterwave.CheckoutRequest{
		TxRef:       payment.TxRef,
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		RedirectURL: s.settings.RedirectURL,
		Customer:    payment.Customer,
		Title:       s.settings.Title,
		Description: "Payment for order " + order.OrderRef,
		Logo:        s.settings.Logo,
		OrderID:     order.ID,
		OrderRef:    order.OrderRef,
	})
	if err != nil {
		payment.Status = domain.PaymentStatusFailed
		payment.FailureReason = gatewayFailureReason(err)
		if updateErr := s.paymentRepo.Update(context.WithoutCancel(ctx), payment); updateErr != nil {
			s.logger.ErrorContext(ctx, "failed to record checkout failure",
				slog.String("tx_ref", payment.TxRef), slog.String("error", updateErr.Error()))
		}
		s.logger.WarnContext(ctx, "checkout initiation failed",
			slog.String("tx_ref", payment.TxRef),
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("initiate checkout: %w", err)
	}

	s.logger.InfoContext(ctx, "checkout initiated",
		slog.String("tx_ref", payment.TxRef),
		slog.Int64("payment_id", payment.ID),
		slog.Int64("order_id", order.ID),
	)

	return &InitiatePaymentResult{Payment: payment, PaymentLink: link}, nil
}

// createWithFreshTxRef inserts the payment, drawing a new reference if the
// random suffix collides with an existing one.
func (s *PaymentService) createWithFreshTxRef(ctx context.Context, payment *domain.Payment) error {
	var err error
	for attempt := 0; attempt < maxTxRefAttempts; attempt++ {
		payment.TxRef = NewTxRef(s.settings.TxRefPrefix, payment.OrderID)
		err = s.paymentRepo.Create(ctx, payment)
		if !errors.Is(err, repository.ErrDuplicate) {
			return err
		}
	}
	return fmt.Errorf("allocate tx_ref: %w", err)
}

// GetPayment retrieves a payment visible to the caller.
func (s *PaymentService) GetPayment(ctx context.Context, caller domain.Principal, id int64) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	// Buyers do not learn whether other buyers' payments exist.
	if !caller.CanAccess(payment.UserID) {
		return nil, ErrPaymentNotFound
	}

	return payment, nil
}

// ListPayments returns the caller's payments, or every payment for admins.
func (s *PaymentService) ListPayments(ctx context.Context, caller domain.Principal) ([]*domain.Payment, error) {
	filter := repository.PaymentFilter{}
	if !caller.IsAdmin() {
		filter.UserID = caller.UserID
	}
	return s.paymentRepo.List(ctx, filter)
}

func gatewayFailureReason(err error) string {
	var gwErr *flutterwave.Error
	if errors.As(err, &gwErr) && gwErr.Detail != "" {
		return gwErr.Detail
	}
	return err.Error()
}
