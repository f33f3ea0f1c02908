package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/flutterwave"
	"storefront/internal/repository"
)

// VerifyOutcome tells a polling client what to do next.
type VerifyOutcome int

const (
	// VerifyResolved means the gateway's transaction was applied.
	VerifyResolved VerifyOutcome = iota
	// VerifyStillProcessing means the gateway has no transaction yet and the
	// payment was left untouched. Clients should retry later.
	VerifyStillProcessing
)

// VerifyResult is the payment after an active verification.
type VerifyResult struct {
	Payment *domain.Payment
	Outcome VerifyOutcome
}

// VerifyPayment asks the gateway for the transaction behind txRef and applies
// it to the payment.
func (s *PaymentService) VerifyPayment(ctx context.Context, caller domain.Principal, txRef string) (*VerifyResult, error) {
	txRef = strings.TrimSpace(txRef)
	if txRef == "" {
		return nil, ErrInvalidTxRef
	}

	payment, err := s.paymentRepo.GetByTxRef(ctx, txRef)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if !caller.CanAccess(payment.UserID) {
		return nil, ErrPaymentNotFound
	}

	record, err := s.gateway.QueryTransactionByRef(ctx, txRef)
	if errors.Is(err, flutterwave.ErrNotYetAvailable) {
		s.logger.InfoContext(ctx, "transaction not yet available", slog.String("tx_ref", txRef))
		return &VerifyResult{Payment: payment, Outcome: VerifyStillProcessing}, nil
	}
	if err != nil {
		s.logger.WarnContext(ctx, "payment verification failed",
			slog.String("tx_ref", txRef),
			slog.Bool("timeout", flutterwave.IsTimeout(err)),
			slog.String("error", err.Error()),
		)
		if markErr := s.markGatewayFailure(context.WithoutCancel(ctx), txRef, gatewayFailureReason(err)); markErr != nil {
			s.logger.ErrorContext(ctx, "failed to record verification failure",
				slog.String("tx_ref", txRef), slog.String("error", markErr.Error()))
		}
		return nil, fmt.Errorf("verify payment: %w", err)
	}

	outcome, err := s.reconcile(ctx, txRef, *record, "verify")
	if err != nil {
		return nil, err
	}

	return &VerifyResult{Payment: outcome.payment, Outcome: VerifyResolved}, nil
}
