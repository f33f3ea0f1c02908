package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// applyTransaction folds one gateway observation into a payment. It is the
// only place payment status changes in response to the gateway, for both
// verify and webhook.
//
// successful is sticky: any later observation that maps elsewhere is
// rejected. failed may still become successful, but no terminal status goes
// back to processing. It returns false when the observation was rejected and
// the payment left untouched.
func applyTransaction(payment *domain.Payment, record domain.TransactionRecord, now time.Time) bool {
	next := record.LocalStatus()

	switch {
	case payment.Status == domain.PaymentStatusSuccessful && next != domain.PaymentStatusSuccessful:
		return false
	case payment.Status.IsTerminal() && next == domain.PaymentStatusProcessing:
		return false
	}

	// Gateway references mirror the latest observation, not history.
	payment.FlwRef = record.FlwRef
	payment.TransactionID = record.TransactionID
	payment.WebhookData = record.Raw

	payment.Status = next

	switch next {
	case domain.PaymentStatusSuccessful:
		if payment.PaidAt == nil {
			paidAt := now
			if record.CreatedAt != nil {
				paidAt = *record.CreatedAt
			}
			payment.PaidAt = &paidAt
		}
		if method := strings.TrimSpace(record.PaymentType); method != "" {
			payment.PaymentMethod = strings.ToLower(method)
		}
		payment.FailureReason = ""
	case domain.PaymentStatusFailed:
		payment.FailureReason = record.FailureReason()
	}

	return true
}

// reconcileOutcome describes what a reconciliation changed.
type reconcileOutcome struct {
	payment        *domain.Payment
	previous       domain.PaymentStatus
	applied        bool
	orderConfirmed bool
}

// transitioned reports whether the payment status actually changed.
func (o reconcileOutcome) transitioned() bool {
	return o.applied && o.payment.Status != o.previous
}

// reconcile applies record to the payment identified by txRef. The payment
// row stays locked from read to commit, and the order confirmation commits
// with it.
func (s *PaymentService) reconcile(ctx context.Context, txRef string, record domain.TransactionRecord, source string) (*reconcileOutcome, error) {
	var outcome reconcileOutcome

	err := s.txRunner.WithinTx(ctx, func(repos repository.TxRepositories) error {
		payment, err := repos.Payments.GetByTxRefForUpdate(ctx, txRef)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		outcome = reconcileOutcome{payment: payment, previous: payment.Status}

		if !applyTransaction(payment, record, s.now().UTC()) {
			s.logger.WarnContext(ctx, "ignored contradictory gateway observation",
				slog.String("tx_ref", txRef),
				slog.String("source", source),
				slog.String("payment_status", string(payment.Status)),
				slog.String("gateway_status", record.Status),
			)
			return nil
		}
		outcome.applied = true

		if err := repos.Payments.Update(ctx, payment); err != nil {
			return err
		}

		if payment.Status == domain.PaymentStatusSuccessful {
			confirmed, err := repos.Orders.ConfirmIfPending(ctx, payment.OrderID)
			if err != nil {
				return err
			}
			outcome.orderConfirmed = confirmed
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if outcome.transitioned() {
		s.logger.InfoContext(ctx, "payment status changed",
			slog.String("tx_ref", txRef),
			slog.String("source", source),
			slog.String("from", string(outcome.previous)),
			slog.String("to", string(outcome.payment.Status)),
			slog.Bool("order_confirmed", outcome.orderConfirmed),
		)
	}

	s.notifyTransition(ctx, &outcome)

	return &outcome, nil
}

// markGatewayFailure records a gateway error on a payment that is not yet
// terminal. A terminal payment is left as is.
func (s *PaymentService) markGatewayFailure(ctx context.Context, txRef string, reason string) error {
	var outcome reconcileOutcome

	err := s.txRunner.WithinTx(ctx, func(repos repository.TxRepositories) error {
		payment, err := repos.Payments.GetByTxRefForUpdate(ctx, txRef)
		if err != nil {
			return err
		}

		outcome = reconcileOutcome{payment: payment, previous: payment.Status}
		if payment.Status.IsTerminal() {
			return nil
		}

		payment.Status = domain.PaymentStatusFailed
		payment.FailureReason = reason
		outcome.applied = true

		return repos.Payments.Update(ctx, payment)
	})
	if err != nil {
		return err
	}

	s.notifyTransition(ctx, &outcome)
	return nil
}

// notifyTransition sends at most one notification per real status change.
func (s *PaymentService) notifyTransition(ctx context.Context, outcome *reconcileOutcome) {
	if !outcome.transitioned() {
		return
	}

	payment := outcome.payment
	var err error
	switch payment.Status {
	case domain.PaymentStatusSuccessful:
		err = s.notifier.NotifyPaymentSuccess(ctx, payment)
		if err == nil && outcome.orderConfirmed {
			err = s.notifier.NotifyOrderConfirmed(ctx, payment.OrderID, payment.UserID)
		}
	case domain.PaymentStatusFailed:
		err = s.notifier.NotifyPaymentFailed(ctx, payment)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "failed to send payment notification",
			slog.String("tx_ref", payment.TxRef), slog.String("error", err.Error()))
	}
}
