package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"storefront/internal/domain"
	"storefront/internal/flutterwave"
	"storefront/internal/redis"
	"storefront/internal/webhook"
)

// EventChargeCompleted is the only webhook event that moves payments.
const EventChargeCompleted = "charge.completed"

// WebhookOutcome describes how a delivery was handled. Every outcome is
// acknowledged to the gateway with a 2xx.
type WebhookOutcome string

const (
	WebhookApplied          WebhookOutcome = "applied"
	WebhookIgnored          WebhookOutcome = "ignored"
	WebhookUnknownReference WebhookOutcome = "unknown_reference"
	WebhookDuplicate        WebhookOutcome = "duplicate"
)

// WebhookResult is the result of handling one delivery.
type WebhookResult struct {
	Outcome WebhookOutcome
	Payment *domain.Payment
}

// HandleWebhook authenticates and applies a gateway webhook delivery. The
// signature is checked before anything else is read from the body.
func (s *PaymentService) HandleWebhook(ctx context.Context, signature string, body []byte) (*WebhookResult, error) {
	if !s.signatures.Allow(body, signature) {
		s.logger.WarnContext(ctx, "webhook signature rejected")
		return nil, ErrInvalidSignature
	}

	payload, err := flutterwave.DecodeObject(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	deliveryKey := s.deliveryKey(body)
	if deliveryKey != "" {
		seen, err := s.deliveries.Seen(ctx, deliveryKey)
		if err != nil {
			s.logger.WarnContext(ctx, "webhook dedup lookup failed", slog.String("error", err.Error()))
		} else if seen {
			return &WebhookResult{Outcome: WebhookDuplicate}, nil
		}
	}

	event, _ := payload["event"].(string)
	if event != EventChargeCompleted {
		s.logger.InfoContext(ctx, "ignored webhook event", slog.String("event", event))
		return &WebhookResult{Outcome: WebhookIgnored}, nil
	}

	data, _ := payload["data"].(map[string]any)
	record := flutterwave.ParseTransaction(data, body)
	if record.TxRef == "" {
		s.logger.InfoContext(ctx, "webhook without tx_ref")
		return &WebhookResult{Outcome: WebhookUnknownReference}, nil
	}

	outcome, err := s.reconcile(ctx, record.TxRef, record, "webhook")
	if errors.Is(err, ErrPaymentNotFound) {
		s.logger.InfoContext(ctx, "webhook for unknown tx_ref", slog.String("tx_ref", record.TxRef))
		return &WebhookResult{Outcome: WebhookUnknownReference}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("apply webhook: %w", err)
	}

	if deliveryKey != "" {
		if err := s.deliveries.Remember(ctx, deliveryKey, redis.DeliveryTTL); err != nil {
			s.logger.WarnContext(ctx, "failed to remember webhook delivery", slog.String("error", err.Error()))
		}
	}

	return &WebhookResult{Outcome: WebhookApplied, Payment: outcome.payment}, nil
}

// deliveryKey identifies a delivery by the hash of its canonical body, so a
// redelivery with different whitespace still matches.
func (s *PaymentService) deliveryKey(body []byte) string {
	canonical, err := webhook.Canonicalize(body)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}
