package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"storefront/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationPaymentSuccess NotificationType = "PAYMENT_SUCCESS"
	NotificationPaymentFailed  NotificationType = "PAYMENT_FAILED"
	NotificationOrderConfirmed NotificationType = "ORDER_CONFIRMED"
	NotificationOrderUpdated   NotificationType = "ORDER_UPDATED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type        NotificationType
	RecipientID int64
	Title       string
	Message     string
	Data        map[string]any
	CreatedAt   time.Time
}

// Notifier delivers buyer-facing notifications.
type Notifier interface {
	NotifyPaymentSuccess(ctx context.Context, payment *domain.Payment) error
	NotifyPaymentFailed(ctx context.Context, payment *domain.Payment) error
	NotifyOrderConfirmed(ctx context.Context, orderID, buyerID int64) error
	NotifyOrderUpdated(ctx context.Context, order *domain.Order) error
}

// NotificationService writes notifications to the structured log. It is the
// single place to hook a real delivery channel into.
type NotificationService struct {
	logger *slog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(logger *slog.Logger) *NotificationService {
	return &NotificationService{logger: logger}
}

// NotifyPaymentSuccess notifies the buyer of a successful payment.
func (s *NotificationService) NotifyPaymentSuccess(ctx context.Context, payment *domain.Payment) error {
	return s.send(ctx, Notification{
		Type:        NotificationPaymentSuccess,
		RecipientID: payment.UserID,
		Title:       "Payment Successful",
		Message:     fmt.Sprintf("Payment of %s %s was successful", payment.Currency, payment.Amount.StringFixed(2)),
		Data: map[string]any{
			"payment_id": payment.ID,
			"order_id":   payment.OrderID,
			"tx_ref":     payment.TxRef,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentFailed notifies the buyer of a failed payment.
func (s *NotificationService) NotifyPaymentFailed(ctx context.Context, payment *domain.Payment) error {
	return s.send(ctx, Notification{
		Type:        NotificationPaymentFailed,
		RecipientID: payment.UserID,
		Title:       "Payment Failed",
		Message:     fmt.Sprintf("Payment of %s %s failed. Please try again.", payment.Currency, payment.Amount.StringFixed(2)),
		Data: map[string]any{
			"payment_id":     payment.ID,
			"order_id":       payment.OrderID,
			"tx_ref":         payment.TxRef,
			"failure_reason": payment.FailureReason,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyOrderConfirmed notifies the buyer that the order was confirmed.
func (s *NotificationService) NotifyOrderConfirmed(ctx context.Context, orderID, buyerID int64) error {
	return s.send(ctx, Notification{
		Type:        NotificationOrderConfirmed,
		RecipientID: buyerID,
		Title:       "Order Confirmed",
		Message:     "Your order has been confirmed and will be processed shortly.",
		Data:        map[string]any{"order_id": orderID},
		CreatedAt:   time.Now(),
	})
}

// NotifyOrderUpdated notifies the buyer of an admin status change.
func (s *NotificationService) NotifyOrderUpdated(ctx context.Context, order *domain.Order) error {
	return s.send(ctx, Notification{
		Type:        NotificationOrderUpdated,
		RecipientID: order.BuyerID,
		Title:       "Order Updated",
		Message:     fmt.Sprintf("Order %s is now %s", order.OrderRef, order.Status),
		Data: map[string]any{
			"order_id": order.ID,
			"status":   order.Status,
		},
		CreatedAt: time.Now(),
	})
}

func (s *NotificationService) send(ctx context.Context, n Notification) error {
	s.logger.InfoContext(ctx, "notification",
		slog.String("type", string(n.Type)),
		slog.Int64("recipient_id", n.RecipientID),
		slog.String("title", n.Title),
		slog.String("message", n.Message),
		slog.Any("data", n.Data),
	)
	return nil
}

var _ Notifier = (*NotificationService)(nil)
