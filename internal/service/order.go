package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

const maxOrderRefAttempts = 3

// OrderService handles order placement and administration.
type OrderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	txRunner     repository.TxRunner
	notifier     Notifier
	logger       *slog.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	txRunner repository.TxRunner,
	notifier Notifier,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		txRunner:     txRunner,
		notifier:     notifier,
		logger:       logger,
	}
}

// OrderItemRequest is one requested product line.
type OrderItemRequest struct {
	ProductID int64
	Quantity  int
}

// CreateOrderRequest contains the parameters for placing an order.
// LocationID is optional; nil or zero means no delivery location.
type CreateOrderRequest struct {
	Items           []OrderItemRequest
	LocationID      *int64
	ShippingAddress string
	Notes           string
}

// CreateOrder places a pending order for the caller. Item prices and the
// delivery fee are taken at this moment and do not follow later changes.
// The total is the item subtotals plus the delivery fee.
func (s *OrderService) CreateOrder(ctx context.Context, caller domain.Principal, req CreateOrderRequest) (*domain.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	order := &domain.Order{
		BuyerID:         caller.UserID,
		Status:          domain.OrderStatusPending,
		ShippingAddress: strings.TrimSpace(req.ShippingAddress),
		Notes:           strings.TrimSpace(req.Notes),
		TotalAmount:     decimal.Zero,
		DeliveryFee:     decimal.Zero,
	}

	if req.LocationID != nil && *req.LocationID != 0 {
		loc, err := s.locationRepo.GetActiveLocation(ctx, *req.LocationID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: %d", ErrInvalidLocation, *req.LocationID)
			}
			return nil, err
		}
		order.DeliveryLocationID = &loc.ID
		order.DeliveryLocationName = loc.Name
		order.DeliveryLocationState = loc.StateName
		order.DeliveryFee = loc.DeliveryFee
	}

	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}

		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: %d", ErrProductNotFound, line.ProductID)
			}
			return nil, err
		}

		item := domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			Price:       product.Price,
		}
		order.Items = append(order.Items, item)
		order.TotalAmount = order.TotalAmount.Add(item.Subtotal())
	}
	order.TotalAmount = order.TotalAmount.Add(order.DeliveryFee)

	var err error
	for attempt := 0; attempt < maxOrderRefAttempts; attempt++ {
		order.OrderRef = NewOrderRef()
		err = s.txRunner.WithinTx(ctx, func(repos repository.TxRepositories) error {
			return repos.Orders.Create(ctx, order)
		})
		if !errors.Is(err, repository.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.logger.InfoContext(ctx, "order created",
		slog.Int64("order_id", order.ID),
		slog.String("order_ref", order.OrderRef),
		slog.String("total", order.TotalAmount.StringFixed(2)),
		slog.String("delivery_fee", order.DeliveryFee.StringFixed(2)),
	)

	return order, nil
}

// GetOrder retrieves an order visible to the caller.
func (s *OrderService) GetOrder(ctx context.Context, caller domain.Principal, id int64) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !caller.CanAccess(order.BuyerID) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders returns the caller's orders, or every order for admins.
func (s *OrderService) ListOrders(ctx context.Context, caller domain.Principal) ([]*domain.Order, error) {
	filter := repository.OrderFilter{}
	if !caller.IsAdmin() {
		filter.BuyerID = caller.UserID
	}
	return s.orderRepo.List(ctx, filter)
}

// UpdateOrderStatus sets an order's status. Admin only.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, caller domain.Principal, id int64, status string) (*domain.Order, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	if !domain.ValidOrderStatus(status) {
		return nil, ErrInvalidOrderStatus
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, domain.OrderStatus(status)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.NotifyOrderUpdated(ctx, order); err != nil {
		s.logger.WarnContext(ctx, "failed to send order notification",
			slog.Int64("order_id", order.ID), slog.String("error", err.Error()))
	}

	return order, nil
}
