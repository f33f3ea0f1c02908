package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/service"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// OrderItemInput is one line of a CreateOrderRequest.
type OrderItemInput struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest is the HTTP request body for placing an order.
// detailed_address is accepted as an alias of shipping_address.
type CreateOrderRequest struct {
	Items           []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	LocationID      *int64           `json:"location_id"`
	ShippingAddress string           `json:"shipping_address"`
	DetailedAddress string           `json:"detailed_address"`
	Notes           string           `json:"notes"`
}

// UpdateOrderStatusRequest is the HTTP request body for an admin status change.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderItemResponse is one line of an OrderResponse.
type OrderItemResponse struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
	Subtotal    string `json:"subtotal"`
}

// OrderResponse is the HTTP response for an order.
type OrderResponse struct {
	ID              int64               `json:"id"`
	OrderRef        string              `json:"order_id"`
	BuyerID         int64               `json:"buyer"`
	Status          string              `json:"status"`
	TotalAmount     string              `json:"total_amount"`
	ShippingAddress string              `json:"shipping_address"`
	Notes           string              `json:"notes"`
	Items           []OrderItemResponse `json:"items"`

	DeliveryLocationID    *int64 `json:"delivery_location"`
	DeliveryLocationName  string `json:"delivery_location_name"`
	DeliveryLocationState string `json:"delivery_location_state"`
	DeliveryFee           string `json:"delivery_fee"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toOrderResponse(o *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price.StringFixed(2),
			Subtotal:    it.Subtotal().StringFixed(2),
		})
	}

	return OrderResponse{
		ID:              o.ID,
		OrderRef:        o.OrderRef,
		BuyerID:         o.BuyerID,
		Status:          string(o.Status),
		TotalAmount:     o.TotalAmount.StringFixed(2),
		ShippingAddress: o.ShippingAddress,
		Notes:           o.Notes,
		Items:           items,

		DeliveryLocationID:    o.DeliveryLocationID,
		DeliveryLocationName:  o.DeliveryLocationName,
		DeliveryLocationState: o.DeliveryLocationState,
		DeliveryFee:           o.DeliveryFee.StringFixed(2),

		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// Create handles POST /v1/orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	items := make([]service.OrderItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.OrderItemRequest{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	address := req.ShippingAddress
	if address == "" {
		address = req.DetailedAddress
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), principal(c), service.CreateOrderRequest{
		Items:           items,
		LocationID:      req.LocationID,
		ShippingAddress: address,
		Notes:           req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toOrderResponse(order))
}

// GetAll handles GET /v1/orders
func (h *OrderHandler) GetAll(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	respondJSON(c, http.StatusOK, response)
}

// Get handles GET /v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOrderResponse(order))
}

// UpdateStatus handles PATCH /v1/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "status is required")
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), principal(c), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOrderResponse(order))
}
