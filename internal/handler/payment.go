package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/service"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// InitiatePaymentRequest is the HTTP request body for starting a checkout.
type InitiatePaymentRequest struct {
	OrderID       int64          `json:"order_id" binding:"required,gt=0"`
	CustomerEmail string         `json:"customer_email" binding:"required,email"`
	CustomerName  string         `json:"customer_name" binding:"required,max=255"`
	CustomerPhone string         `json:"customer_phone" binding:"max=20"`
	PaymentMethod string         `json:"payment_method" binding:"max=20"`
	Metadata      map[string]any `json:"metadata"`
}

// InitiatePaymentResponse is the HTTP response for a started checkout.
type InitiatePaymentResponse struct {
	PaymentID   int64  `json:"payment_id"`
	PaymentLink string `json:"payment_link"`
	TxRef       string `json:"tx_ref"`
}

// VerifyPaymentRequest is the HTTP request body for verifying a payment.
type VerifyPaymentRequest struct {
	TxRef string `json:"tx_ref" binding:"required"`
}

// PendingResponse tells a polling client to retry later.
type PendingResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// PaymentResponse is the HTTP response for payment operations.
type PaymentResponse struct {
	ID            int64          `json:"id"`
	OrderID       int64          `json:"order"`
	UserID        int64          `json:"user"`
	Amount        string         `json:"amount"`
	Currency      string         `json:"currency"`
	Status        string         `json:"status"`
	PaymentMethod string         `json:"payment_method"`
	TxRef         string         `json:"tx_ref"`
	FlwRef        string         `json:"flw_ref"`
	TransactionID string         `json:"transaction_id"`
	CustomerEmail string         `json:"customer_email"`
	CustomerName  string         `json:"customer_name"`
	CustomerPhone string         `json:"customer_phone"`
	Metadata      map[string]any `json:"metadata"`
	FailureReason string         `json:"failure_reason"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	PaidAt        *time.Time     `json:"paid_at"`
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	metadata := p.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return PaymentResponse{
		ID:            p.ID,
		OrderID:       p.OrderID,
		UserID:        p.UserID,
		Amount:        p.Amount.StringFixed(2),
		Currency:      p.Currency,
		Status:        string(p.Status),
		PaymentMethod: p.PaymentMethod,
		TxRef:         p.TxRef,
		FlwRef:        p.FlwRef,
		TransactionID: p.TransactionID,
		CustomerEmail: p.Customer.Email,
		CustomerName:  p.Customer.Name,
		CustomerPhone: p.Customer.Phone,
		Metadata:      metadata,
		FailureReason: p.FailureReason,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		PaidAt:        p.PaidAt,
	}
}

// Initiate handles POST /v1/payments/initiate
func (h *PaymentHandler) Initiate(c *gin.Context) {
	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.paymentService.InitiatePayment(c.Request.Context(), principal(c), service.InitiatePaymentRequest{
		OrderID: req.OrderID,
		Customer: domain.Customer{
			Email: req.CustomerEmail,
			Name:  req.CustomerName,
			Phone: req.CustomerPhone,
		},
		PaymentMethod: req.PaymentMethod,
		Metadata:      req.Metadata,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, InitiatePaymentResponse{
		PaymentID:   result.Payment.ID,
		PaymentLink: result.PaymentLink,
		TxRef:       result.Payment.TxRef,
	})
}

// Verify handles POST /v1/payments/verify
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "tx_ref is required")
		return
	}

	result, err := h.paymentService.VerifyPayment(c.Request.Context(), principal(c), req.TxRef)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Outcome == service.VerifyStillProcessing {
		respondJSON(c, http.StatusAccepted, PendingResponse{
			Status:  "pending",
			Message: "Transaction is being processed. Please check again in a moment.",
		})
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(result.Payment))
}

// GetAll handles GET /v1/payments
func (h *PaymentHandler) GetAll(c *gin.Context) {
	payments, err := h.paymentService.ListPayments(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		response = append(response, toPaymentResponse(p))
	}
	respondJSON(c, http.StatusOK, response)
}

// GetPayment handles GET /v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(payment))
}
