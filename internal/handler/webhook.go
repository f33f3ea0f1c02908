package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/service"
)

const (
	signatureHeader = "verif-hash"

	// maxWebhookBody caps the size of a webhook delivery.
	maxWebhookBody = 1 << 20
)

// WebhookHandler receives gateway callbacks.
type WebhookHandler struct {
	paymentService *service.PaymentService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(paymentService *service.PaymentService) *WebhookHandler {
	return &WebhookHandler{paymentService: paymentService}
}

// Handle handles POST /webhook/
//
// Recognised-but-irrelevant events and unknown references are acknowledged
// with 200 so the gateway stops retrying. Only signature failures, malformed
// bodies and storage errors produce non-2xx responses.
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		respondBadRequest(c, "could not read request body")
		return
	}

	result, err := h.paymentService.HandleWebhook(c.Request.Context(), c.GetHeader(signatureHeader), body)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"status":  "success",
		"outcome": result.Outcome,
	})
}
