package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/flutterwave"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// respondError sends an error response with the appropriate HTTP status code.
// Internal errors are logged by the request logger and not echoed to clients.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	_ = c.Error(err)

	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.JSON(code, ErrorResponse{Error: msg, RequestID: middleware.GetRequestID(c)})
}

// respondBadRequest sends a 400 with the given message.
func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, RequestID: middleware.GetRequestID(c)})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrPaymentNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrStateNotFound),
		errors.Is(err, service.ErrLocationNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidOrderID),
		errors.Is(err, service.ErrInvalidTxRef),
		errors.Is(err, service.ErrInvalidCustomer),
		errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidOrderStatus),
		errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrMalformedPayload),
		errors.Is(err, flutterwave.ErrRejected):
		return http.StatusBadRequest

	// Authentication errors
	case errors.Is(err, service.ErrInvalidSignature),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	// Conflict errors
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrOrderNotPayable),
		errors.Is(err, service.ErrPaymentInProgress),
		errors.Is(err, service.ErrCategoryExists),
		errors.Is(err, service.ErrLocationExists),
		errors.Is(err, service.ErrProductInUse):
		return http.StatusConflict

	// Upstream gateway
	case errors.Is(err, flutterwave.ErrUnavailable):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// principal returns the authenticated caller. Routes using it are mounted
// behind RequireAuth, so a missing principal is a wiring bug.
func principal(c *gin.Context) domain.Principal {
	p, _ := middleware.CurrentPrincipal(c)
	return p
}

// paramID parses a positive integer path parameter.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
