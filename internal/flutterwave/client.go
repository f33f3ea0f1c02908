// Package flutterwave is the outbound adapter for the Flutterwave v3 API.
// It holds no state beyond its credentials.
package flutterwave

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

const (
	defaultBaseURL = "https://api.flutterwave.com"
	defaultTimeout = 30 * time.Second

	// DefaultPaymentOptions is offered on the hosted checkout page.
	DefaultPaymentOptions = "card,banktransfer,ussd,mobilemoney"

	// Cap on response bodies read from the gateway.
	maxResponseBytes = 1 << 20
)

// Client talks to the Flutterwave API.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient creates a Client. A nil httpClient gets a 30s timeout and a New
// Relic round tripper so gateway calls appear as external segments.
func NewClient(baseURL, secretKey string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   defaultTimeout,
			Transport: newrelic.NewRoundTripper(http.DefaultTransport),
		}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		httpClient: httpClient,
	}
}

// CheckoutRequest describes a hosted checkout to open for an order.
type CheckoutRequest struct {
	TxRef          string
	Amount         decimal.Decimal
	Currency       string
	RedirectURL    string
	PaymentOptions string
	Customer       domain.Customer
	Title          string
	Description    string
	Logo           string
	OrderID        int64
	OrderRef       string
}

type checkoutBody struct {
	TxRef          string          `json:"tx_ref"`
	Amount         string          `json:"amount"`
	Currency       string          `json:"currency"`
	RedirectURL    string          `json:"redirect_url"`
	PaymentOptions string          `json:"payment_options"`
	Customer       checkoutPayer   `json:"customer"`
	Customizations checkoutDisplay `json:"customizations"`
	Meta           checkoutMeta    `json:"meta"`
}

type checkoutPayer struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

type checkoutDisplay struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
}

type checkoutMeta struct {
	OrderID  int64  `json:"order_id"`
	OrderRef string `json:"order_ref"`
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// InitiateCheckout opens a hosted checkout and returns its link.
func (c *Client) InitiateCheckout(ctx context.Context, req CheckoutRequest) (string, error) {
	const op = "initiate checkout"

	options := req.PaymentOptions
	if options == "" {
		options = DefaultPaymentOptions
	}

	body, err := json.Marshal(checkoutBody{
		TxRef:          req.TxRef,
		Amount:         req.Amount.StringFixed(2),
		Currency:       req.Currency,
		RedirectURL:    req.RedirectURL,
		PaymentOptions: options,
		Customer: checkoutPayer{
			Email:       req.Customer.Email,
			Name:        req.Customer.Name,
			PhoneNumber: req.Customer.Phone,
		},
		Customizations: checkoutDisplay{
			Title:       req.Title,
			Description: req.Description,
			Logo:        req.Logo,
		},
		Meta: checkoutMeta{
			OrderID:  req.OrderID,
			OrderRef: req.OrderRef,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode checkout request: %w", err)
	}

	env, err := c.do(ctx, op, http.MethodPost, "/v3/payments", body)
	if err != nil {
		return "", err
	}

	var data struct {
		Link string `json:"link"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Link == "" {
		return "", rejected(op, "response did not include a checkout link")
	}

	return data.Link, nil
}

// QueryTransactionByRef looks up the transaction for a reference. It returns
// ErrNotYetAvailable when the gateway has not indexed one yet. When several
// are returned the first is used.
func (c *Client) QueryTransactionByRef(ctx context.Context, txRef string) (*domain.TransactionRecord, error) {
	const op = "query transaction"

	path := "/v3/transactions?" + url.Values{"tx_ref": {txRef}}.Encode()

	env, err := c.do(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var list []json.RawMessage
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &list); err != nil {
			return nil, rejected(op, "unexpected transaction list format")
		}
	}
	if len(list) == 0 {
		return nil, ErrNotYetAvailable
	}

	fields, err := DecodeObject(list[0])
	if err != nil {
		return nil, rejected(op, "unexpected transaction format")
	}

	record := ParseTransaction(fields, list[0])
	return &record, nil
}

// do sends an authenticated request and returns the decoded envelope of a
// successful response.
func (c *Client) do(ctx context.Context, op, method, path string, body []byte) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, unavailable(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, unavailable(op, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, unavailable(op, fmt.Errorf("gateway returned HTTP %d", resp.StatusCode))
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= http.StatusBadRequest {
		detail := fmt.Sprintf("gateway returned HTTP %d", resp.StatusCode)
		if decodeErr == nil && env.Message != "" {
			detail = env.Message
		}
		return nil, rejected(op, detail)
	}

	if decodeErr != nil {
		return nil, rejected(op, "malformed gateway response")
	}

	if !strings.EqualFold(env.Status, "success") {
		detail := env.Message
		if detail == "" {
			detail = fmt.Sprintf("gateway reported status %q", env.Status)
		}
		return nil, rejected(op, detail)
	}

	return &env, nil
}

// IsTimeout reports whether a gateway error was caused by the client timeout
// or context deadline.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
