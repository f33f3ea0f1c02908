package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/flutterwave"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/service"
)

// ──────────────────────────────────────────────
// 7. HTTP API
// ──────────────────────────────────────────────

func init() {
	gin.SetMode(gin.TestMode)
}

type apiFixture struct {
	*paymentFixture
	products   *MockProductRepository
	categories *MockCategoryRepository
	locations  *MockLocationRepository
	router     http.Handler
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	return newAPIFixtureWith(t, nil)
}

// newAPIFixtureWith lets a test adjust the router dependencies before the
// router is built.
func newAPIFixtureWith(t *testing.T, configure func(*app.RouterDeps)) *apiFixture {
	t.Helper()

	f := &apiFixture{
		paymentFixture: newPaymentFixture(t),
		products:       NewMockProductRepository(),
		categories:     NewMockCategoryRepository(),
		locations:      NewMockLocationRepository(),
	}
	users := NewMockUserRepository()
	auth := service.NewAuthService(users, testJWTSecret, time.Hour)
	catalog := service.NewProductService(f.products, f.categories)
	orders := service.NewOrderService(f.orders, f.products, f.locations, f.txRunner, f.notifier, discardLogger())
	locations := service.NewLocationService(f.locations, NewMockLocationCache(), discardLogger())

	deps := app.RouterDeps{
		UserHandler:     handler.NewUserHandler(auth),
		ProductHandler:  handler.NewProductHandler(catalog),
		CategoryHandler: handler.NewCategoryHandler(catalog),
		LocationHandler: handler.NewLocationHandler(locations),
		OrderHandler:    handler.NewOrderHandler(orders),
		PaymentHandler:  handler.NewPaymentHandler(f.service),
		WebhookHandler:  handler.NewWebhookHandler(f.service),
		TokenParser:     auth,
		Logger:          discardLogger(),
	}
	if configure != nil {
		configure(&deps)
	}
	f.router = app.NewRouter(deps)
	return f
}

func tokenFor(t *testing.T, p domain.Principal) string {
	t.Helper()

	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": string(p.Role),
		"sub":  strconv.FormatInt(p.UserID, 10),
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	}).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func (f *apiFixture) do(t *testing.T, method, path string, caller *domain.Principal, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if caller != nil {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, *caller))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func initiateBody(orderID int64) map[string]any {
	return map[string]any{
		"order_id":       orderID,
		"customer_email": "buyer@example.com",
		"customer_name":  "Ada Buyer",
	}
}

func TestAPI_Initiate_Created(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	order := f.addPendingOrder()

	rec := f.do(t, http.MethodPost, "/v1/payments/initiate", &buyer, initiateBody(order.ID), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp handler.InitiatePaymentResponse
	decode(t, rec, &resp)
	if resp.PaymentID == 0 || resp.PaymentLink == "" || !txRefPattern.MatchString(resp.TxRef) {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestAPI_Initiate_StatusCodes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		caller     *domain.Principal
		body       func(orderID int64) any
		gatewayErr error
		wantCode   int
	}{
		{
			name:     "no token",
			caller:   nil,
			body:     func(id int64) any { return initiateBody(id) },
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "other buyer",
			caller:   &otherBuyer,
			body:     func(id int64) any { return initiateBody(id) },
			wantCode: http.StatusForbidden,
		},
		{
			name:     "missing customer email",
			caller:   &buyer,
			body:     func(id int64) any { return map[string]any{"order_id": id, "customer_name": "Ada"} },
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown order",
			caller:   &buyer,
			body:     func(int64) any { return initiateBody(999) },
			wantCode: http.StatusNotFound,
		},
		{
			name:       "gateway unavailable",
			caller:     &buyer,
			body:       func(id int64) any { return initiateBody(id) },
			gatewayErr: &flutterwave.Error{Kind: flutterwave.KindUnavailable, Op: "initiate checkout", Detail: "timeout"},
			wantCode:   http.StatusBadGateway,
		},
		{
			name:       "gateway rejected",
			caller:     &buyer,
			body:       func(id int64) any { return initiateBody(id) },
			gatewayErr: &flutterwave.Error{Kind: flutterwave.KindRejected, Op: "initiate checkout", Detail: "Invalid amount"},
			wantCode:   http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newAPIFixture(t)
			f.gateway.CheckoutError = tc.gatewayErr
			order := f.addPendingOrder()

			rec := f.do(t, http.MethodPost, "/v1/payments/initiate", tc.caller, tc.body(order.ID), nil)
			if rec.Code != tc.wantCode {
				t.Errorf("expected %d, got %d: %s", tc.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAPI_Verify_PendingThenResolved(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	order := f.addPendingOrder()
	payment := f.addPayment(order, "JHYTERMAX-1-0000A1B2", domain.PaymentStatusPending)

	rec := f.do(t, http.MethodPost, "/v1/payments/verify", &buyer, map[string]string{"tx_ref": payment.TxRef}, nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var pending handler.PendingResponse
	decode(t, rec, &pending)
	if pending.Status != "pending" || pending.Message == "" {
		t.Errorf("unexpected pending response %+v", pending)
	}

	f.gateway.SetTransaction(gatewayRecord(payment.TxRef, "successful"))

	rec = f.do(t, http.MethodPost, "/v1/payments/verify", &buyer, map[string]string{"tx_ref": payment.TxRef}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp handler.PaymentResponse
	decode(t, rec, &resp)
	if resp.Status != "successful" || resp.PaidAt == nil || resp.Amount != "150.00" {
		t.Errorf("unexpected payment response %+v", resp)
	}
}

func TestAPI_Verify_MissingTxRef(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	rec := f.do(t, http.MethodPost, "/v1/payments/verify", &buyer, map[string]string{}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestAPI_GetPayment_HiddenFromOtherBuyers(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	order := f.addPendingOrder()
	payment := f.addPayment(order, "JHYTERMAX-1-0000C3D4", domain.PaymentStatusPending)
	path := "/v1/payments/" + strconv.FormatInt(payment.ID, 10)

	if rec := f.do(t, http.MethodGet, path, &buyer, nil, nil); rec.Code != http.StatusOK {
		t.Errorf("owner: expected 200, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, path, &admin, nil, nil); rec.Code != http.StatusOK {
		t.Errorf("admin: expected 200, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, path, &otherBuyer, nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("other buyer: expected 404, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/v1/payments/abc", &buyer, nil, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id: expected 400, got %d", rec.Code)
	}
}

func TestAPI_Webhook(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	order := f.addPendingOrder()
	payment := f.addPayment(order, "JHYTERMAX-1-0000E5F6", domain.PaymentStatusPending)

	body := chargePayload(t, service.EventChargeCompleted, payment.TxRef, "successful")

	rec := f.do(t, http.MethodPost, "/webhook/", nil, body, map[string]string{"verif-hash": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad signature: expected 401, got %d", rec.Code)
	}
	if f.payments.GetPayment(payment.ID).Status != domain.PaymentStatusPending {
		t.Fatal("expected payment untouched after bad signature")
	}

	rec = f.do(t, http.MethodPost, "/webhook/", nil, body, map[string]string{"verif-hash": sign(t, body)})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var ack struct {
		Status  string `json:"status"`
		Outcome string `json:"outcome"`
	}
	decode(t, rec, &ack)
	if ack.Status != "success" || ack.Outcome != string(service.WebhookApplied) {
		t.Errorf("unexpected ack %+v", ack)
	}
	if f.orders.GetOrder(order.ID).Status != domain.OrderStatusConfirmed {
		t.Error("expected order to be confirmed")
	}

	unknown := chargePayload(t, service.EventChargeCompleted, "JHYTERMAX-5-FFFFFFFF", "successful")
	rec = f.do(t, http.MethodPost, "/webhook/", nil, unknown, map[string]string{"verif-hash": sign(t, unknown)})
	if rec.Code != http.StatusOK {
		t.Errorf("unknown reference: expected 200, got %d", rec.Code)
	}

	malformed := []byte(`"just a string"`)
	rec = f.do(t, http.MethodPost, "/webhook/", nil, malformed, map[string]string{"verif-hash": sign(t, malformed)})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed: expected 400, got %d", rec.Code)
	}
}

func TestAPI_OrdersAndProducts(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/products", &buyer, map[string]any{"name": "Hat", "price": "12.00"}, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("buyer creating product: expected 403, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/v1/products", &admin, map[string]any{"name": "Hat", "price": "12.00"}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin creating product: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var product struct {
		ID int64 `json:"id"`
	}
	decode(t, rec, &product)

	rec = f.do(t, http.MethodPost, "/v1/orders", &buyer, map[string]any{
		"items": []map[string]any{{"product_id": product.ID, "quantity": 2}},
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create order: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var order handler.OrderResponse
	decode(t, rec, &order)
	if order.TotalAmount != "24.00" || order.Status != "pending" {
		t.Errorf("unexpected order %+v", order)
	}

	path := "/v1/orders/" + strconv.FormatInt(order.ID, 10)
	if rec := f.do(t, http.MethodGet, path, &otherBuyer, nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("other buyer: expected 404, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPatch, path+"/status", &buyer, map[string]string{"status": "shipped"}, nil); rec.Code != http.StatusForbidden {
		t.Errorf("buyer status change: expected 403, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPatch, path+"/status", &admin, map[string]string{"status": "shipped"}, nil); rec.Code != http.StatusOK {
		t.Errorf("admin status change: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAPI_Health(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/health", nil, nil, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected request id header")
	}
}

func TestAPI_IdempotencyOnlyOnCreateRoutes(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		seen = map[string]int{}
	)
	f := newAPIFixtureWith(t, func(deps *app.RouterDeps) {
		deps.Idempotency = func(c *gin.Context) {
			mu.Lock()
			seen[c.FullPath()]++
			mu.Unlock()
			c.Next()
		}
	})
	order := f.addPendingOrder()
	key := map[string]string{"Idempotency-Key": "retry-1"}

	if rec := f.do(t, http.MethodPost, "/v1/payments/initiate", &buyer, initiateBody(order.ID), key); rec.Code != http.StatusCreated {
		t.Fatalf("initiate: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	f.do(t, http.MethodGet, "/v1/payments", &buyer, nil, nil)
	for i := 0; i < 2; i++ {
		if rec := f.do(t, http.MethodPost, "/v1/payments/verify", &buyer, map[string]string{"tx_ref": "JHYTERMAX-1-00000000"}, key); rec.Code == http.StatusCreated {
			t.Fatalf("verify answered like initiate: %s", rec.Body.String())
		}
	}
	f.do(t, http.MethodPost, "/v1/orders", &buyer, map[string]any{
		"items": []map[string]any{{"product_id": 1, "quantity": 1}},
	}, key)

	mu.Lock()
	defer mu.Unlock()
	if seen["/v1/payments/initiate"] != 1 || seen["/v1/orders"] != 1 {
		t.Errorf("expected create routes to pass through idempotency, got %v", seen)
	}
	if n := seen["/v1/payments/verify"]; n != 0 {
		t.Errorf("expected verify to bypass idempotency, it was wrapped %d times", n)
	}
	if n := seen["/v1/payments"]; n != 0 {
		t.Errorf("expected reads to bypass idempotency, it was wrapped %d times", n)
	}
}

func TestAPI_WebhookDefaultLimitAbsorbsRetryBurst(t *testing.T) {
	t.Parallel()

	limits := config.Load().RateLimit
	f := newAPIFixtureWith(t, func(deps *app.RouterDeps) {
		deps.WebhookLimiter = middleware.NewRateLimiter(limits.WebhookPerSecond, limits.WebhookBurst)
	})

	// Every request comes from the same test client address, as a gateway
	// replaying a backlog would.
	for i := 0; i < 300; i++ {
		body := chargePayload(t, service.EventChargeCompleted, "JHYTERMAX-9-"+strconv.Itoa(10000000+i), "successful")
		rec := f.do(t, http.MethodPost, "/webhook/", nil, body, map[string]string{"verif-hash": sign(t, body)})
		if rec.Code == http.StatusTooManyRequests {
			t.Fatalf("delivery %d rejected by the webhook limiter", i)
		}
	}
}

func TestAPI_StatesAndLocations(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	lagos := f.locations.AddState("Lagos", "LA", true)
	abuja := f.locations.AddState("FCT", "FC", true)
	f.locations.AddState("Kano", "KN", false)
	lekki := f.locations.AddLocation(lagos, "Lekki", "1500.00", true)
	f.locations.AddLocation(abuja, "Wuse", "2000.00", true)

	rec := f.do(t, http.MethodGet, "/v1/states", nil, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("states: expected 200, got %d", rec.Code)
	}
	var states []handler.StateResponse
	decode(t, rec, &states)
	if len(states) != 2 || states[0].Name != "FCT" {
		t.Errorf("expected active states ordered by name, got %+v", states)
	}

	rec = f.do(t, http.MethodGet, "/v1/locations?state_id="+strconv.FormatInt(lagos, 10), nil, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("locations: expected 200, got %d", rec.Code)
	}
	var locations []handler.LocationResponse
	decode(t, rec, &locations)
	if len(locations) != 1 || locations[0].ID != lekki || locations[0].DeliveryFee != "1500.00" || locations[0].State.Code != "LA" {
		t.Errorf("unexpected locations %+v", locations)
	}

	rec = f.do(t, http.MethodGet, "/v1/locations", nil, nil, nil)
	decode(t, rec, &locations)
	if len(locations) != 2 {
		t.Errorf("expected every active location without a filter, got %d", len(locations))
	}

	for _, bad := range []string{"abc", "0", "-3"} {
		if rec := f.do(t, http.MethodGet, "/v1/locations?state_id="+bad, nil, nil, nil); rec.Code != http.StatusBadRequest {
			t.Errorf("state_id=%s: expected 400, got %d", bad, rec.Code)
		}
	}
	if rec := f.do(t, http.MethodGet, "/v1/locations/404", nil, nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown location: expected 404, got %d", rec.Code)
	}

	body := map[string]any{"state_id": lagos, "name": "Ajah", "delivery_fee": "1200"}
	if rec := f.do(t, http.MethodPost, "/v1/locations", &buyer, body, nil); rec.Code != http.StatusForbidden {
		t.Errorf("buyer creating location: expected 403, got %d", rec.Code)
	}
	rec = f.do(t, http.MethodPost, "/v1/locations", &admin, body, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin creating location: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created handler.LocationResponse
	decode(t, rec, &created)
	if created.DeliveryFee != "1200.00" || created.State.Name != "Lagos" {
		t.Errorf("unexpected location %+v", created)
	}
	if rec := f.do(t, http.MethodPost, "/v1/locations", &admin, body, nil); rec.Code != http.StatusConflict {
		t.Errorf("duplicate location: expected 409, got %d", rec.Code)
	}
}

func TestAPI_OrderWithDeliveryLocation(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	lagos := f.locations.AddState("Lagos", "LA", true)
	lekki := f.locations.AddLocation(lagos, "Lekki", "1500.00", true)

	rec := f.do(t, http.MethodPost, "/v1/products", &admin, map[string]any{"name": "Hat", "price": "12.00"}, nil)
	var product handler.ProductResponse
	decode(t, rec, &product)

	rec = f.do(t, http.MethodPost, "/v1/orders", &buyer, map[string]any{
		"items":            []map[string]any{{"product_id": product.ID, "quantity": 2}},
		"location_id":      lekki,
		"detailed_address": "12 Admiralty Way",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create order: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var order handler.OrderResponse
	decode(t, rec, &order)
	if order.TotalAmount != "1524.00" || order.DeliveryFee != "1500.00" {
		t.Errorf("expected fee folded into total, got total %s fee %s", order.TotalAmount, order.DeliveryFee)
	}
	if order.DeliveryLocationID == nil || *order.DeliveryLocationID != lekki || order.DeliveryLocationState != "Lagos" {
		t.Errorf("unexpected delivery location %+v", order)
	}
	if order.ShippingAddress != "12 Admiralty Way" {
		t.Errorf("expected detailed address to fill the shipping address, got %q", order.ShippingAddress)
	}

	rec = f.do(t, http.MethodPost, "/v1/payments/initiate", &buyer, initiateBody(order.ID), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("initiate: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if checkouts := f.gateway.Checkouts(); len(checkouts) != 1 || checkouts[0].Amount.StringFixed(2) != "1524.00" {
		t.Errorf("expected checkout for 1524.00, got %+v", checkouts)
	}

	rec = f.do(t, http.MethodPost, "/v1/orders", &buyer, map[string]any{
		"items":       []map[string]any{{"product_id": product.ID, "quantity": 1}},
		"location_id": 999,
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown location: expected 400, got %d", rec.Code)
	}
}

func TestAPI_CategoriesAndProductEdits(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)

	if rec := f.do(t, http.MethodPost, "/v1/categories", &buyer, map[string]string{"name": "Hats"}, nil); rec.Code != http.StatusForbidden {
		t.Errorf("buyer creating category: expected 403, got %d", rec.Code)
	}
	rec := f.do(t, http.MethodPost, "/v1/categories", &admin, map[string]string{"name": "Hats"}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var category handler.CategoryResponse
	decode(t, rec, &category)
	if rec := f.do(t, http.MethodPost, "/v1/categories", &admin, map[string]string{"name": "Hats"}, nil); rec.Code != http.StatusConflict {
		t.Errorf("duplicate category: expected 409, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/v1/products", &admin, map[string]any{"name": "Cap", "price": "12.00", "category_id": category.ID}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var product handler.ProductResponse
	decode(t, rec, &product)
	if product.CategoryName != "Hats" {
		t.Errorf("expected category name on product, got %+v", product)
	}
	productPath := "/v1/products/" + strconv.FormatInt(product.ID, 10)

	if rec := f.do(t, http.MethodPatch, productPath, &buyer, map[string]string{"price": "15"}, nil); rec.Code != http.StatusForbidden {
		t.Errorf("buyer editing product: expected 403, got %d", rec.Code)
	}
	rec = f.do(t, http.MethodPatch, productPath, &admin, map[string]string{"price": "15"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("edit product: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &product)
	if product.Price != "15.00" || product.Name != "Cap" {
		t.Errorf("expected only the price to change, got %+v", product)
	}
	if rec := f.do(t, http.MethodPatch, productPath, &admin, map[string]any{"category_id": 42}, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown category: expected 400, got %d", rec.Code)
	}

	f.products.MarkOrdered(product.ID)
	if rec := f.do(t, http.MethodDelete, productPath, &admin, nil, nil); rec.Code != http.StatusConflict {
		t.Errorf("ordered product delete: expected 409, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/v1/products", &admin, map[string]any{"name": "Scarf", "price": "8.00"}, nil)
	var scarf handler.ProductResponse
	decode(t, rec, &scarf)
	scarfPath := "/v1/products/" + strconv.FormatInt(scarf.ID, 10)
	if rec := f.do(t, http.MethodDelete, scarfPath, &admin, nil, nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete product: expected 204, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, scarfPath, nil, nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("deleted product: expected 404, got %d", rec.Code)
	}

	categoryPath := "/v1/categories/" + strconv.FormatInt(category.ID, 10)
	rec = f.do(t, http.MethodPut, categoryPath, &admin, map[string]string{"name": "Headwear"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("rename category: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := f.do(t, http.MethodDelete, categoryPath, &admin, nil, nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete category: expected 204, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, categoryPath, nil, nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("deleted category: expected 404, got %d", rec.Code)
	}
}
