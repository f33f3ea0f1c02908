package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubParser struct{}

func (stubParser) ParseToken(token string) (domain.Principal, error) {
	switch token {
	case "buyer-token":
		return domain.Principal{UserID: 7, Role: domain.RoleBuyer}, nil
	case "admin-token":
		return domain.Principal{UserID: 1, Role: domain.RoleAdmin}, nil
	}
	return domain.Principal{}, errors.New("invalid or expired token")
}

func TestRateLimiter_AllowsBurstThenRejects(t *testing.T) {
	t.Parallel()

	l := NewRateLimiter(1, 3)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d within burst was rejected", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("request over burst was allowed")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("other client should have its own bucket")
	}

	now = now.Add(time.Second)
	if !l.Allow("10.0.0.1") {
		t.Error("expected a token to refill after one second")
	}
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	t.Parallel()

	l := NewRateLimiter(1, 1)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("10.0.0.1")
	now = now.Add(idleLimiterTTL + time.Second)
	l.Allow("10.0.0.2")

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.limiters["10.0.0.1"]; ok {
		t.Error("expected idle client to be evicted")
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.Use(RequestID(), NewRateLimiter(0, 1).Middleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("expected [200 429], got %v", codes)
	}
}

func TestRequireAuthAndAdmin(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.Use(RequestID())
	router.GET("/me", RequireAuth(stubParser{}), func(c *gin.Context) {
		p, _ := CurrentPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"user_id": p.UserID})
	})
	router.GET("/admin", RequireAuth(stubParser{}), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	testCases := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no header", "/me", "", http.StatusUnauthorized},
		{"wrong scheme", "/me", "Basic buyer-token", http.StatusUnauthorized},
		{"invalid token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"buyer", "/me", "Bearer buyer-token", http.StatusOK},
		{"buyer on admin route", "/admin", "Bearer buyer-token", http.StatusForbidden},
		{"admin on admin route", "/admin", "Bearer admin-token", http.StatusOK},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Errorf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRequestID_PropagatesOrAssigns(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Body.String() != "abc-123" || rec.Header().Get(HeaderRequestID) != "abc-123" {
		t.Errorf("expected propagated id, got body %q header %q", rec.Body.String(), rec.Header().Get(HeaderRequestID))
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(rec.Body.String()) != 36 {
		t.Errorf("expected generated uuid, got %q", rec.Body.String())
	}
}
