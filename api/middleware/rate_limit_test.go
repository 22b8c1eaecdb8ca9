package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeLimiter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{counts: map[string]int64{}}
}

func (f *fakeLimiter) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	if f.err != nil {
		return false, 0, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func TestRateLimitPerBuyer(t *testing.T) {
	limiter := newFakeLimiter()
	policy := RateLimitPolicy{Name: "suggest", Window: time.Minute, Limit: 2}
	handler := RateLimit(policy, limiter, nil)(okHandler())

	buyer := uuid.New()
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/address/suggest?q=nai", nil)
		req = req.WithContext(WithBuyerID(req.Context(), buyer))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		switch {
		case i < 2 && rec.Code != http.StatusOK:
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		case i == 2 && rec.Code != http.StatusTooManyRequests:
			t.Fatalf("expected 429 after limit, got %d", rec.Code)
		}
	}
	if _, ok := limiter.counts["suggest:buyer:"+buyer.String()]; !ok {
		t.Fatalf("expected buyer scoped key, got %v", limiter.counts)
	}

	other := httptest.NewRequest(http.MethodGet, "/api/v1/address/suggest?q=nai", nil)
	other = other.WithContext(WithBuyerID(other.Context(), uuid.New()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Fatalf("other buyers keep their own budget, got %d", rec.Code)
	}
}

func TestRateLimitFallsBackToIP(t *testing.T) {
	limiter := newFakeLimiter()
	handler := RateLimit(RateLimitPolicy{Name: "suggest", Window: time.Minute, Limit: 5}, limiter, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "41.90.1.2, 10.0.0.1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if _, ok := limiter.counts["suggest:ip:41.90.1.2"]; !ok {
		t.Fatalf("expected ip scoped key, got %v", limiter.counts)
	}
}

func TestRateLimitDependencyFailure(t *testing.T) {
	limiter := newFakeLimiter()
	limiter.err = errors.New("redis down")
	handler := RateLimit(RateLimitPolicy{Name: "suggest", Window: time.Minute, Limit: 5}, limiter, nil)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	handler := RateLimit(RateLimitPolicy{}, nil, nil)(okHandler())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected passthrough, got %d", rec.Code)
	}
}
