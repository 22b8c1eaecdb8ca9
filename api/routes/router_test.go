package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kiatumarket/kiatu-backend/internal/address"
	"github.com/kiatumarket/kiatu-backend/internal/cart"
	"github.com/kiatumarket/kiatu-backend/internal/checkout"
	"github.com/kiatumarket/kiatu-backend/internal/delivery"
	"github.com/kiatumarket/kiatu-backend/internal/orders"
	pkgAuth "github.com/kiatumarket/kiatu-backend/pkg/auth"
	"github.com/kiatumarket/kiatu-backend/pkg/config"
	"github.com/kiatumarket/kiatu-backend/pkg/db/models"
	"github.com/kiatumarket/kiatu-backend/pkg/enums"
	pkgerrors "github.com/kiatumarket/kiatu-backend/pkg/errors"
	"github.com/kiatumarket/kiatu-backend/pkg/logger"
	"github.com/kiatumarket/kiatu-backend/pkg/metrics"
	"github.com/kiatumarket/kiatu-backend/pkg/pagination"
	"github.com/kiatumarket/kiatu-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubLimiter struct {
	allow bool
}

func (s stubLimiter) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	if s.allow {
		return true, 1, nil
	}
	return false, limit + 1, nil
}

type memIdempotencyStore struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memIdempotencyStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value.(string)
	return true, nil
}

func (m *memIdempotencyStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value.(string)
	return nil
}

func (m *memIdempotencyStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memIdempotencyStore) IdempotencyKey(scope, id string) string {
	return scope + ":" + id
}

type stubDeliveryService struct{}

func (stubDeliveryService) Quote(ctx context.Context, input delivery.QuoteInput) (delivery.Result, error) {
	return delivery.Result{Zone: enums.DeliveryZoneSameMetro, FeeKES: 200}, nil
}

type stubAddressService struct{}

func (stubAddressService) Suggest(ctx context.Context, req address.SuggestRequest) (*address.SuggestResult, error) {
	return &address.SuggestResult{Suggestions: []address.Suggestion{}}, nil
}

func (stubAddressService) Resolve(ctx context.Context, req address.ResolveRequest) (types.Address, error) {
	return types.Address{}, nil
}

type stubCartService struct{}

func (stubCartService) Get(ctx context.Context, buyerID uuid.UUID) (*cart.View, error) {
	return cart.NewView(cart.New()), nil
}

func (stubCartService) Load(ctx context.Context, buyerID uuid.UUID) (*cart.Cart, error) {
	return cart.New(), nil
}

func (stubCartService) AddItem(ctx context.Context, buyerID uuid.UUID, input cart.AddItemInput) (*cart.View, error) {
	return cart.NewView(cart.New()), nil
}

func (stubCartService) RemoveItem(ctx context.Context, buyerID uuid.UUID, input cart.ItemKeyInput) (*cart.View, error) {
	return cart.NewView(cart.New()), nil
}

func (stubCartService) UpdateQuantity(ctx context.Context, buyerID uuid.UUID, input cart.UpdateQuantityInput) (*cart.View, error) {
	return cart.NewView(cart.New()), nil
}

func (stubCartService) UpdateSize(ctx context.Context, buyerID uuid.UUID, input cart.UpdateSizeInput) (*cart.View, error) {
	return cart.NewView(cart.New()), nil
}

func (stubCartService) UpdateColor(ctx context.Context, buyerID uuid.UUID, input cart.UpdateColorInput) (*cart.View, error) {
	return cart.NewView(cart.New()), nil
}

func (stubCartService) Refresh(ctx context.Context, buyerID uuid.UUID) (*cart.View, error) {
	return cart.NewView(cart.New()), nil
}

func (stubCartService) Clear(ctx context.Context, buyerID uuid.UUID) error {
	return nil
}

func (stubCartService) Checkout(ctx context.Context, buyerID uuid.UUID, fn func(c *cart.Cart) error) error {
	return nil
}

type stubCheckoutService struct{}

func (stubCheckoutService) Quote(ctx context.Context, buyerID uuid.UUID, input checkout.QuoteInput) (*checkout.Quote, error) {
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
}

func (stubCheckoutService) PlaceOrder(ctx context.Context, buyerID uuid.UUID, input checkout.PlaceOrderInput) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
}

func (stubCheckoutService) GetOrder(ctx context.Context, buyerID, orderID uuid.UUID) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (stubCheckoutService) ListOrders(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*orders.Page, error) {
	return &orders.Page{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
		Autocomplete: config.AutocompleteConfig{
			RateLimitWindow:   time.Minute,
			RateLimitRequests: 5,
		},
	}
}

func newTestRouter(cfg *config.Config, limiter stubLimiter) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	reg := prometheus.NewRegistry()
	return NewRouter(
		cfg,
		logg,
		reg,
		metrics.NewHTTPMetrics(reg),
		stubPinger{}, // db.Pinger
		stubPinger{}, // redis.Pinger
		limiter,
		&memIdempotencyStore{data: map[string]string{}},
		stubDeliveryService{},
		stubAddressService{},
		stubCartService{},
		stubCheckoutService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgAuth.MintBuyerToken(cfg.JWT, time.Now(), uuid.New())
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthRoutesArePublic(t *testing.T) {
	router := newTestRouter(testConfig(), stubLimiter{allow: true})
	for _, path := range []string{"/health/live", "/health/ready", "/metrics"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestAPIRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig(), stubLimiter{allow: true})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAPIRoutesWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, stubLimiter{allow: true})
	token := buildToken(t, cfg)

	cases := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/api/v1/cart", "", http.StatusOK},
		{http.MethodDelete, "/api/v1/cart", "", http.StatusNoContent},
		{http.MethodPost, "/api/v1/cart/refresh", "", http.StatusOK},
		{http.MethodPost, "/api/v1/cart/items", `{"product_id":"` + uuid.NewString() + `"}`, http.StatusCreated},
		{http.MethodDelete, "/api/v1/cart/items?product_id=p", "", http.StatusOK},
		{http.MethodPatch, "/api/v1/cart/items/quantity", `{"product_id":"p","quantity":2}`, http.StatusOK},
		{http.MethodPatch, "/api/v1/cart/items/size", `{"product_id":"p","new_size":"41"}`, http.StatusOK},
		{http.MethodPatch, "/api/v1/cart/items/color", `{"product_id":"p","new_color":"red"}`, http.StatusOK},
		{http.MethodPost, "/api/v1/delivery/quote", `{"buyer_region":"Nairobi"}`, http.StatusOK},
		{http.MethodGet, "/api/v1/address/suggest?q=moi", "", http.StatusOK},
		{http.MethodPost, "/api/v1/checkout/quote", `{"buyer_region":"Nairobi"}`, http.StatusBadRequest},
		{http.MethodPost, "/api/v1/checkout", `{"is_pickup":true}`, http.StatusBadRequest},
		{http.MethodGet, "/api/v1/orders", "", http.StatusOK},
		{http.MethodGet, "/api/v1/orders/" + uuid.NewString(), "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Authorization", "Bearer "+token)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != tc.want {
				t.Fatalf("expected %d got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestAddressSuggestRateLimited(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, stubLimiter{allow: false})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/address/suggest?q=moi", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestCheckoutIsIdempotent(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, stubLimiter{allow: true})
	token := buildToken(t, cfg)

	send := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"is_pickup":true}`))
		req.Header.Set("Authorization", "Bearer "+token)
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp
	}

	missing := send("")
	if missing.Code != http.StatusBadRequest || !strings.Contains(missing.Body.String(), "Idempotency-Key") {
		t.Fatalf("expected missing key rejection, got %d %s", missing.Code, missing.Body.String())
	}

	first := send("checkout-1")
	if first.Header().Get("Idempotent-Replayed") != "" {
		t.Fatal("first submission must not be a replay")
	}
	second := send("checkout-1")
	if second.Header().Get("Idempotent-Replayed") != "true" || second.Body.String() != first.Body.String() {
		t.Fatalf("expected replay of first response, got %d %s", second.Code, second.Body.String())
	}
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	router := newTestRouter(testConfig(), stubLimiter{allow: true})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeNotFound) {
		t.Fatalf("unexpected code %q", envelope.Error.Code)
	}
}
