package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kiatumarket/kiatu-backend/api/controllers"
	"github.com/kiatumarket/kiatu-backend/api/middleware"
	"github.com/kiatumarket/kiatu-backend/api/responses"
	"github.com/kiatumarket/kiatu-backend/internal/address"
	"github.com/kiatumarket/kiatu-backend/internal/cart"
	"github.com/kiatumarket/kiatu-backend/internal/checkout"
	"github.com/kiatumarket/kiatu-backend/internal/delivery"
	"github.com/kiatumarket/kiatu-backend/pkg/config"
	"github.com/kiatumarket/kiatu-backend/pkg/db"
	pkgerrors "github.com/kiatumarket/kiatu-backend/pkg/errors"
	"github.com/kiatumarket/kiatu-backend/pkg/logger"
	"github.com/kiatumarket/kiatu-backend/pkg/metrics"
	"github.com/kiatumarket/kiatu-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	dbP db.Pinger,
	redisP redis.Pinger,
	limiter redis.RateLimiter,
	idempotency redis.IdempotencyStore,
	deliveryService delivery.Service,
	addressService address.Service,
	cartService cart.Service,
	checkoutService checkout.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.App.AllowedOrigins()),
	)

	suggestPolicy := middleware.RateLimitPolicy{
		Name:   "address_suggest",
		Window: cfg.Autocomplete.RateLimitWindow,
		Limit:  cfg.Autocomplete.RateLimitRequests,
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})
	r.Method(http.MethodGet, "/metrics", controllers.Metrics(gatherer))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/refresh", controllers.CartRefresh(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Delete("/items", controllers.CartRemoveItem(cartService, logg))
			r.Patch("/items/quantity", controllers.CartUpdateQuantity(cartService, logg))
			r.Patch("/items/size", controllers.CartUpdateSize(cartService, logg))
			r.Patch("/items/color", controllers.CartUpdateColor(cartService, logg))
		})

		r.Post("/delivery/quote", controllers.DeliveryQuote(deliveryService, logg))

		r.Route("/address", func(r chi.Router) {
			r.With(middleware.RateLimit(suggestPolicy, limiter, logg)).Get("/suggest", controllers.AddressSuggest(addressService, logg))
			r.Post("/resolve", controllers.AddressResolve(addressService, logg))
		})

		r.Post("/checkout/quote", controllers.CheckoutQuote(checkoutService, logg))
		r.With(middleware.Idempotency(idempotency, middleware.CheckoutIdempotencyTTL, logg)).
			Post("/checkout", controllers.CheckoutPlaceOrder(checkoutService, logg))
		r.Get("/orders", controllers.OrderList(checkoutService, logg))
		r.Get("/orders/{orderId}", controllers.OrderGet(checkoutService, logg))
	})

	return r
}
