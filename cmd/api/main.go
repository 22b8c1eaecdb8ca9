package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"github.com/kiatumarket/kiatu-backend/api/routes"
	"github.com/kiatumarket/kiatu-backend/internal/address"
	"github.com/kiatumarket/kiatu-backend/internal/cart"
	"github.com/kiatumarket/kiatu-backend/internal/checkout"
	"github.com/kiatumarket/kiatu-backend/internal/delivery"
	"github.com/kiatumarket/kiatu-backend/internal/orders"
	"github.com/kiatumarket/kiatu-backend/internal/products"
	"github.com/kiatumarket/kiatu-backend/internal/vendors"
	"github.com/kiatumarket/kiatu-backend/pkg/config"
	"github.com/kiatumarket/kiatu-backend/pkg/env"
	"github.com/kiatumarket/kiatu-backend/pkg/db"
	"github.com/kiatumarket/kiatu-backend/pkg/logger"
	"github.com/kiatumarket/kiatu-backend/pkg/maps"
	"github.com/kiatumarket/kiatu-backend/pkg/metrics"
	"github.com/kiatumarket/kiatu-backend/pkg/migrate"
	"github.com/kiatumarket/kiatu-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	classifier, err := buildClassifier(cfg.Delivery)
	if err != nil {
		logg.Error(ctx, "invalid delivery configuration", err)
		os.Exit(1)
	}

	vendorRepo := vendors.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())

	deliveryService, err := delivery.NewService(classifier, vendorRepo, metrics.NewDeliveryMetrics(registry), logg)
	if err != nil {
		logg.Error(ctx, "failed to create delivery service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(redisClient, productRepo, metrics.NewCartMetrics(registry), logg, cfg.Cart.TTL)
	if err != nil {
		logg.Error(ctx, "failed to create cart service", err)
		os.Exit(1)
	}

	placesClient, err := maps.NewClient(
		cfg.GoogleMaps.APIKey,
		maps.WithRegion(cfg.GoogleMaps.DefaultCountry),
		maps.WithLanguage(cfg.GoogleMaps.Language),
	)
	if err != nil {
		logg.Error(ctx, "failed to create places client", err)
		os.Exit(1)
	}
	addressService, err := address.NewService(placesClient, address.NewSequenceGuard(0), cfg.GoogleMaps.DefaultCountry, logg)
	if err != nil {
		logg.Error(ctx, "failed to create address service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(
		dbClient,
		cartService,
		deliveryService,
		orderRepo,
		func(tx *gorm.DB) (checkout.OrderWriter, checkout.StockReader) {
			return orderRepo.WithTx(tx), productRepo.WithTx(tx)
		},
		logg,
	)
	if err != nil {
		logg.Error(ctx, "failed to create checkout service", err)
		os.Exit(1)
	}

	addr := ":" + env.Lookup(cfg.App.Port, "PORT")
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			registry,
			metrics.NewHTTPMetrics(registry),
			dbClient,
			redisClient,
			redisClient,
			redisClient,
			deliveryService,
			addressService,
			cartService,
			checkoutService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func buildClassifier(cfg config.DeliveryConfig) (*delivery.Classifier, error) {
	table, err := delivery.NewMetroTable(delivery.DefaultMetroGroups())
	if err != nil {
		return nil, err
	}
	if cfg.MetroTablePath != "" {
		if table, err = delivery.LoadMetroTable(cfg.MetroTablePath); err != nil {
			return nil, err
		}
	}
	return delivery.NewClassifier(table, delivery.FeeScheduleFromConfig(cfg), cfg.CapitalMetro)
}
