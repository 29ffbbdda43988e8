package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/honeymart/storefront/internal/auth"
	authhttp "github.com/honeymart/storefront/internal/auth/http"
	cartapp "github.com/honeymart/storefront/internal/cart/app"
	carthttp "github.com/honeymart/storefront/internal/cart/http"
	cartadapter "github.com/honeymart/storefront/internal/cart/infra/adapter"
	catalogapp "github.com/honeymart/storefront/internal/catalog/app"
	"github.com/honeymart/storefront/internal/catalog/domain"
	cataloghttp "github.com/honeymart/storefront/internal/catalog/http"
	catalogmem "github.com/honeymart/storefront/internal/catalog/infra/memory"
	catalogpg "github.com/honeymart/storefront/internal/catalog/infra/postgres"
	checkoutapp "github.com/honeymart/storefront/internal/checkout/app"
	checkouthttp "github.com/honeymart/storefront/internal/checkout/http"
	checkoutadapter "github.com/honeymart/storefront/internal/checkout/infra/adapter"
	"github.com/honeymart/storefront/internal/checkout/infra/events"
	orderapp "github.com/honeymart/storefront/internal/order/app"
	ordermem "github.com/honeymart/storefront/internal/order/infra/memory"
	orderpg "github.com/honeymart/storefront/internal/order/infra/postgres"
	"github.com/honeymart/storefront/pkg/config"
	"github.com/honeymart/storefront/pkg/kafka"
	"github.com/honeymart/storefront/pkg/logger"
	"github.com/honeymart/storefront/pkg/metrics"
	"github.com/honeymart/storefront/pkg/postgres"
	"github.com/honeymart/storefront/pkg/shutdown"
)

type stores struct {
	products checkoutStore
	orders   orderapp.OrderRepo
	close    func()
}

// checkoutStore is what the wiring needs from a product store: the catalog
// repo contract plus the stock reservation pair used by checkout.
type checkoutStore interface {
	catalogapp.ProductRepo
	ConditionalDecrement(ctx context.Context, productID string, qty int32) (bool, error)
	Increment(ctx context.Context, productID string, qty int32) error
}

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "storefront",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	root := context.Background()
	ctx, cancel := shutdown.WithSignals(root)
	defer cancel()

	st, err := buildStores(ctx, cfg, log)
	if err != nil {
		log.Error("store init failed", slog.Any("err", err))
		return
	}
	defer st.close()

	// Services and the adapters that glue their ports together.
	catalogSvc := catalogapp.NewService(st.products)
	cartSvc := cartapp.NewService(cartadapter.NewCatalogServiceReader(catalogSvc))
	orderSvc := orderapp.NewService(st.orders)

	publisher, closePublisher := buildPublisher(cfg, log)
	defer closePublisher()

	coordinator := checkoutapp.NewCoordinator(
		checkoutadapter.NewCartServiceAccess(cartSvc),
		st.products,
		checkoutadapter.NewOrderServiceWriter(orderSvc),
		publisher,
		logger.With(log, "checkout"),
	)

	sessions := auth.NewStore(cfg.SessionTTL, demoUsers())
	checkoutMetrics := metrics.NewCheckoutMetrics(nil)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Handle("/metrics", metrics.Handler())

	r.Mount("/auth", authhttp.NewHandler(sessions).Routes())
	r.Mount("/products", cataloghttp.NewHandler(catalogSvc).Routes())

	r.Group(func(r chi.Router) {
		r.Use(authhttp.RequireUser(sessions))
		r.Mount("/cart", carthttp.NewHandler(cartSvc).Routes())
		r.Mount("/checkout", checkouthttp.NewHandler(coordinator, checkoutMetrics).Routes())
	})

	r.Group(func(r chi.Router) {
		r.Use(authhttp.RequireAdmin(sessions))
		r.Mount("/admin/products", cataloghttp.NewHandler(catalogSvc).AdminRoutes())
	})

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting",
			slog.String("addr", addr),
			slog.String("backend", cfg.StoreBackend))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}

func buildStores(ctx context.Context, cfg config.Config, log *slog.Logger) (stores, error) {
	switch cfg.StoreBackend {
	case "postgres":
		pool, err := postgres.Open(ctx, postgres.Config{
			Host: cfg.PostgresHost,
			Port: cfg.PostgresPort,
			User: cfg.PostgresUser,
			Pass: cfg.PostgresPass,
			DB:   cfg.PostgresDB,
		})
		if err != nil {
			return stores{}, fmt.Errorf("open postgres: %w", err)
		}
		return stores{
			products: catalogpg.NewProductRepo(pool),
			orders:   orderpg.NewOrderRepo(pool),
			close:    pool.Close,
		}, nil

	case "memory":
		products := catalogmem.NewProductRepo()
		seedDemoProducts(products)
		log.Info("memory backend selected, demo catalog seeded")
		return stores{
			products: products,
			orders:   ordermem.NewOrderRepo(),
			close:    func() {},
		}, nil

	default:
		return stores{}, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func buildPublisher(cfg config.Config, log *slog.Logger) (checkoutapp.EventPublisher, func()) {
	client := kafka.NewClient(cfg.KafkaBrokers)
	if !client.Enabled() {
		log.Info("kafka disabled, order events are dropped")
		return events.NoopPublisher{}, func() {}
	}

	p := events.NewKafkaPublisher(client, cfg.OrderEventTopic)
	log.Info("kafka publisher ready",
		slog.String("topic", cfg.OrderEventTopic),
		slog.Any("brokers", client.Brokers))
	return p, func() {
		if err := p.Close(); err != nil {
			log.Warn("kafka writer close failed", slog.Any("err", err))
		}
	}
}

func seedDemoProducts(repo *catalogmem.ProductRepo) {
	for _, p := range []domain.Product{
		{Name: "Mechanical Keyboard", Description: "87-key, hot-swappable", Price: domain.Money{Currency: "IDR", Amount: 1_250_000}, Stock: 10},
		{Name: "Wireless Mouse", Description: "2.4GHz, silent click", Price: domain.Money{Currency: "IDR", Amount: 350_000}, Stock: 25},
		{Name: "USB-C Dock", Description: "Dual HDMI, 100W PD", Price: domain.Money{Currency: "IDR", Amount: 980_000}, Stock: 5},
		{Name: "Laptop Stand", Description: "Aluminium, foldable", Price: domain.Money{Currency: "IDR", Amount: 220_000}, Stock: 1},
	} {
		repo.Seed(p)
	}
}

// demoUsers backs the in-memory session store. Replace with a real identity
// provider before exposing this outside a dev environment.
func demoUsers() []auth.User {
	return []auth.User{
		{ID: "admin-1", Email: "admin@storefront.dev", Password: "admin123", Role: auth.RoleAdmin},
		{ID: "buyer-1", Email: "buyer@storefront.dev", Password: "buyer123", Role: auth.RoleUser},
	}
}
