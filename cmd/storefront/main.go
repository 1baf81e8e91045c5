package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/artisanmarket/storefront/internal/auth"
	"github.com/artisanmarket/storefront/internal/browsing"
	"github.com/artisanmarket/storefront/internal/cart"
	"github.com/artisanmarket/storefront/internal/catalog"
	"github.com/artisanmarket/storefront/internal/checkout"
	"github.com/artisanmarket/storefront/internal/clientstore"
	"github.com/artisanmarket/storefront/internal/config"
	"github.com/artisanmarket/storefront/internal/db"
	"github.com/artisanmarket/storefront/internal/events"
	httpapi "github.com/artisanmarket/storefront/internal/http"
	"github.com/artisanmarket/storefront/internal/notify"
	"github.com/artisanmarket/storefront/internal/order"
	"github.com/artisanmarket/storefront/internal/pricing"
	"github.com/artisanmarket/storefront/internal/user"
	"github.com/artisanmarket/storefront/internal/wishlist"
)

func main() {
	logger := log.New(os.Stdout, "[storefront] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- DB ---
	if cfg.Database.RunMigrations {
		if err := db.RunMigrations(cfg.Database.DSN, logger); err != nil {
			logger.Fatalf("run migrations: %v", err)
		}
	}

	database, err := db.Open(cfg.Database.DSN, db.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatalf("open db: %v", err)
	}
	defer database.Close()

	catalogRepo := catalog.NewRepository(database)
	orderRepo := order.NewRepository(database)
	userRepo := user.NewRepository(database)

	// --- client store ---
	var store clientstore.Store
	if cfg.Redis.Backend == "memory" {
		store = clientstore.NewMemoryStore()
		logger.Printf("client store: in-memory (state will not survive restarts)")
	} else {
		store = clientstore.NewRedisStore(clientstore.MustDialRedis(ctx, cfg.Redis.Addr))
	}

	// --- events ---
	var publisher checkout.OrderPlacedPublisher = events.NopPublisher{}
	var closePublisher func() error
	if cfg.Rabbit.Enabled {
		rabbitConn := events.MustDialRabbit(cfg.Rabbit.URL)
		defer rabbitConn.Close()

		sequenceRepo := events.NewSequenceRepository(database)
		rabbitPublisher, err := events.NewRabbitOrderEventsPublisher(rabbitConn, sequenceRepo)
		if err != nil {
			logger.Fatalf("create order events publisher: %v", err)
		}
		publisher = rabbitPublisher
		closePublisher = rabbitPublisher.Close
	}

	// --- domain engines ---
	notifier := notify.NewLogNotifier(logger)
	cartEngine := cart.NewEngine(store, notifier, logger)
	wishlistEngine := wishlist.NewEngine(store, notifier, logger)
	tracker := browsing.NewTracker(store, logger)

	calculator := pricing.Calculator{
		TaxRate:               cfg.Pricing.TaxRate,
		ShippingFee:           cfg.Pricing.ShippingFee,
		FreeShippingThreshold: cfg.Pricing.FreeShippingThreshold,
	}

	orchestrator := checkout.NewOrchestrator(cartEngine, orderRepo, calculator, publisher, logger, cfg.Checkout.ProcessingDelay)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenLifetime)

	// --- HTTP ---
	router := httpapi.NewRouter(httpapi.Handlers{
		Users:    httpapi.NewUserHandler(userRepo, tokens),
		Catalog:  httpapi.NewCatalogHandler(catalogRepo, tracker),
		Cart:     httpapi.NewCartHandler(cartEngine, catalogRepo),
		Wishlist: httpapi.NewWishlistHandler(wishlistEngine, catalogRepo),
		Browsing: httpapi.NewBrowsingHandler(tracker, catalogRepo),
		Checkout: httpapi.NewCheckoutHandler(orchestrator),
		Orders:   httpapi.NewOrderHandler(orderRepo),
		Admin:    httpapi.NewAdminHandler(orderRepo, userRepo),
	}, tokens)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("storefront listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		logger.Fatalf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
	if closePublisher != nil {
		if err := closePublisher(); err != nil {
			logger.Printf("publisher close error: %v", err)
		}
	}
}
