package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backoffice/config"
	"backoffice/internal/cache"
	"backoffice/internal/consumer"
	"backoffice/internal/database"
	"backoffice/internal/logger"
	"backoffice/internal/payments"
	"backoffice/internal/repository"
	"backoffice/internal/service"
	"backoffice/internal/sweeper"
	htransport "backoffice/internal/transport/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)
	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)

	var couponCache service.CouponCache
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rc.Close()
		couponCache = rc
	}

	provider := payments.NewClient(payments.Config{
		BaseURL: cfg.Provider.BaseURL,
		APIKey:  cfg.Provider.APIKey,
	})

	resolver := service.NewPriceResolver(repos.Variants, repos.Prices, provider, log)
	discounts := service.NewDiscountEngine(repos.Coupons, couponCache, time.Duration(cfg.Redis.TTLSeconds)*time.Second, log)

	checkout := service.NewCheckoutService(
		repos.Orders,
		repos.Customers,
		resolver,
		discounts,
		provider,
		service.CheckoutConfig{
			CurrencyCode: cfg.Checkout.CurrencyCode,
			Shipping: service.ShippingRule{
				FlatFeeCents:   cfg.Checkout.FlatShippingFeeCents,
				FreeAboveCents: cfg.Checkout.FreeShippingThresholdCents,
			},
			StorefrontBaseURL: cfg.Checkout.StorefrontBaseURL,
			AllowedCountries:  cfg.Checkout.AllowedCountries,
			CollectPhone:      cfg.Checkout.CollectPhone,
		},
		log,
	)

	inventory := service.NewInventoryService(repos.Variants, repos.Inventory, cfg.Inventory.RejectNegativeStock, log)
	reports := service.NewReportService(repos.Orders, repos.Payments, repos.Refunds)
	confirmations := service.NewConfirmationService(repos.Payments, couponCache, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if len(cfg.Kafka.Brokers) > 0 {
		pc := consumer.NewPaymentConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.PaymentsTopic, confirmations, log)
		defer pc.Close()
		go func() {
			if err := pc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("payment consumer stopped", zap.Error(err))
			}
		}()
	}

	sw := sweeper.New(repos.Orders, cfg.Sweep.PendingTTL, cfg.Sweep.Interval, log)
	sw.Start(ctx)
	defer sw.Stop()

	handler := htransport.NewHandler(checkout, inventory, reports, confirmations, log)
	router := htransport.Router(handler)

	srv := &http.Server{
		Addr:    cfg.Port,
		Handler: router,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("starting HTTP server", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-quit
	log.Info("shutting down HTTP server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	log.Info("HTTP server stopped gracefully")
}
