package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paystack-storefront/internal/client"
	"paystack-storefront/internal/config"
	"paystack-storefront/internal/logs"
	"paystack-storefront/internal/repository"
	"paystack-storefront/internal/server"
	"paystack-storefront/internal/service"
)

func main() {
	cfg, dotenvLoaded, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logs.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)
	if !dotenvLoaded {
		logger.Info("no .env file found, using process environment")
	}

	db, err := client.InitDBClient(cfg.Database, logger)
	if err != nil {
		logger.Error("database init failed", slog.Any("error", err))
		os.Exit(1)
	}
	paystackClient := client.NewPaystackClient(&cfg.Paystack)

	orderRepo := repository.NewOrderRepository(db)
	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	services := server.Services{
		Order: service.NewOrderService(db, orderRepo, cartRepo, productRepo, memberRepo, logger),
		Payment: service.NewPaymentService(
			db,
			paystackClient,
			cfg.Paystack.CallbackURL,
			orderRepo,
			memberRepo,
			webhookEventRepo,
			logger,
		),
		Cart:       service.NewCartService(cartRepo, productRepo, logger),
		Membership: service.NewMembershipService(db, memberRepo, logger),
		Catalog:    service.NewCatalogService(productRepo, logger),
	}

	srv := server.NewServer(services, cfg.Auth.JWTSecret, logger)
	serverAddr := cfg.HTTP.Address()

	logger.Info("starting HTTP server",
		slog.String("address", serverAddr),
		slog.String("environment", cfg.Environment.Name))
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", slog.Any("error", err))
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
