// Car-parking management service.
//
// @title        Parking System API
// @version      1.0
// @description  Vehicle entry/exit tracking, fee settlement and customer accounts.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carparking/parking-system/internal/api"
	"github.com/carparking/parking-system/internal/api/handler"
	"github.com/carparking/parking-system/internal/core/service"
	"github.com/carparking/parking-system/internal/infrastructure/config"
	"github.com/carparking/parking-system/internal/infrastructure/db/postgres"
	"github.com/carparking/parking-system/internal/infrastructure/db/redis"
	"github.com/carparking/parking-system/internal/infrastructure/queue"
	"github.com/carparking/parking-system/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.Load(slog.Default())

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.Postgres.URI)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer pool.Close()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// Repositories.
	rateRepo := postgres.NewRateRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	authRepo := postgres.NewAuthRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)

	// Services.
	rateService := service.NewRateService(rateRepo, redis.NewRateCache(rdb), log)
	movementService := service.NewMovementService(sessionRepo, customerRepo, rateRepo, log)
	paymentService := service.NewPaymentService(paymentRepo, sessionRepo, customerRepo, log)
	customerService := service.NewCustomerService(customerRepo, sessionRepo, rateService, log)
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, 24*time.Hour)
	dashboardService := service.NewDashboardService(statsRepo, cfg.LotCapacity, log)
	gateService := service.NewGateService(movementService, redis.NewDedupChecker(rdb), log)

	dispatcher := queue.NewDispatcher(cfg.Gate.Workers, gateService, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Deps{
		Auth:      handler.NewAuthHandler(authService),
		Rates:     handler.NewRateHandler(rateService),
		Movements: handler.NewMovementHandler(movementService),
		Payments:  handler.NewPaymentHandler(paymentService),
		Customers: handler.NewCustomerHandler(customerService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Gate:      handler.NewGateHandler(dispatcher),
		Health:    handler.NewHealthHandler(pool, rdb),

		JWTSecret: cfg.JWTSecret,
		Logger:    log,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: e,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting parking server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("application terminated with error")
	}
	log.Info().Msg("server stopped gracefully")
}
