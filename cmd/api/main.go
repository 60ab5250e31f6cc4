package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rentledger/rentledger-backend/api/routes"
	"github.com/rentledger/rentledger-backend/internal/fees"
	"github.com/rentledger/rentledger-backend/internal/finance"
	"github.com/rentledger/rentledger-backend/internal/leases"
	"github.com/rentledger/rentledger-backend/internal/meters"
	"github.com/rentledger/rentledger-backend/internal/payments"
	"github.com/rentledger/rentledger-backend/internal/settlements"
	"github.com/rentledger/rentledger-backend/pkg/config"
	"github.com/rentledger/rentledger-backend/pkg/db"
	"github.com/rentledger/rentledger-backend/pkg/logger"
	"github.com/rentledger/rentledger-backend/pkg/metrics"
	"github.com/rentledger/rentledger-backend/pkg/migrate"
	"github.com/rentledger/rentledger-backend/pkg/redis"
)

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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	engineMetrics := metrics.NewEngineMetrics(registry)

	conn := dbClient.DB()
	feeRepo := fees.NewRepository(conn)
	meterRepo := meters.NewRepository(conn)
	leaseRepo := leases.NewRepository(conn)
	settlementRepo := settlements.NewRepository(conn)
	paymentRepo := payments.NewRepository(conn)

	feeService, err := fees.NewService(fees.ServiceParams{Repo: feeRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create fee service", err)
		os.Exit(1)
	}
	meterService, err := meters.NewService(meters.ServiceParams{Repo: meterRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create meter service", err)
		os.Exit(1)
	}
	leaseService, err := leases.NewService(leases.ServiceParams{Repo: leaseRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create lease service", err)
		os.Exit(1)
	}

	summaryCache := finance.NewSummaryCache(redisClient, cfg.Finance.SummaryCacheTTL)
	financeService, err := finance.NewService(finance.ServiceParams{
		SettlementRepo: settlementRepo,
		LeaseRepo:      leaseRepo,
		Cache:          summaryCache,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create finance service", err)
		os.Exit(1)
	}

	settlementService, err := settlements.NewService(settlements.ServiceParams{
		Tx:          dbClient,
		Repo:        settlementRepo,
		LeaseRepo:   leaseRepo,
		FeeRepo:     feeRepo,
		MeterRepo:   meterRepo,
		Logger:      logg,
		Metrics:     engineMetrics,
		Invalidator: financeService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create settlement service", err)
		os.Exit(1)
	}

	paymentService, err := payments.NewService(payments.ServiceParams{
		Repo:    paymentRepo,
		FeeRepo: feeRepo,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, routes.Services{
			Fees:        feeService,
			Leases:      leaseService,
			Meters:      meterService,
			Settlements: settlementService,
			Payments:    paymentService,
			Finance:     financeService,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stop:
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
