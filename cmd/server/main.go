package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rl1809/rental-ledger/internal/adapter/handler"
	"github.com/rl1809/rental-ledger/internal/adapter/storage"
	"github.com/rl1809/rental-ledger/internal/config"
	"github.com/rl1809/rental-ledger/internal/core/service"
	"github.com/rl1809/rental-ledger/internal/metrics"
	"github.com/rl1809/rental-ledger/internal/port"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := buildLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage
	var (
		stores port.Stores
		closer func() error
	)
	switch cfg.Storage.Driver {
	case "mysql":
		s, err := storage.OpenMySQL(ctx, cfg.Storage.MySQLDSN)
		if err != nil {
			logger.Fatal("failed to open mysql", zap.Error(err))
		}
		stores, closer = s.Stores(), s.Close
	case "sqlite":
		s, err := storage.OpenSQLite(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			logger.Fatal("failed to open sqlite", zap.Error(err))
		}
		stores, closer = s.Stores(), s.Close
	case "memory":
		stores, closer = storage.NewMemoryStores().Stores(), func() error { return nil }
	default:
		logger.Fatal("unknown storage driver", zap.String("driver", cfg.Storage.Driver))
	}
	logger.Info("storage ready", zap.String("driver", cfg.Storage.Driver))

	// Redis duplicate-request guard (optional)
	var (
		guard port.IdempotencyGuard
		rdb   *redis.Client
	)
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		guard = storage.NewRedisAdapter(rdb)
		logger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
	}

	// Services
	owners := service.NewBusinessOwnerService(stores.Owners)
	customers := service.NewCustomerService(stores.Customers)
	items := service.NewRentalItemService(stores.Items)
	leases := service.NewLeaseService(stores)

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg)

	// HTTP server
	httpHandler := handler.NewHTTPHandler(owners, customers, items, leases, guard, m, logger)
	mux := http.NewServeMux()
	httpHandler.Register(mux)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handler.RequestLogger(logger, mux),
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("http server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	logger.Info("http server stopped")

	if rdb != nil {
		rdb.Close()
	}
	if err := closer(); err != nil {
		logger.Error("failed to close storage", zap.Error(err))
	}
	logger.Info("connections closed")
}

func buildLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = cfg.Encoding
	return zc.Build()
}
