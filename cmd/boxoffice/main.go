// cmd/boxoffice/main.go
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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"boxoffice/internal/accounts"
	"boxoffice/internal/catalog"
	"boxoffice/internal/clock"
	"boxoffice/internal/config"
	"boxoffice/internal/sales"
	"boxoffice/internal/telemetry"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
		Version:  version,
	})
	if err != nil {
		logger.Fatal("failed to initialize telemetry", zap.Error(err))
	}

	clk := clock.NewSystem()

	accountsSvc := accounts.NewService(clk, logger, &accounts.Options{
		RegisterInterval: cfg.Accounts.RegisterInterval,
		RegisterBurst:    cfg.Accounts.RegisterBurst,
	})
	catalogSvc := catalog.NewService(clk, logger)
	salesSvc := sales.NewService(accountsSvc, catalogSvc, clk, logger, tel.Tracer())

	accountsHandler := accounts.NewHandler(accountsSvc)
	catalogHandler := catalog.NewHandler(catalogSvc, accountsSvc)
	salesHandler := sales.NewHandler(salesSvc, clk)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/accounts", accountsHandler.HandleRegister)
	r.Post("/login", accountsHandler.HandleLogin)
	r.Get("/accounts/{login}/tickets", salesHandler.HandleListTickets)

	r.Post("/events", catalogHandler.HandleRegisterEvent)
	r.Get("/events", catalogHandler.HandleListAvailableEvents)
	r.Get("/events/{name}", catalogHandler.HandleGetEvent)
	r.Post("/events/{name}/seats", catalogHandler.HandleAddSeat)

	r.Post("/purchases", salesHandler.HandlePurchase)
	r.Post("/purchases/cancel", salesHandler.HandleCancel)
	r.Post("/tickets/{id}/reinstate", salesHandler.HandleReinstate)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("boxoffice listening", zap.String("addr", srv.Addr), zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown", zap.Error(err))
	}
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}
