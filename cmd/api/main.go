package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/techy-Nik/final-term/internal/auth"
	"github.com/techy-Nik/final-term/internal/calculation"
	"github.com/techy-Nik/final-term/internal/config"
	"github.com/techy-Nik/final-term/internal/database"
	"github.com/techy-Nik/final-term/internal/observability"
	"github.com/techy-Nik/final-term/internal/server"
)

func main() {

	ctx := context.Background()

	if err := loadDotEnv(); err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Logger
	if err := observability.InitLogger(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing, metrics, log export
	telemetryShutdown, err := initTelemetry(ctx, cfg)
	if err != nil {
		observability.Logger.Fatal("failed to initialise telemetry", zap.Error(err))
	}
	defer telemetryShutdown(ctx)

	// Storage
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		observability.Logger.Fatal("failed to open database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		observability.Logger.Fatal("failed to migrate database", zap.Error(err))
	}

	blacklist, closeBlacklist, err := newBlacklist(ctx, cfg)
	if err != nil {
		observability.Logger.Fatal("failed to set up token blacklist", zap.Error(err))
	}
	defer closeBlacklist()

	// Services
	authSvc := auth.NewService(
		auth.NewUserRepository(db),
		auth.NewPasswordHasher(cfg.BcryptCost),
		auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL),
		blacklist,
	)
	calcSvc := calculation.NewService(calculation.NewRepository(db))

	// Router
	router := server.NewRouter(server.Options{
		Auth:         authSvc,
		Calculations: calcSvc,
		CORSOrigins:  cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		observability.Logger.Info("server started", zap.String("addr", cfg.HTTPAddr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	waitForShutdown(srv, cfg.ShutdownTimeout)
}

func waitForShutdown(srv *http.Server, timeout time.Duration) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	observability.Logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
