package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/techy-Nik/final-term/internal/auth"
	"github.com/techy-Nik/final-term/internal/calculation"
	"github.com/techy-Nik/final-term/internal/config"
	"github.com/techy-Nik/final-term/internal/observability"
)

type shutdownFunc func(context.Context) error

// initTelemetry starts the OTLP trace, metric and log pipelines when an
// endpoint is configured, then registers the domain instruments. The
// returned func flushes every started provider.
func initTelemetry(ctx context.Context, cfg config.Config) (shutdownFunc, error) {
	var shutdowns []shutdownFunc
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	if cfg.OTLPEnabled() {
		for _, start := range []func(context.Context) (func(context.Context) error, error){
			observability.InitTracing,
			observability.InitMetrics,
			observability.InitLogging,
		} {
			stop, err := start(ctx)
			if err != nil {
				shutdown(ctx)
				return nil, err
			}
			shutdowns = append(shutdowns, stop)
		}
	}

	if err := calculation.InitMetrics(); err != nil {
		shutdown(ctx)
		return nil, err
	}

	return shutdown, nil
}

// newBlacklist connects to Redis when REDIS_URL is set and falls back to an
// in-process blacklist otherwise.
func newBlacklist(ctx context.Context, cfg config.Config) (auth.Blacklist, func() error, error) {
	if cfg.RedisURL == "" {
		observability.Logger.Info("REDIS_URL not set, using in-memory token blacklist")
		return auth.NewMemoryBlacklist(), func() error { return nil }, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	observability.Logger.Info("connected to redis", zap.String("addr", opts.Addr))
	return auth.NewRedisBlacklist(client), client.Close, nil
}
