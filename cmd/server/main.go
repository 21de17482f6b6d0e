package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/rocksti/pagafacil/internal/adapter/http"
	"github.com/rocksti/pagafacil/internal/adapter/http/handler"
	"github.com/rocksti/pagafacil/internal/adapter/http/middleware"
	postgresRepo "github.com/rocksti/pagafacil/internal/adapter/repository/postgres"
	redisRepo "github.com/rocksti/pagafacil/internal/adapter/repository/redis"
	"github.com/rocksti/pagafacil/internal/infrastructure/auth"
	"github.com/rocksti/pagafacil/internal/infrastructure/config"
	"github.com/rocksti/pagafacil/internal/infrastructure/logger"
	"github.com/rocksti/pagafacil/internal/infrastructure/metrics"
	"github.com/rocksti/pagafacil/internal/infrastructure/postgres"
	"github.com/rocksti/pagafacil/internal/infrastructure/redis"
	"github.com/rocksti/pagafacil/internal/usecase"
)

const (
	limiterCleanupInterval = 10 * time.Minute
	limiterMaxIdle         = time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
	defer cancel()

	pool, err := postgres.NewPool(connectCtx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.DatabaseURL, log); err != nil {
			return err
		}
	}

	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(connectCtx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	accountUC := usecase.NewAccountUseCase(
		postgresRepo.NewAccountRepository(pool, log),
		postgresRepo.NewTxManager(pool),
		postgresRepo.NewRetrier(log),
		postgresRepo.NewULIDGenerator(),
		m,
		log,
	)

	routerCfg := httpAdapter.RouterConfig{
		AccountHandler: handler.NewAccountHandler(accountUC, log).WithMaxUploadBytes(cfg.MaxUploadBytes),
		HealthHandler:  handler.NewHealthHandler(pool, redisClient),
		Logger:         log,
		Metrics:        m,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		JWTManager:     newJWTManager(cfg),
		IdempotencyTTL: cfg.IdempotencyTTL,
	}
	if redisClient != nil {
		routerCfg.IdempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
	}
	if rl := newRateLimiter(cfg, m); rl != nil {
		routerCfg.RateLimiter = rl
		go rl.RunCleanup(limiterCleanupInterval, limiterMaxIdle, ctx.Done())
	}

	server := newServer(cfg, httpAdapter.NewRouter(routerCfg))

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Bool("auth", cfg.AuthEnabled).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

func newServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}
}

func newJWTManager(cfg *config.Config) *auth.JWTManager {
	if !cfg.AuthEnabled {
		return nil
	}
	return auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
}

func newRateLimiter(cfg *config.Config, m *metrics.Metrics) *middleware.RateLimiter {
	if cfg.RateLimitRPS <= 0 {
		return nil
	}
	return middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
}
