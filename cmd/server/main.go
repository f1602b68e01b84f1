package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/ledgerstat/internal/adapter/http"
	"github.com/iho/ledgerstat/internal/adapter/http/handler"
	"github.com/iho/ledgerstat/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/ledgerstat/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/ledgerstat/internal/adapter/repository/redis"
	"github.com/iho/ledgerstat/internal/adapter/repository/snapshot"
	"github.com/iho/ledgerstat/internal/infrastructure/auth"
	"github.com/iho/ledgerstat/internal/infrastructure/config"
	applogger "github.com/iho/ledgerstat/internal/infrastructure/logger"
	"github.com/iho/ledgerstat/internal/infrastructure/metrics"
	"github.com/iho/ledgerstat/internal/infrastructure/postgres"
	"github.com/iho/ledgerstat/internal/infrastructure/redis"
	"github.com/iho/ledgerstat/internal/usecase"
)

const (
	limiterCleanupInterval = 10 * time.Minute
	limiterMaxIdle         = time.Hour
)

func main() {
	// Load configuration, letting a local .env fill in unset variables
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := applogger.New(applogger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	a, err := newApp(ctx, cfg, logger, metrics.New(), promhttp.Handler())
	if err != nil {
		return err
	}
	defer a.close()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, work := range a.workers {
		g.Go(func() error {
			work(gctx)
			return nil
		})
	}

	g.Go(func() error {
		logger.Info().Str("port", cfg.HTTPPort).Str("source", cfg.LedgerSource).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}

// app is the wired service. workers run alongside the HTTP server until
// it stops.
type app struct {
	router  http.Handler
	workers []func(context.Context)
	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, m *metrics.Metrics, metricsHandler http.Handler) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	health := handler.NewHealthHandler(nil, nil)

	repo, err := newLedgerRepository(ctx, cfg, logger, m, a, health)
	if err != nil {
		return nil, err
	}

	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, ledger cache disabled")
		} else {
			a.closers = append(a.closers, func() { redisClient.Close() })
			health.AddCheck("redis", func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
			repo = redisRepo.NewCachedLedgerRepository(repo, redisRepo.NewCache(redisClient), cfg.CacheTTL, logger, m)
			logger.Info().Dur("ttl", cfg.CacheTTL).Msg("ledger cache enabled")
		}
	}

	// Initialize use cases
	analyticsUC := usecase.NewAnalyticsUseCase(repo, logger, m)
	reconcileUC := usecase.NewReconciliationUseCase(repo, postgresRepo.NewULIDGenerator(), logger, m)

	routerCfg := httpAdapter.RouterConfig{
		AnalyticsHandler: handler.NewAnalyticsHandler(analyticsUC),
		ReconcileHandler: handler.NewReconcileHandler(reconcileUC),
		HealthHandler:    health,
		MetricsHandler:   metricsHandler,
		Logger:           logger,
		Metrics:          m,
	}

	if cfg.RateLimitRPS > 0 {
		rl := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(m)
		a.workers = append(a.workers, func(ctx context.Context) {
			rl.RunCleanup(ctx, limiterCleanupInterval, limiterMaxIdle)
		})
		routerCfg.RateLimiter = rl
	}

	if cfg.AuthEnabled {
		routerCfg.JWTManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		logger.Info().Msg("bearer authentication enabled")
	}

	a.router = httpAdapter.NewRouter(routerCfg)
	return a, nil
}

func newLedgerRepository(
	ctx context.Context,
	cfg *config.Config,
	logger zerolog.Logger,
	m *metrics.Metrics,
	a *app,
	health *handler.HealthHandler,
) (usecase.LedgerRepository, error) {
	switch cfg.LedgerSource {
	case config.SourceFile:
		repo := snapshot.NewFileRepository(cfg.SnapshotPath)
		if _, err := repo.Ledger(); err != nil {
			return nil, fmt.Errorf("failed to read snapshot: %w", err)
		}
		health.AddCheck("snapshot", func(context.Context) error {
			_, err := repo.Ledger()
			return err
		})
		logger.Info().Str("path", cfg.SnapshotPath).Msg("serving snapshot file")
		return repo, nil

	default:
		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		health.AddCheck("postgres", pool.Ping)
		logger.Info().Msg("connected to postgres")

		if cfg.AutoMigrate {
			if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
				return nil, err
			}
		}

		return postgresRepo.NewLedgerRepository(pool, postgresRepo.NewRetrier(logger), m), nil
	}
}
