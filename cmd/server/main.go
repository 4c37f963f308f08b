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
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/erpledger/internal/adapter/http"
	"github.com/iho/erpledger/internal/adapter/http/handler"
	"github.com/iho/erpledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/erpledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/erpledger/internal/adapter/repository/redis"
	"github.com/iho/erpledger/internal/infrastructure/auth"
	"github.com/iho/erpledger/internal/infrastructure/config"
	"github.com/iho/erpledger/internal/infrastructure/eventpublisher"
	"github.com/iho/erpledger/internal/infrastructure/logger"
	"github.com/iho/erpledger/internal/infrastructure/metrics"
	"github.com/iho/erpledger/internal/infrastructure/postgres"
	"github.com/iho/erpledger/internal/infrastructure/redis"
	"github.com/iho/erpledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewWithRegisterer(registry)

	if cfg.RunMigrations {
		if err := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log).Up(); err != nil {
			return err
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectRetries: cfg.DatabaseConnectRetries,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL, cfg.DatabaseConnectRetries)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")
	}

	// Repositories
	idGen := postgresRepo.NewULIDGenerator()
	txManager := postgresRepo.NewTxManager(pool)
	companyRepo := postgresRepo.NewCompanyRepository(pool)
	voucherRepo := postgresRepo.NewVoucherRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool, idGen)
	auditRepo := postgresRepo.NewAuditRepository(pool, idGen)
	retrier := postgresRepo.NewRetrier(log, m)

	var accountRepo usecase.AccountRepository = postgresRepo.NewAccountRepository(pool)
	var idempotencyStore usecase.IdempotencyStore
	if redisClient != nil {
		accountRepo = usecase.NewCachedAccountRepository(accountRepo, redisRepo.NewCache(redisClient, m), cfg.AccountCacheTTL, log, m)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient, m)
	}

	var outboxRepo usecase.OutboxRepository = postgresRepo.NewNullOutboxRepository()
	if cfg.OutboxEnabled {
		outboxRepo = postgresRepo.NewOutboxRepository(pool)
	}

	jwtManager, permissions := newAuth(cfg)

	// Use cases
	accountUC := usecase.NewAccountUseCase(accountRepo, nil)
	voucherUC := usecase.NewVoucherUseCase(usecase.VoucherDeps{
		TxManager:   txManager,
		CompanyRepo: companyRepo,
		VoucherRepo: voucherRepo,
		LedgerRepo:  ledgerRepo,
		OutboxRepo:  outboxRepo,
		AuditRepo:   auditRepo,
		Accounts:    accountUC,
		Permissions: permissions,
		IDGen:       idGen,
		Logger:      log,
		Metrics:     m,
	})
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo, companyRepo, permissions, retrier, log, m)
	integrityUC := usecase.NewIntegrityUseCase(voucherRepo, ledgerRepo, permissions, log)

	var redisPinger handler.Pinger
	if redisClient != nil {
		redisPinger = handler.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		VoucherHandler:   handler.NewVoucherHandler(voucherUC),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC, integrityUC),
		AccountHandler:   handler.NewAccountHandler(accountUC, permissions),
		HealthHandler:    handler.NewHealthHandler(pool, redisPinger),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		JWTManager:       jwtManager,
		RateLimiter:      rateLimiter,
		Logger:           log,
		Metrics:          m,
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Bool("auth", jwtManager != nil).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.OutboxEnabled {
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  eventpublisher.NewLogPublisher(log),
			Logger:     log,
			Metrics:    m,
			BatchSize:  cfg.OutboxBatchSize,
			Interval:   cfg.OutboxInterval,
			Retention:  cfg.OutboxRetention,
		})
		g.Go(func() error {
			if err := publisher.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if rateLimiter != nil {
		g.Go(func() error {
			rateLimiter.RunCleanup(gctx, time.Minute, 10*time.Minute)
			return nil
		})
	}

	return g.Wait()
}

// newAuth returns nil values when authentication is disabled. Use cases then
// skip permission checks and record the system user as actor.
func newAuth(cfg *config.Config) (*auth.JWTManager, usecase.PermissionChecker) {
	if !cfg.AuthEnabled {
		return nil, nil
	}
	return auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration), auth.NewClaimPermissionChecker()
}
