package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/coinsync/internal/adapter/http"
	"github.com/iho/coinsync/internal/adapter/http/handler"
	"github.com/iho/coinsync/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/coinsync/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/coinsync/internal/adapter/repository/redis"
	"github.com/iho/coinsync/internal/infrastructure/auth"
	"github.com/iho/coinsync/internal/infrastructure/config"
	"github.com/iho/coinsync/internal/infrastructure/eventpublisher"
	"github.com/iho/coinsync/internal/infrastructure/logger"
	"github.com/iho/coinsync/internal/infrastructure/metrics"
	"github.com/iho/coinsync/internal/infrastructure/postgres"
	"github.com/iho/coinsync/internal/infrastructure/redis"
	"github.com/iho/coinsync/internal/usecase"
	"github.com/iho/coinsync/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	identityRepo := postgresRepo.NewIdentityRepository(pool)
	recordRepo := postgresRepo.NewRecordRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	// Request signing
	signer := auth.NewSigner(cfg.SigningSecret, cfg.SigningWindow)

	// Metrics
	appMetrics := metrics.New()

	// Initialize use cases
	ledgerUC := usecase.NewLedgerUseCase(txManager, identityRepo, recordRepo, outboxRepo, idGen, cache, retrier)
	batchUC := usecase.NewBatchUseCase(ledgerUC)
	identityUC := usecase.NewIdentityUseCase(txManager, identityRepo, outboxRepo, idGen)
	queryUC := usecase.NewQueryUseCase(identityRepo, recordRepo, cache)

	// Initialize handlers
	ledgerHandler := handler.NewLedgerHandler(ledgerUC, batchUC, signer, appMetrics)
	identityHandler := handler.NewIdentityHandler(identityUC, queryUC, appMetrics)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LedgerHandler:   ledgerHandler,
		IdentityHandler: identityHandler,
		HealthHandler:   healthHandler,
		Logging:         middleware.NewLoggingMiddleware(appLogger),
		RateLimiter:     middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		ExposeSeeding:   !cfg.IsProduction(),
	})

	// Background workers
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	var publisher eventpublisher.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := eventpublisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing events to kafka")
	} else {
		publisher = eventpublisher.NewLogPublisher(appLogger)
		log.Info().Msg("no kafka brokers configured, logging events")
	}

	outboxPublisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		Metrics:    appMetrics,
		Logger:     appLogger,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})
	go func() {
		if err := outboxPublisher.Start(workerCtx); err != nil && workerCtx.Err() == nil {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	rewardWorker := worker.NewRecurringReward(
		ledgerUC,
		identityRepo,
		appLogger,
		cfg.RecurringRewardAmount,
		cfg.RecurringRewardInterval,
	)
	go func() {
		if err := rewardWorker.Start(workerCtx); err != nil && workerCtx.Err() == nil {
			log.Error().Err(err).Msg("recurring reward worker stopped")
		}
	}()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("environment", cfg.Environment).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopWorkers()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
