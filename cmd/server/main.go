package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/financify/financify/internal/adapter/http"
	"github.com/financify/financify/internal/adapter/http/handler"
	"github.com/financify/financify/internal/adapter/http/middleware"
	redisRepo "github.com/financify/financify/internal/adapter/repository/redis"
	"github.com/financify/financify/internal/infrastructure/auth"
	"github.com/financify/financify/internal/infrastructure/config"
	"github.com/financify/financify/internal/infrastructure/logging"
	"github.com/financify/financify/internal/infrastructure/metrics"
	"github.com/financify/financify/internal/infrastructure/redis"
	"github.com/financify/financify/internal/usecase"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load .env if present, then the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	// Setup log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	appLogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	ctx := context.Background()

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Metrics
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	// Remote store and use cases
	store := redisRepo.NewStore(redisClient, appLogger.Logger)
	ledgers := usecase.NewRegistry(store, appLogger.Logger).WithMetrics(m)
	defer ledgers.CloseAll()
	mutations := usecase.NewMutation(store, ledgers, cfg.UndoWindow, appLogger.Logger).WithMetrics(m)

	// Authentication
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Handlers
	transactionHandler := handler.NewTransactionHandler(ledgers, mutations, m)
	sessionHandler := handler.NewSessionHandler(ledgers)
	healthHandler := handler.NewHealthHandler(redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TransactionHandler: transactionHandler,
		SessionHandler:     sessionHandler,
		HealthHandler:      healthHandler,
		AuthMiddleware:     middleware.AuthMiddleware(jwtManager),
		LoggingMiddleware:  middleware.NewLoggingMiddleware(log.Logger),
		MetricsMiddleware:  middleware.NewMetricsMiddleware(m),
		MetricsGatherer:    registry,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
