package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/SAP-F-2025/study-quiz-client/internal/cache"
	"github.com/SAP-F-2025/study-quiz-client/internal/client"
	"github.com/SAP-F-2025/study-quiz-client/internal/config"
	"github.com/SAP-F-2025/study-quiz-client/internal/handlers"
	"github.com/SAP-F-2025/study-quiz-client/internal/handoff"
	"github.com/SAP-F-2025/study-quiz-client/internal/middleware"
	"github.com/SAP-F-2025/study-quiz-client/internal/repositories"
	"github.com/SAP-F-2025/study-quiz-client/internal/repositories/postgres"
	"github.com/SAP-F-2025/study-quiz-client/internal/services"
	"github.com/SAP-F-2025/study-quiz-client/internal/utils"
	"github.com/SAP-F-2025/study-quiz-client/internal/validator"
	"github.com/SAP-F-2025/study-quiz-client/pkg"
)

const purgeInterval = 10 * time.Minute

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(utils.ToSlogLogger(logger))
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	medium, closeMedium, err := newHandoffMedium(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize handoff store", "backend", cfg.HandoffBackend, "error", err)
		os.Exit(1)
	}
	defer closeMedium()
	handoffs := handoff.NewManager(medium, cfg.HandoffTTL, logger.With("component", "handoff"))

	publisher, err := cfg.Events.CreateEventPublisher(utils.ToSlogLogger(logger))
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Failed to close event publisher", "error", err)
		}
	}()

	v := validator.New()
	api := client.NewHTTPQuizAPI(cfg.QuizAPIURL, cfg.QuizAPITimeout)
	serviceManager := services.NewServiceManager(api, handoffs, publisher, logger, v)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.RequestID())
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(utils.ContextLogger(logger))

	handlers.NewHandlerManager(serviceManager, v, middleware.NewTokenVerifier(cfg), logger).SetupRoutes(router)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.TabSessionHeader, utils.RequestIDHeader},
		ExposedHeaders:   []string{"Location", "Content-Disposition", utils.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Server listening", "port", cfg.Port, "environment", cfg.Environment, "handoff_backend", cfg.HandoffBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Could not listen", "port", cfg.Port, "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	logger.Info("Server exiting")
}

// newHandoffMedium builds the storage behind the handoff store. The returned
// func releases whatever connection the backend holds.
func newHandoffMedium(ctx context.Context, cfg *config.Config, logger utils.Logger) (handoff.Medium, func(), error) {
	switch cfg.HandoffBackend {
	case config.HandoffRedis:
		redisClient, err := pkg.NewRedisClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		medium := handoff.NewCacheMedium(cache.NewRedisCache(redisClient, logger.With("component", "cache")))
		return medium, func() { _ = redisClient.Close() }, nil

	case config.HandoffPostgres:
		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		repo := postgres.NewHandoffPostgreSQL(db)
		go purgeExpired(ctx, repo, logger)
		return repo, func() { _ = sqlDB.Close() }, nil

	default:
		return handoff.NewMemoryMedium(cfg.HandoffCapacity), func() {}, nil
	}
}

// purgeExpired deletes stale handoff rows at startup and then periodically.
func purgeExpired(ctx context.Context, repo repositories.HandoffRepository, logger utils.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		if n, err := repo.PurgeExpired(ctx); err != nil {
			logger.Warn("Failed to purge expired handoffs", "error", err)
		} else if n > 0 {
			logger.Info("Purged expired handoffs", "count", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
