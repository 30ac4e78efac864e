package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"expense-tracker/internal/classifier"
	"expense-tracker/internal/config"
	"expense-tracker/internal/database"
	"expense-tracker/internal/middleware"
	"expense-tracker/internal/repositories"
	"expense-tracker/internal/services"
	"expense-tracker/internal/storage"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	shutdownTimeout      = 30 * time.Second
	tokenCleanupInterval = time.Hour
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()

	level := slog.LevelInfo
	if cfg.IsDevelopment() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	db, err := database.Initialize(cfg)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := services.NewPrometheusMetrics(registry)

	userRepo := repositories.NewUserRepository(db.DB)
	transactionRepo := repositories.NewTransactionRepository(db.DB)
	budgetRepo := repositories.NewBudgetRepository(db.DB)
	receiptRepo := repositories.NewReceiptRepository(db.DB)
	blacklistRepo := repositories.NewBlacklistedTokenRepository(db.DB)

	tokenService := services.NewTokenService(&cfg.JWT)
	passwordService := services.NewPasswordService(&cfg.Security)
	authService := services.NewAuthService(userRepo, blacklistRepo, passwordService, tokenService, metrics, logger)

	modelService := services.NewModelService(
		classifier.NewFileStore(cfg.Model.ArtifactPath), transactionRepo, &cfg.Model, metrics, logger)
	transactionService := services.NewTransactionService(transactionRepo, modelService, metrics, logger)
	budgetService := services.NewBudgetService(budgetRepo, transactionRepo, metrics, logger)

	objectStorage, err := storage.NewS3Storage(ctx, &cfg.Storage)
	if err != nil {
		logger.Error("failed to initialize receipt storage", "error", err)
		os.Exit(1)
	}
	storageBreaker := services.NewCircuitBreaker("storage", services.DefaultCircuitBreakerConfig(), metrics)
	receiptService := services.NewReceiptService(
		receiptRepo, transactionRepo, objectStorage, storageBreaker, &cfg.Storage, metrics, logger)

	bankBreaker := services.NewCircuitBreaker("bank", services.DefaultCircuitBreakerConfig(), metrics)
	bankService := services.NewBankService(
		services.NewPlaidClient(&cfg.Bank, logger), transactionRepo, modelService, bankBreaker, &cfg.Bank, metrics, logger)

	if cfg.Model.RetrainEnabled {
		worker := services.NewRetrainWorker(modelService, transactionRepo, &cfg.Model, logger)
		go worker.StartProcessing(ctx)
	}

	rateLimiter := middleware.NewIPRateLimiter(cfg.Security.RateLimitPerSecond, 0)
	go rateLimiter.StartCleanup(ctx)

	go cleanupExpiredTokens(ctx, db, logger)

	e := newServer(cfg, serverDeps{
		db:                 db.DB,
		registry:           registry,
		metrics:            metrics,
		rateLimiter:        rateLimiter,
		tokenService:       tokenService,
		blacklistRepo:      blacklistRepo,
		authService:        authService,
		transactionService: transactionService,
		budgetService:      budgetService,
		receiptService:     receiptService,
		modelService:       modelService,
		bankService:        bankService,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           e,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("shutdown signal received", "signal", sig.String())

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
	}()

	logger.Info("starting server",
		"addr", srv.Addr,
		"environment", cfg.Server.Environment,
		"retrain_enabled", cfg.Model.RetrainEnabled,
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// cleanupExpiredTokens prunes the logout blacklist until ctx is cancelled
func cleanupExpiredTokens(ctx context.Context, db *database.DB, logger *slog.Logger) {
	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := db.CleanupExpiredTokens()
			if err != nil {
				logger.Error("failed to cleanup blacklisted tokens", "error", err)
				continue
			}
			if removed > 0 {
				logger.Info("cleaned up expired blacklisted tokens", "count", removed)
			}
		}
	}
}
