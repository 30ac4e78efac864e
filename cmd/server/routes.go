package main

import (
	"fmt"

	"expense-tracker/internal/config"
	"expense-tracker/internal/handlers"
	"expense-tracker/internal/middleware"
	"expense-tracker/internal/repositories"
	"expense-tracker/internal/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// multipart framing on top of the receipt itself
const bodyLimitOverhead int64 = 1 << 20

type serverDeps struct {
	db            *gorm.DB
	registry      *prometheus.Registry
	metrics       services.MetricsRecorderInterface
	rateLimiter   *middleware.IPRateLimiter
	tokenService  services.TokenServiceInterface
	blacklistRepo repositories.BlacklistedTokenRepositoryInterface

	authService        services.AuthServiceInterface
	transactionService services.TransactionServiceInterface
	budgetService      services.BudgetServiceInterface
	receiptService     services.ReceiptServiceInterface
	modelService       services.ModelServiceInterface
	bankService        services.BankServiceInterface
}

func newServer(cfg *config.Config, deps serverDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.NewHTTPErrorHandler(deps.metrics)
	e.Validator = handlers.NewValidator()

	maxBody := services.DefaultMaxReceiptBytes
	if cfg.Storage.MaxReceiptBytes > 0 {
		maxBody = cfg.Storage.MaxReceiptBytes
	}

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  cfg.Server.CORSAllowOrigins,
		AllowMethods:  []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization, middleware.TraceIDHeader},
		ExposeHeaders: []string{middleware.TraceIDHeader},
	}))
	e.Use(echomiddleware.BodyLimit(fmt.Sprintf("%dK", (maxBody+bodyLimitOverhead)/1024)))

	registerRoutes(e, deps)

	return e
}

func registerRoutes(e *echo.Echo, deps serverDeps) {
	healthHandler := handlers.NewHealthCheckHandler(deps.db)
	authHandler := handlers.NewAuthHandler(deps.authService)
	transactionHandler := handlers.NewTransactionHandler(deps.transactionService)
	budgetHandler := handlers.NewBudgetHandler(deps.budgetService)
	receiptHandler := handlers.NewReceiptHandler(deps.receiptService)
	modelHandler := handlers.NewModelHandler(deps.modelService)
	bankHandler := handlers.NewBankHandler(deps.bankService)

	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{})))

	api := e.Group("/api/v1", deps.rateLimiter.Middleware())
	requireAuth := middleware.RequireAuth(deps.tokenService, deps.blacklistRepo)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, requireAuth)

	transactions := api.Group("/transactions", requireAuth)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	budgets := api.Group("/budgets", requireAuth)
	budgets.PUT("", budgetHandler.SetBudget)
	budgets.GET("", budgetHandler.ListBudgets)
	budgets.POST("/check", budgetHandler.CheckBudget)
	budgets.DELETE("/:category", budgetHandler.DeleteBudget)

	receipts := api.Group("/receipts", requireAuth)
	receipts.POST("", receiptHandler.UploadReceipt)
	receipts.GET("/:transactionId", receiptHandler.GetReceipt)

	model := api.Group("/model", requireAuth)
	model.POST("/train", modelHandler.Train)
	model.POST("/predict", modelHandler.Predict)
	model.GET("/evaluate", modelHandler.Evaluate)

	bank := api.Group("/bank", requireAuth)
	bank.POST("/link-token", bankHandler.CreateLinkToken)
	bank.POST("/exchange", bankHandler.ExchangePublicToken)
	bank.POST("/transactions", bankHandler.FetchTransactions)
	bank.POST("/balances", bankHandler.GetBalances)
}
