package services

import (
	"context"
	"io"
	"time"

	"expense-tracker/internal/classifier"
	"expense-tracker/internal/dto"
	"expense-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AuthServiceInterface interface {
	Register(req *dto.RegisterRequest) (*models.User, error)
	Login(req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(accessToken string) error
}

type TokenServiceInterface interface {
	GenerateAccessToken(user *models.User) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
}

type PasswordServiceInterface interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
	PasswordStrength(password string) int
}

// TransactionServiceInterface defines expense recording operations
type TransactionServiceInterface interface {
	CreateTransaction(ctx context.Context, userID uuid.UUID, req *dto.CreateTransactionRequest) (*models.Transaction, error)
	ListTransactions(filters models.TransactionFilters) ([]models.Transaction, int64, error)
	GetTransaction(userID, transactionID uuid.UUID) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uuid.UUID) error
}

// BudgetServiceInterface defines per-category spending limit operations
type BudgetServiceInterface interface {
	SetBudget(userID uuid.UUID, category string, limit decimal.Decimal) (*models.Budget, error)
	CheckBudget(userID uuid.UUID, category string) (*models.BudgetStatus, error)
	ListBudgets(userID uuid.UUID) ([]*models.BudgetStatus, error)
	DeleteBudget(userID uuid.UUID, category string) error
}

// ReceiptServiceInterface defines receipt upload and lookup
type ReceiptServiceInterface interface {
	UploadReceipt(ctx context.Context, userID, transactionID uuid.UUID, file io.Reader, size int64) (*models.Receipt, error)
	GetReceipt(userID, transactionID uuid.UUID) (*models.Receipt, error)
}

// ObjectStorageInterface stores receipt files and returns their public location
type ObjectStorageInterface interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

// ModelServiceInterface trains and serves the category predictor
type ModelServiceInterface interface {
	Train(ctx context.Context) (*dto.TrainResult, error)
	Predict(ctx context.Context, amount decimal.Decimal, description string) (string, error)
	Evaluate(ctx context.Context) (*classifier.Report, error)
}

// BankDataClientInterface is the bank-data provider as seen by the bank service
type BankDataClientInterface interface {
	CreateLinkToken(ctx context.Context, clientUserID string) (*dto.LinkTokenResponse, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*dto.ExchangeTokenResponse, error)
	GetTransactions(ctx context.Context, accessToken string, startDate, endDate time.Time) ([]dto.BankTransaction, error)
	GetBalances(ctx context.Context, accessToken string) ([]dto.BankAccountBalance, error)
}

// BankServiceInterface links bank items and imports their transactions
type BankServiceInterface interface {
	CreateLinkToken(ctx context.Context, userID uuid.UUID) (*dto.LinkTokenResponse, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*dto.ExchangeTokenResponse, error)
	FetchTransactions(ctx context.Context, userID uuid.UUID, accessToken string, importTransactions bool) (*dto.BankTransactionsResponse, error)
	GetBalances(ctx context.Context, accessToken string) ([]dto.BankAccountBalance, error)
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}

type CircuitBreakerInterface interface {
	IsOpen() bool
	RecordSuccess()
	RecordFailure()
	GetState() models.CircuitBreakerState
	Reset()
	GetFailureCount() int
}
