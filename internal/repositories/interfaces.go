package repositories

import (
	"time"

	"expense-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	ExistsByUsername(username string) (bool, error)
	UpdateLastLogin(userID uuid.UUID, at time.Time) error
}

// TransactionRepositoryInterface defines the contract for transaction repository operations
type TransactionRepositoryInterface interface {
	Create(transaction *models.Transaction) error
	CreateBatch(transactions []models.Transaction) error
	GetByIDForUser(id, userID uuid.UUID) (*models.Transaction, error)
	ListByUser(filters models.TransactionFilters) ([]models.Transaction, int64, error)
	DeleteForUser(id, userID uuid.UUID) error
	SumByUserAndCategory(userID uuid.UUID, category string) (decimal.Decimal, error)
	ListLabeled() ([]models.Transaction, error)
	Count() (int64, error)
	ExistingExternalIDs(userID uuid.UUID, externalIDs []string) (map[string]bool, error)
}

// BudgetRepositoryInterface defines the contract for budget repository operations
type BudgetRepositoryInterface interface {
	Upsert(budget *models.Budget) error
	GetByUserAndCategory(userID uuid.UUID, category string) (*models.Budget, error)
	ListByUser(userID uuid.UUID) ([]models.Budget, error)
	Delete(userID uuid.UUID, category string) error
}

// ReceiptRepositoryInterface defines the contract for receipt repository operations
type ReceiptRepositoryInterface interface {
	Upsert(receipt *models.Receipt) error
	GetByTransactionForUser(transactionID, userID uuid.UUID) (*models.Receipt, error)
	DeleteByTransaction(transactionID uuid.UUID) error
}

// BlacklistedTokenRepositoryInterface defines the contract for blacklisted token repository operations
type BlacklistedTokenRepositoryInterface interface {
	Create(token *models.BlacklistedToken) error
	GetByJTI(jti string) (*models.BlacklistedToken, error)
	IsBlacklisted(jti string) (bool, error)
	DeleteExpired() (int64, error)
}
