package repositories

import (
	"errors"
	"fmt"

	"expense-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrDuplicateExternalID  = errors.New("transaction already imported")
	ErrTransactionNilUserID = errors.New("user ID is required")
)

// transactionRepository implements TransactionRepositoryInterface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction
func (r *transactionRepository) Create(transaction *models.Transaction) error {
	if err := r.db.Create(transaction).Error; err != nil {
		if transaction.ExternalID != nil && isDuplicateKeyError(err) {
			return ErrDuplicateExternalID
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// CreateBatch creates multiple transactions in a single database transaction
func (r *transactionRepository) CreateBatch(transactions []models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&transactions).Error; err != nil {
			if isDuplicateKeyError(err) {
				return ErrDuplicateExternalID
			}
			return fmt.Errorf("failed to create batch transactions: %w", err)
		}
		return nil
	})
}

// GetByIDForUser retrieves a transaction owned by userID. Rows owned by
// someone else are reported as not found.
func (r *transactionRepository) GetByIDForUser(id, userID uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &transaction, nil
}

// ListByUser returns a page of the user's transactions, newest first, plus the
// total matching the filters
func (r *transactionRepository) ListByUser(filters models.TransactionFilters) ([]models.Transaction, int64, error) {
	if filters.UserID == uuid.Nil {
		return nil, 0, ErrTransactionNilUserID
	}

	var transactions []models.Transaction
	var total int64

	query := r.db.Model(&models.Transaction{}).Where("user_id = ?", filters.UserID)

	if filters.Category != "" {
		query = query.Where("category = ?", models.NormalizeCategory(filters.Category))
	}
	if filters.StartDate != nil {
		query = query.Where("occurred_at >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("occurred_at <= ?", *filters.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Order("occurred_at DESC, created_at DESC").Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get transactions: %w", err)
	}

	return transactions, total, nil
}

// DeleteForUser removes an owned transaction together with its receipt row
func (r *transactionRepository) DeleteForUser(id, userID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transaction_id = ? AND user_id = ?", id, userID).
			Delete(&models.Receipt{}).Error; err != nil {
			return fmt.Errorf("failed to delete receipt: %w", err)
		}

		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Transaction{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete transaction: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrTransactionNotFound
		}
		return nil
	})
}

// SumByUserAndCategory totals the user's spending in category. No rows sums to zero.
func (r *transactionRepository) SumByUserAndCategory(userID uuid.UUID, category string) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}

	if err := r.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND category = ?", userID, models.NormalizeCategory(category)).
		Scan(&result).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}

	// sqlite sums decimals as floats
	return result.Total.Round(2), nil
}

// ListLabeled returns every transaction usable as a training example, across
// all users, in insertion order
func (r *transactionRepository) ListLabeled() ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("category <> '' AND category <> ?", models.CategoryUncategorized).
		Order("created_at ASC, id ASC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to list labeled transactions: %w", err)
	}
	return transactions, nil
}

// Count returns the number of stored transactions
func (r *transactionRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Transaction{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// ExistingExternalIDs reports which of externalIDs the user has already imported
func (r *transactionRepository) ExistingExternalIDs(userID uuid.UUID, externalIDs []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(externalIDs) == 0 {
		return existing, nil
	}

	var found []string
	if err := r.db.Model(&models.Transaction{}).
		Where("user_id = ? AND external_id IN ?", userID, externalIDs).
		Pluck("external_id", &found).Error; err != nil {
		return nil, fmt.Errorf("failed to look up external IDs: %w", err)
	}

	for _, id := range found {
		existing[id] = true
	}
	return existing, nil
}
