package repositories

import (
	"errors"
	"fmt"

	"expense-tracker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBudgetNotFound = errors.New("budget not found")
)

type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *gorm.DB) BudgetRepositoryInterface {
	return &budgetRepository{db: db}
}

// Upsert stores budget.Limit for (budget.UserID, budget.Category), replacing any
// earlier limit. budget is filled with the persisted row.
func (r *budgetRepository) Upsert(budget *models.Budget) error {
	if budget == nil {
		return errors.New("budget cannot be nil")
	}

	budget.Category = models.NormalizeCategory(budget.Category)
	if err := budget.Validate(); err != nil {
		return err
	}

	stored, err := r.upsert(budget)
	if isDuplicateKeyError(err) {
		// lost a race with a concurrent insert; the row exists now
		stored, err = r.upsert(budget)
	}
	if err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}

	*budget = *stored
	return nil
}

func (r *budgetRepository) upsert(budget *models.Budget) (*models.Budget, error) {
	var stored models.Budget
	err := r.db.
		Where(models.Budget{UserID: budget.UserID, Category: budget.Category}).
		Assign(models.Budget{Limit: budget.Limit}).
		FirstOrCreate(&stored).Error
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// GetByUserAndCategory returns the user's limit for category
func (r *budgetRepository) GetByUserAndCategory(userID uuid.UUID, category string) (*models.Budget, error) {
	var budget models.Budget
	err := r.db.Where("user_id = ? AND category = ?", userID, models.NormalizeCategory(category)).
		First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return &budget, nil
}

// ListByUser returns all of the user's budgets ordered by category
func (r *budgetRepository) ListByUser(userID uuid.UUID) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := r.db.Where("user_id = ?", userID).
		Order("category ASC").
		Find(&budgets).Error; err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}

// Delete removes the user's limit for category
func (r *budgetRepository) Delete(userID uuid.UUID, category string) error {
	result := r.db.Where("user_id = ? AND category = ?", userID, models.NormalizeCategory(category)).
		Delete(&models.Budget{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete budget: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBudgetNotFound
	}
	return nil
}
