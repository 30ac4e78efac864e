package services

import (
	"errors"
	"fmt"
	"log/slog"

	"expense-tracker/internal/models"
	"expense-tracker/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrBudgetNotFound = errors.New("budget not found")
)

// BudgetService manages per-category spending limits
type BudgetService struct {
	budgetRepo      repositories.BudgetRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
}

func NewBudgetService(
	budgetRepo repositories.BudgetRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) BudgetServiceInterface {
	return &BudgetService{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
		metrics:         metrics,
		logger:          logger,
	}
}

// SetBudget creates or replaces the user's limit for category
func (s *BudgetService) SetBudget(userID uuid.UUID, category string, limit decimal.Decimal) (*models.Budget, error) {
	budget := &models.Budget{
		UserID:   userID,
		Category: models.NormalizeCategory(category),
		Limit:    limit,
	}

	if err := budget.Validate(); err != nil {
		return nil, err
	}

	if err := s.budgetRepo.Upsert(budget); err != nil {
		return nil, fmt.Errorf("failed to set budget: %w", err)
	}

	s.logger.Info("budget set",
		"user_id", userID,
		"category", budget.Category,
		"limit", budget.Limit.String())

	return budget, nil
}

// CheckBudget compares the user's total spending in category with its limit.
// Without a stored limit the category is never exceeded.
func (s *BudgetService) CheckBudget(userID uuid.UUID, category string) (*models.BudgetStatus, error) {
	category = models.NormalizeCategory(category)
	if category == "" {
		return nil, models.ErrCategoryRequired
	}

	var limit *decimal.Decimal
	budget, err := s.budgetRepo.GetByUserAndCategory(userID, category)
	switch {
	case err == nil:
		limit = &budget.Limit
	case errors.Is(err, repositories.ErrBudgetNotFound):
	default:
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	return s.evaluate(userID, category, limit)
}

// ListBudgets checks every budget the user has set
func (s *BudgetService) ListBudgets(userID uuid.UUID) ([]*models.BudgetStatus, error) {
	budgets, err := s.budgetRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	statuses := make([]*models.BudgetStatus, 0, len(budgets))
	for i := range budgets {
		status, err := s.evaluate(userID, budgets[i].Category, &budgets[i].Limit)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}

// DeleteBudget removes the user's limit for category
func (s *BudgetService) DeleteBudget(userID uuid.UUID, category string) error {
	if err := s.budgetRepo.Delete(userID, category); err != nil {
		if errors.Is(err, repositories.ErrBudgetNotFound) {
			return ErrBudgetNotFound
		}
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}

func (s *BudgetService) evaluate(userID uuid.UUID, category string, limit *decimal.Decimal) (*models.BudgetStatus, error) {
	spent, err := s.transactionRepo.SumByUserAndCategory(userID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to sum spending: %w", err)
	}

	status := models.EvaluateBudget(category, spent, limit)
	s.recordCheck(status)

	return status, nil
}

func (s *BudgetService) recordCheck(status *models.BudgetStatus) {
	if s.metrics == nil {
		return
	}

	result := "within"
	switch {
	case !status.HasLimit:
		result = "no_limit"
	case status.Exceeded:
		result = "exceeded"
	}

	s.metrics.IncrementCounter(MetricBudgetCheck, map[string]string{"result": result})
}
