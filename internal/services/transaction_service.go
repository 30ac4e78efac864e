package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/models"
	"expense-tracker/internal/repositories"

	"github.com/google/uuid"
)

const (
	DefaultTransactionPageSize = 20
	MaxTransactionPageSize     = 100
)

var (
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrPredictionUnavailable = errors.New("category was omitted and no trained model is available")
	ErrInvalidDateRange      = errors.New("start date must not be after end date")
)

// TransactionService records and queries a user's expenses
type TransactionService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	modelService    ModelServiceInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
}

func NewTransactionService(
	transactionRepo repositories.TransactionRepositoryInterface,
	modelService ModelServiceInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) TransactionServiceInterface {
	return &TransactionService{
		transactionRepo: transactionRepo,
		modelService:    modelService,
		metrics:         metrics,
		logger:          logger,
	}
}

// CreateTransaction stores a manual expense. A blank category is filled by
// the predictor.
func (s *TransactionService) CreateTransaction(ctx context.Context, userID uuid.UUID, req *dto.CreateTransactionRequest) (*models.Transaction, error) {
	transaction := &models.Transaction{
		UserID:         userID,
		Amount:         req.Amount,
		Category:       models.NormalizeCategory(req.Category),
		Description:    req.Description,
		Source:         models.TransactionSourceManual,
		CategorySource: models.CategorySourceUser,
	}

	if req.Timestamp != nil {
		transaction.Timestamp = req.Timestamp.UTC()
	} else {
		transaction.Timestamp = time.Now().UTC()
	}

	if transaction.Category == "" {
		category, err := s.modelService.Predict(ctx, req.Amount, req.Description)
		if err != nil {
			if errors.Is(err, ErrModelUnavailable) {
				return nil, ErrPredictionUnavailable
			}
			return nil, fmt.Errorf("failed to predict category: %w", err)
		}
		transaction.Category = models.NormalizeCategory(category)
		transaction.CategorySource = models.CategorySourcePredicted
	}

	if err := transaction.Validate(); err != nil {
		return nil, err
	}

	if err := s.transactionRepo.Create(transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	if s.metrics != nil {
		s.metrics.IncrementCounter(MetricTransactionCreated, map[string]string{
			"source":          transaction.Source,
			"category_source": transaction.CategorySource,
		})
	}

	s.logger.Info("transaction recorded",
		"user_id", userID,
		"transaction_id", transaction.ID,
		"category", transaction.Category,
		"predicted", transaction.IsPredicted())

	return transaction, nil
}

// ListTransactions returns one page of the user's transactions, newest first
func (s *TransactionService) ListTransactions(filters models.TransactionFilters) ([]models.Transaction, int64, error) {
	if filters.Limit <= 0 {
		filters.Limit = DefaultTransactionPageSize
	}
	if filters.Limit > MaxTransactionPageSize {
		filters.Limit = MaxTransactionPageSize
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	if filters.StartDate != nil && filters.EndDate != nil && filters.StartDate.After(*filters.EndDate) {
		return nil, 0, ErrInvalidDateRange
	}

	filters.Category = models.NormalizeCategory(filters.Category)

	transactions, total, err := s.transactionRepo.ListByUser(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, total, nil
}

// GetTransaction returns a transaction the user owns
func (s *TransactionService) GetTransaction(userID, transactionID uuid.UUID) (*models.Transaction, error) {
	transaction, err := s.transactionRepo.GetByIDForUser(transactionID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return transaction, nil
}

// DeleteTransaction removes a transaction the user owns, with its receipt
func (s *TransactionService) DeleteTransaction(userID, transactionID uuid.UUID) error {
	if err := s.transactionRepo.DeleteForUser(transactionID, userID); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.logger.Info("transaction deleted", "user_id", userID, "transaction_id", transactionID)
	return nil
}
