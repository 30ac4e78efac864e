package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"expense-tracker/internal/config"
	"expense-tracker/internal/dto"
	"expense-tracker/internal/models"
	"expense-tracker/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultBankStartDate = "2024-01-01"

var (
	ErrBankUnavailable   = errors.New("bank data provider request failed")
	ErrBankCircuitOpen   = errors.New("bank data provider is temporarily unavailable")
	ErrBankNotConfigured = errors.New("bank data provider is not configured")
)

// BankService links bank items through the data provider and imports their
// outflows as transactions
type BankService struct {
	client          BankDataClientInterface
	transactionRepo repositories.TransactionRepositoryInterface
	modelService    ModelServiceInterface
	breaker         CircuitBreakerInterface
	config          *config.BankConfig
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
	now             func() time.Time
}

func NewBankService(
	client BankDataClientInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	modelService ModelServiceInterface,
	breaker CircuitBreakerInterface,
	cfg *config.BankConfig,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) BankServiceInterface {
	return &BankService{
		client:          client,
		transactionRepo: transactionRepo,
		modelService:    modelService,
		breaker:         breaker,
		config:          cfg,
		metrics:         metrics,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *BankService) CreateLinkToken(ctx context.Context, userID uuid.UUID) (*dto.LinkTokenResponse, error) {
	return callBank(s, ctx, "link_token", func(ctx context.Context) (*dto.LinkTokenResponse, error) {
		return s.client.CreateLinkToken(ctx, userID.String())
	})
}

func (s *BankService) ExchangePublicToken(ctx context.Context, publicToken string) (*dto.ExchangeTokenResponse, error) {
	return callBank(s, ctx, "exchange", func(ctx context.Context) (*dto.ExchangeTokenResponse, error) {
		return s.client.ExchangePublicToken(ctx, publicToken)
	})
}

func (s *BankService) GetBalances(ctx context.Context, accessToken string) ([]dto.BankAccountBalance, error) {
	return callBank(s, ctx, "balances", func(ctx context.Context) ([]dto.BankAccountBalance, error) {
		return s.client.GetBalances(ctx, accessToken)
	})
}

// FetchTransactions reads the bank transactions from the configured start
// date to today. With importTransactions set, posted outflows not seen before
// are stored for userID.
func (s *BankService) FetchTransactions(ctx context.Context, userID uuid.UUID, accessToken string, importTransactions bool) (*dto.BankTransactionsResponse, error) {
	start, end := s.window()

	bankTxs, err := callBank(s, ctx, "transactions", func(ctx context.Context) ([]dto.BankTransaction, error) {
		return s.client.GetTransactions(ctx, accessToken, start, end)
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.BankTransactionsResponse{
		StartDate:    start.Format(plaidDateLayout),
		EndDate:      end.Format(plaidDateLayout),
		Transactions: bankTxs,
	}
	if resp.Transactions == nil {
		resp.Transactions = []dto.BankTransaction{}
	}

	if !importTransactions {
		return resp, nil
	}

	imported, skipped, err := s.importTransactions(ctx, userID, bankTxs)
	if err != nil {
		return nil, err
	}
	resp.Imported = imported
	resp.Skipped = skipped

	return resp, nil
}

func (s *BankService) importTransactions(ctx context.Context, userID uuid.UUID, bankTxs []dto.BankTransaction) (int, int, error) {
	ids := make([]string, 0, len(bankTxs))
	for _, bt := range bankTxs {
		ids = append(ids, bt.TransactionID)
	}

	seen, err := s.transactionRepo.ExistingExternalIDs(userID, ids)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to check imported transactions: %w", err)
	}
	if seen == nil {
		seen = make(map[string]bool)
	}

	var batch []models.Transaction
	skipped := 0

	for _, bt := range bankTxs {
		if bt.TransactionID == "" || bt.Pending || !bt.Amount.IsPositive() || seen[bt.TransactionID] {
			skipped++
			continue
		}
		seen[bt.TransactionID] = true

		batch = append(batch, s.toTransaction(ctx, userID, bt))
	}

	if len(batch) > 0 {
		if err := s.transactionRepo.CreateBatch(batch); err != nil {
			return 0, 0, fmt.Errorf("failed to import bank transactions: %w", err)
		}
	}

	if s.metrics != nil {
		s.metrics.RecordGauge(MetricBankImport, float64(len(batch)), map[string]string{"outcome": "imported"})
		s.metrics.RecordGauge(MetricBankImport, float64(skipped), map[string]string{"outcome": "skipped"})
	}

	s.logger.Info("bank transactions imported",
		"user_id", userID,
		"imported", len(batch),
		"skipped", skipped)

	return len(batch), skipped, nil
}

// toTransaction picks the category from the bank, then the predictor, then
// falls back to uncategorized
func (s *BankService) toTransaction(ctx context.Context, userID uuid.UUID, bt dto.BankTransaction) models.Transaction {
	externalID := bt.TransactionID

	description := bt.MerchantName
	if description == "" {
		description = bt.Name
	}

	occurredAt, err := time.Parse(plaidDateLayout, bt.Date)
	if err != nil {
		occurredAt = s.now().UTC()
	}

	tx := models.Transaction{
		UserID:         userID,
		Amount:         bt.Amount.Round(2),
		Description:    description,
		Source:         models.TransactionSourceBank,
		CategorySource: models.CategorySourceBank,
		ExternalID:     &externalID,
		Timestamp:      occurredAt,
	}

	if category := truncateCategory(models.NormalizeCategory(bt.Category)); category != "" {
		tx.Category = category
		return tx
	}

	category, err := s.predict(ctx, bt.Amount, description)
	if err == nil && category != "" {
		tx.Category = category
		tx.CategorySource = models.CategorySourcePredicted
		return tx
	}

	tx.Category = models.CategoryUncategorized
	return tx
}

func (s *BankService) predict(ctx context.Context, amount decimal.Decimal, description string) (string, error) {
	if s.modelService == nil {
		return "", ErrModelUnavailable
	}
	category, err := s.modelService.Predict(ctx, amount, description)
	if err != nil {
		return "", err
	}
	return truncateCategory(models.NormalizeCategory(category)), nil
}

func (s *BankService) window() (time.Time, time.Time) {
	end := s.now().UTC()

	startDate := defaultBankStartDate
	if s.config != nil && s.config.StartDate != "" {
		startDate = s.config.StartDate
	}

	start, err := time.Parse(plaidDateLayout, startDate)
	if err != nil {
		s.logger.Warn("invalid bank start date, using default", "start_date", startDate)
		start, _ = time.Parse(plaidDateLayout, defaultBankStartDate)
	}
	if start.After(end) {
		start = end
	}

	return start, end
}

func (s *BankService) configured() bool {
	return s.config != nil && s.config.ClientID != "" && s.config.Secret != ""
}

// callBank runs one provider call behind the circuit breaker and records
// its outcome
func callBank[T any](s *BankService, ctx context.Context, operation string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	if !s.configured() {
		return zero, ErrBankNotConfigured
	}

	if s.breaker != nil && s.breaker.IsOpen() {
		s.recordCall(operation, "circuit_open")
		return zero, ErrBankCircuitOpen
	}

	start := s.now()
	result, err := fn(ctx)
	if s.metrics != nil {
		s.metrics.RecordProcessingTime(MetricBankCall+"."+operation, s.now().Sub(start))
	}

	if err != nil {
		if s.breaker != nil {
			s.breaker.RecordFailure()
		}
		s.recordCall(operation, "failed")
		s.logger.Error("bank call failed",
			"operation", operation,
			"error", err)
		return zero, fmt.Errorf("%w: %v", ErrBankUnavailable, err)
	}

	if s.breaker != nil {
		s.breaker.RecordSuccess()
	}
	s.recordCall(operation, "success")

	return result, nil
}

func (s *BankService) recordCall(operation, status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementCounter(MetricBankCall, map[string]string{"operation": operation, "status": status})
}

func truncateCategory(category string) string {
	if len(category) > models.MaxCategoryLength {
		return category[:models.MaxCategoryLength]
	}
	return category
}
