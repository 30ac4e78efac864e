package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"expense-tracker/internal/classifier"
	"expense-tracker/internal/config"
	"expense-tracker/internal/dto"
	"expense-tracker/internal/repositories"

	"github.com/shopspring/decimal"
)

var (
	ErrModelUnavailable  = errors.New("no trained model is available")
	ErrNoLabeledData     = errors.New("no labeled transactions to evaluate against")
	ErrModelTrainingFail = errors.New("model training failed")
)

// ModelService trains the category predictor on the labeled transaction
// history and serves predictions from the stored artifact
type ModelService struct {
	store           classifier.Store
	transactionRepo repositories.TransactionRepositoryInterface
	minSamples      int
	metrics         MetricsRecorderInterface
	logger          *slog.Logger

	mu     sync.RWMutex
	cached *classifier.Model
	now    func() time.Time
}

func NewModelService(
	store classifier.Store,
	transactionRepo repositories.TransactionRepositoryInterface,
	cfg *config.ModelConfig,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) ModelServiceInterface {
	minSamples := classifier.DefaultMinSamples
	if cfg != nil && cfg.MinTrainingSamples > 0 {
		minSamples = cfg.MinTrainingSamples
	}

	return &ModelService{
		store:           store,
		transactionRepo: transactionRepo,
		minSamples:      minSamples,
		metrics:         metrics,
		logger:          logger,
		now:             time.Now,
	}
}

// Train refits the model on all labeled transactions. With too little data it
// reports Trained=false and the stored artifact is left untouched.
func (s *ModelService) Train(ctx context.Context) (*dto.TrainResult, error) {
	start := s.now()

	samples, err := s.labeledSamples()
	if err != nil {
		s.recordTraining("failed", 0)
		return nil, err
	}

	result := &dto.TrainResult{
		SampleCount: len(samples),
		MinSamples:  s.minSamples,
	}

	if len(samples) < s.minSamples {
		s.recordTraining("skipped", 0)
		s.logger.Info("skipping training, not enough labeled transactions",
			"samples", len(samples),
			"min_samples", s.minSamples)
		return result, nil
	}

	model, err := classifier.Train(samples, classifier.WithMinSamples(s.minSamples), classifier.WithClock(s.now))
	if err != nil {
		s.recordTraining("failed", 0)
		return nil, fmt.Errorf("%w: %v", ErrModelTrainingFail, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.store.Save(model); err != nil {
		s.recordTraining("failed", 0)
		return nil, fmt.Errorf("failed to save model: %w", err)
	}

	s.mu.Lock()
	s.cached = model
	s.mu.Unlock()

	elapsed := s.now().Sub(start)
	s.recordTraining("trained", elapsed)
	if s.metrics != nil {
		s.metrics.RecordGauge(MetricModelSampleCount, float64(model.SampleCount), nil)
	}

	trainedAt := model.TrainedAt
	result.Trained = true
	result.Classes = model.Classes()
	result.TrainedAt = &trainedAt
	result.DurationMs = elapsed.Milliseconds()

	s.logger.Info("model trained",
		"samples", model.SampleCount,
		"classes", len(result.Classes),
		"duration_ms", result.DurationMs)

	return result, nil
}

// Predict returns the most likely category for an expense
func (s *ModelService) Predict(ctx context.Context, amount decimal.Decimal, description string) (string, error) {
	start := s.now()

	model, err := s.currentModel()
	if err != nil {
		s.recordPrediction("unavailable")
		return "", err
	}

	category, err := model.Predict(amount.InexactFloat64(), description)
	if err != nil {
		s.recordPrediction("error")
		return "", fmt.Errorf("failed to predict category: %w", err)
	}

	s.recordPrediction("success")
	if s.metrics != nil {
		s.metrics.RecordProcessingTime(MetricPrediction, s.now().Sub(start))
	}

	return category, nil
}

// Evaluate scores the current model against the full labeled history
// without modifying it
func (s *ModelService) Evaluate(ctx context.Context) (*classifier.Report, error) {
	model, err := s.currentModel()
	if err != nil {
		return nil, err
	}

	samples, err := s.labeledSamples()
	if err != nil {
		return nil, err
	}

	report, err := classifier.Evaluate(model, samples)
	if err != nil {
		if errors.Is(err, classifier.ErrNoSamples) {
			return nil, ErrNoLabeledData
		}
		return nil, fmt.Errorf("failed to evaluate model: %w", err)
	}

	return report, nil
}

func (s *ModelService) currentModel() (*classifier.Model, error) {
	s.mu.RLock()
	model := s.cached
	s.mu.RUnlock()

	if model != nil {
		return model, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return s.cached, nil
	}

	model, err := s.store.Load()
	if err != nil {
		if errors.Is(err, classifier.ErrModelNotFound) {
			return nil, ErrModelUnavailable
		}
		s.logger.Error("failed to load model artifact", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	s.cached = model
	return model, nil
}

func (s *ModelService) labeledSamples() ([]classifier.Sample, error) {
	transactions, err := s.transactionRepo.ListLabeled()
	if err != nil {
		return nil, fmt.Errorf("failed to load labeled transactions: %w", err)
	}

	samples := make([]classifier.Sample, len(transactions))
	for i, t := range transactions {
		samples[i] = classifier.Sample{
			Amount:      t.Amount.InexactFloat64(),
			Description: t.Description,
			Category:    t.Category,
		}
	}

	return samples, nil
}

func (s *ModelService) recordTraining(status string, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementCounter(MetricTraining, map[string]string{"status": status})
	if elapsed > 0 {
		s.metrics.RecordProcessingTime(MetricTraining, elapsed)
	}
}

func (s *ModelService) recordPrediction(status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementCounter(MetricPrediction, map[string]string{"status": status})
}
