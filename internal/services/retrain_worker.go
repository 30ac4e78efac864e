package services

import (
	"context"
	"log/slog"
	"time"

	"expense-tracker/internal/config"
	"expense-tracker/internal/repositories"
)

const (
	defaultRetrainInterval = time.Hour
	defaultRetrainEvery    = 100
)

// RetrainWorker periodically retrains the predictor once the transaction
// count has grown past another multiple of every
type RetrainWorker struct {
	modelService    ModelServiceInterface
	transactionRepo repositories.TransactionRepositoryInterface
	interval        time.Duration
	every           int64
	lastBucket      int64
	logger          *slog.Logger
}

func NewRetrainWorker(
	modelService ModelServiceInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	cfg *config.ModelConfig,
	logger *slog.Logger,
) *RetrainWorker {
	interval := defaultRetrainInterval
	every := int64(defaultRetrainEvery)
	if cfg != nil {
		if cfg.RetrainInterval > 0 {
			interval = cfg.RetrainInterval
		}
		if cfg.RetrainEvery > 0 {
			every = int64(cfg.RetrainEvery)
		}
	}

	return &RetrainWorker{
		modelService:    modelService,
		transactionRepo: transactionRepo,
		interval:        interval,
		every:           every,
		logger:          logger,
	}
}

// StartProcessing blocks until ctx is cancelled
func (w *RetrainWorker) StartProcessing(ctx context.Context) {
	w.logger.Info("starting model retrain worker",
		slog.Duration("interval", w.interval),
		slog.Int64("every", w.every),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("model retrain worker stopped")
			return

		case <-ticker.C:
			w.checkAndRetrain(ctx)
		}
	}
}

// checkAndRetrain reports whether a training run was started
func (w *RetrainWorker) checkAndRetrain(ctx context.Context) bool {
	count, err := w.transactionRepo.Count()
	if err != nil {
		w.logger.Error("failed to count transactions",
			slog.String("error", err.Error()),
		)
		return false
	}

	bucket := count / w.every
	if bucket <= w.lastBucket {
		return false
	}

	w.logger.Info("retraining model with new transactions",
		slog.Int64("transactions", count),
	)

	result, err := w.modelService.Train(ctx)
	if err != nil {
		w.logger.Error("scheduled retrain failed",
			slog.String("error", err.Error()),
		)
		return true
	}

	w.lastBucket = bucket
	w.logger.Info("scheduled retrain finished",
		slog.Bool("trained", result.Trained),
		slog.Int("samples", result.SampleCount),
	)

	return true
}
