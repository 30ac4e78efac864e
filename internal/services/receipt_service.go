package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"expense-tracker/internal/config"
	"expense-tracker/internal/models"
	"expense-tracker/internal/repositories"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const DefaultMaxReceiptBytes int64 = 10 << 20

var (
	ErrReceiptNotFound        = errors.New("receipt not found")
	ErrReceiptTooLarge        = errors.New("receipt file is too large")
	ErrReceiptEmpty           = errors.New("receipt file is empty")
	ErrReceiptUnsupportedType = errors.New("receipt file type is not supported")
	ErrReceiptUploadFailed    = errors.New("receipt upload failed")

	allowedReceiptTypes = []string{
		"image/png",
		"image/jpeg",
		"image/gif",
		"image/webp",
		"application/pdf",
	}
)

// ReceiptService uploads receipt files to object storage and records where
// they were stored
type ReceiptService struct {
	receiptRepo     repositories.ReceiptRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	storage         ObjectStorageInterface
	breaker         CircuitBreakerInterface
	maxBytes        int64
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
}

func NewReceiptService(
	receiptRepo repositories.ReceiptRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	storage ObjectStorageInterface,
	breaker CircuitBreakerInterface,
	cfg *config.StorageConfig,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) ReceiptServiceInterface {
	maxBytes := DefaultMaxReceiptBytes
	if cfg != nil && cfg.MaxReceiptBytes > 0 {
		maxBytes = cfg.MaxReceiptBytes
	}

	return &ReceiptService{
		receiptRepo:     receiptRepo,
		transactionRepo: transactionRepo,
		storage:         storage,
		breaker:         breaker,
		maxBytes:        maxBytes,
		metrics:         metrics,
		logger:          logger,
	}
}

// UploadReceipt stores file as the receipt of an owned transaction. The
// receipt row is only written once the upload succeeded.
func (s *ReceiptService) UploadReceipt(ctx context.Context, userID, transactionID uuid.UUID, file io.Reader, size int64) (*models.Receipt, error) {
	if size > s.maxBytes {
		return nil, ErrReceiptTooLarge
	}

	if _, err := s.transactionRepo.GetByIDForUser(transactionID, userID); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	data, err := io.ReadAll(io.LimitReader(file, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read receipt: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrReceiptTooLarge
	}
	if len(data) == 0 {
		return nil, ErrReceiptEmpty
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedReceiptTypes...) {
		s.logger.Warn("rejected receipt upload",
			"user_id", userID,
			"transaction_id", transactionID,
			"content_type", mtype.String())
		return nil, fmt.Errorf("%w: %s", ErrReceiptUnsupportedType, mtype.String())
	}

	key := fmt.Sprintf("receipts/%s/%s%s", userID, transactionID, mtype.Extension())

	location, err := s.upload(ctx, key, data, mtype.String())
	if err != nil {
		s.recordUpload("failed")
		s.logger.Error("receipt upload failed",
			"error", err,
			"user_id", userID,
			"transaction_id", transactionID)
		return nil, fmt.Errorf("%w: %v", ErrReceiptUploadFailed, err)
	}

	receipt := &models.Receipt{
		UserID:        userID,
		TransactionID: transactionID,
		StoragePath:   location,
		ContentType:   mtype.String(),
		SizeBytes:     int64(len(data)),
	}
	if err := s.receiptRepo.Upsert(receipt); err != nil {
		s.recordUpload("failed")
		return nil, fmt.Errorf("failed to save receipt: %w", err)
	}

	s.recordUpload("success")
	s.logger.Info("receipt uploaded",
		"user_id", userID,
		"transaction_id", transactionID,
		"size_bytes", receipt.SizeBytes)

	return receipt, nil
}

// GetReceipt returns the receipt of an owned transaction
func (s *ReceiptService) GetReceipt(userID, transactionID uuid.UUID) (*models.Receipt, error) {
	receipt, err := s.receiptRepo.GetByTransactionForUser(transactionID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrReceiptNotFound) {
			return nil, ErrReceiptNotFound
		}
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	return receipt, nil
}

func (s *ReceiptService) upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if s.breaker != nil && s.breaker.IsOpen() {
		return "", ErrCircuitBreakerOpen
	}

	location, err := s.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if s.breaker != nil {
		if err != nil {
			s.breaker.RecordFailure()
		} else {
			s.breaker.RecordSuccess()
		}
	}

	return location, err
}

func (s *ReceiptService) recordUpload(status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementCounter(MetricReceiptUpload, map[string]string{"status": status})
}
