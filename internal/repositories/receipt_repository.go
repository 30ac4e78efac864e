package repositories

import (
	"errors"
	"fmt"

	"expense-tracker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrReceiptNotFound = errors.New("receipt not found")
)

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) ReceiptRepositoryInterface {
	return &receiptRepository{db: db}
}

// Upsert writes the receipt for receipt.TransactionID, replacing an earlier upload
func (r *receiptRepository) Upsert(receipt *models.Receipt) error {
	if receipt == nil {
		return errors.New("receipt cannot be nil")
	}
	if err := receipt.Validate(); err != nil {
		return err
	}

	var stored models.Receipt
	err := r.db.
		Where(models.Receipt{TransactionID: receipt.TransactionID}).
		Assign(map[string]interface{}{
			"user_id":      receipt.UserID,
			"storage_path": receipt.StoragePath,
			"content_type": receipt.ContentType,
			"size_bytes":   receipt.SizeBytes,
		}).
		FirstOrCreate(&stored).Error
	if err != nil {
		return fmt.Errorf("failed to upsert receipt: %w", err)
	}

	*receipt = stored
	return nil
}

// GetByTransactionForUser returns the receipt attached to an owned transaction
func (r *receiptRepository) GetByTransactionForUser(transactionID, userID uuid.UUID) (*models.Receipt, error) {
	var receipt models.Receipt
	err := r.db.Where("transaction_id = ? AND user_id = ?", transactionID, userID).First(&receipt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReceiptNotFound
		}
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	return &receipt, nil
}

// DeleteByTransaction drops the receipt row of a transaction, if any
func (r *receiptRepository) DeleteByTransaction(transactionID uuid.UUID) error {
	if err := r.db.Where("transaction_id = ?", transactionID).Delete(&models.Receipt{}).Error; err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}
	return nil
}
