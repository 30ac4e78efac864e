package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Receipt points at the uploaded image or document backing a transaction.
// Each transaction has at most one receipt.
type Receipt struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TransactionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"transaction_id"`
	StoragePath   string    `gorm:"type:text;not null" json:"storage_path"`
	ContentType   string    `gorm:"type:varchar(100)" json:"content_type"`
	SizeBytes     int64     `json:"size_bytes"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`

	User        User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Transaction Transaction `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}

	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = now
	}

	return r.Validate()
}

func (r *Receipt) Validate() error {
	if r.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}
	if r.TransactionID == uuid.Nil {
		return errors.New("transaction ID is required")
	}
	if r.StoragePath == "" {
		return errors.New("storage path is required")
	}
	return nil
}

func (r *Receipt) TableName() string {
	return "receipts"
}
