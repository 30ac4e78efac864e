package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionSourceManual = "manual"
	TransactionSourceBank   = "bank"

	CategorySourceUser      = "user"
	CategorySourceBank      = "bank"
	CategorySourcePredicted = "predicted"

	CategoryUncategorized = "uncategorized"

	MaxCategoryLength = 50
)

var (
	ErrInvalidAmount         = errors.New("transaction amount must be positive")
	ErrCategoryRequired      = errors.New("transaction category is required")
	ErrCategoryTooLong       = errors.New("category too long")
	ErrInvalidSource         = errors.New("invalid transaction source")
	ErrInvalidCategorySource = errors.New("invalid category source")
)

// Transaction is a single recorded expense. Rows are never updated, only deleted.
type Transaction struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Category       string          `gorm:"type:varchar(50);not null;index" json:"category"`
	Description    string          `gorm:"type:text" json:"description"`
	Source         string          `gorm:"type:varchar(20);not null;default:'manual'" json:"source"`
	CategorySource string          `gorm:"type:varchar(20);not null;default:'user'" json:"category_source"`
	ExternalID     *string         `gorm:"type:varchar(100)" json:"external_id,omitempty"`
	Timestamp      time.Time       `gorm:"column:occurred_at;not null;index" json:"timestamp"`
	CreatedAt      time.Time       `gorm:"not null" json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate hook for Transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	now := time.Now()

	if t.Source == "" {
		t.Source = TransactionSourceManual
	}
	if t.CategorySource == "" {
		t.CategorySource = CategorySourceUser
	}

	// Set timestamps if not already set (for tests)
	if t.Timestamp.IsZero() {
		t.Timestamp = now
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}

	t.Category = NormalizeCategory(t.Category)

	return t.Validate()
}

// Validate validates the transaction fields
func (t *Transaction) Validate() error {
	if t.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if t.Category == "" {
		return ErrCategoryRequired
	}

	if len(t.Category) > MaxCategoryLength {
		return ErrCategoryTooLong
	}

	if t.Source != TransactionSourceManual && t.Source != TransactionSourceBank {
		return ErrInvalidSource
	}

	switch t.CategorySource {
	case CategorySourceUser, CategorySourceBank, CategorySourcePredicted:
	default:
		return ErrInvalidCategorySource
	}

	return nil
}

// IsPredicted reports whether the category was filled in by the predictor
func (t *Transaction) IsPredicted() bool {
	return t.CategorySource == CategorySourcePredicted
}

func (t *Transaction) TableName() string {
	return "transactions"
}

// NormalizeCategory trims and lower-cases a category label so budgets and
// transactions compare equal regardless of how the client spelled them.
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// TransactionFilters contains filtering options for transaction queries
type TransactionFilters struct {
	UserID    uuid.UUID
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
	Offset    int
	Limit     int
}
