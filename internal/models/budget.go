package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInvalidBudgetLimit = errors.New("budget limit must be positive")
)

// Budget is the spending limit a user set for one category. There is at most
// one row per (user, category); setting it again overwrites the limit.
type Budget struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_user_category" json:"user_id"`
	Category  string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_budgets_user_category" json:"category"`
	Limit     decimal.Decimal `gorm:"column:limit_amount;type:decimal(15,2);not null" json:"limit"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now
	}

	b.Category = NormalizeCategory(b.Category)

	return b.Validate()
}

func (b *Budget) Validate() error {
	if b.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}

	if b.Category == "" {
		return ErrCategoryRequired
	}

	if len(b.Category) > MaxCategoryLength {
		return ErrCategoryTooLong
	}

	if b.Limit.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidBudgetLimit
	}

	return nil
}

func (b *Budget) TableName() string {
	return "budgets"
}

// BudgetStatus is the outcome of comparing a category's spending to its limit
type BudgetStatus struct {
	Category  string           `json:"category"`
	Spent     decimal.Decimal  `json:"spent"`
	Limit     *decimal.Decimal `json:"limit"`
	Remaining *decimal.Decimal `json:"remaining"`
	HasLimit  bool             `json:"has_limit"`
	Exceeded  bool             `json:"exceeded"`
}

// EvaluateBudget compares spent against limit. A nil limit means no budget was
// set, which never counts as exceeded. Spending exactly the limit is not exceeded.
func EvaluateBudget(category string, spent decimal.Decimal, limit *decimal.Decimal) *BudgetStatus {
	status := &BudgetStatus{
		Category: category,
		Spent:    spent,
	}

	if limit == nil {
		return status
	}

	remaining := limit.Sub(spent)
	status.Limit = limit
	status.Remaining = &remaining
	status.HasLimit = true
	status.Exceeded = spent.GreaterThan(*limit)

	return status
}
