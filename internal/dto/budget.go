package dto

import "github.com/shopspring/decimal"

// SetBudgetRequest sets or replaces the limit for a category
type SetBudgetRequest struct {
	Category string          `json:"category" validate:"required,category"`
	Limit    decimal.Decimal `json:"limit" validate:"required,positive_amount"`
}

// CheckBudgetRequest asks whether a category is over its limit
type CheckBudgetRequest struct {
	Category string `json:"category" validate:"required,category"`
}
