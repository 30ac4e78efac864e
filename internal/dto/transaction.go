package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTransactionRequest records a new expense. A blank category asks the
// predictor to choose one.
type CreateTransactionRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required,transaction_amount"`
	Category    string          `json:"category" validate:"omitempty,category"`
	Description string          `json:"description" validate:"max=500"`
	Timestamp   *time.Time      `json:"timestamp"`
}

// TransactionListQuery contains filtering and pagination options for listing transactions
type TransactionListQuery struct {
	Category string `query:"category" validate:"omitempty,category"`
	From     string `query:"from"`
	To       string `query:"to"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset   int    `query:"offset" validate:"omitempty,min=0"`
}

// PaginationInfo contains pagination metadata
type PaginationInfo struct {
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"has_more"`
}
