package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bank request DTOs

// ExchangeTokenRequest carries the public token returned by the bank link UI
type ExchangeTokenRequest struct {
	PublicToken string `json:"public_token" validate:"required"`
}

// BankAccessRequest identifies a linked bank item
type BankAccessRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
}

// FetchBankTransactionsRequest fetches and optionally imports bank transactions
type FetchBankTransactionsRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
	Import      bool   `json:"import"`
}

// Bank response DTOs

// LinkTokenResponse starts the bank link flow on the client
type LinkTokenResponse struct {
	LinkToken  string    `json:"link_token"`
	Expiration time.Time `json:"expiration"`
	RequestID  string    `json:"request_id,omitempty"`
}

// ExchangeTokenResponse holds the long-lived access token for a linked item
type ExchangeTokenResponse struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
	RequestID   string `json:"request_id,omitempty"`
}

// BankTransaction is one transaction as reported by the bank. Positive amounts
// are money leaving the account.
type BankTransaction struct {
	TransactionID string          `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Name          string          `json:"name"`
	MerchantName  string          `json:"merchant_name,omitempty"`
	Category      string          `json:"category,omitempty"`
	Pending       bool            `json:"pending"`
}

// BankTransactionsResponse lists fetched transactions and the import outcome
type BankTransactionsResponse struct {
	StartDate    string            `json:"start_date"`
	EndDate      string            `json:"end_date"`
	Transactions []BankTransaction `json:"transactions"`
	Imported     int               `json:"imported"`
	Skipped      int               `json:"skipped"`
}

// BankAccountBalance reports an account's balances
type BankAccountBalance struct {
	AccountID    string           `json:"account_id"`
	Name         string           `json:"name"`
	Mask         string           `json:"mask,omitempty"`
	Type         string           `json:"type"`
	Subtype      string           `json:"subtype,omitempty"`
	Current      *decimal.Decimal `json:"current"`
	Available    *decimal.Decimal `json:"available"`
	CurrencyCode string           `json:"currency_code,omitempty"`
}
