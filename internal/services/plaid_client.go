package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"expense-tracker/internal/config"
	"expense-tracker/internal/dto"

	"github.com/shopspring/decimal"
)

const (
	plaidAPIVersion       = "2020-09-14"
	plaidDateLayout       = "2006-01-02"
	plaidTransactionsPage = 500
)

var (
	ErrBankRequestFailed = errors.New("bank data request failed")
)

// PlaidError is the error body Plaid returns on non-2xx responses
type PlaidError struct {
	StatusCode     int    `json:"-"`
	ErrorType      string `json:"error_type"`
	ErrorCode      string `json:"error_code"`
	ErrorMessage   string `json:"error_message"`
	DisplayMessage string `json:"display_message"`
	RequestID      string `json:"request_id"`
}

func (e *PlaidError) Error() string {
	return fmt.Sprintf("plaid %s/%s (status %d): %s", e.ErrorType, e.ErrorCode, e.StatusCode, e.ErrorMessage)
}

func (e *PlaidError) Unwrap() error {
	return ErrBankRequestFailed
}

// AuthTransport adds the Plaid credentials to every request
type AuthTransport struct {
	clientID string
	secret   string
	base     http.RoundTripper
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	req.Header.Set("PLAID-CLIENT-ID", t.clientID)
	req.Header.Set("PLAID-SECRET", t.secret)
	req.Header.Set("Plaid-Version", plaidAPIVersion)
	req.Header.Set("Content-Type", "application/json")

	return t.base.RoundTrip(req)
}

// PlaidClient talks to the Plaid REST API
type PlaidClient struct {
	config *config.BankConfig
	client *http.Client
	logger *slog.Logger
}

// NewPlaidClient creates a Plaid client for cfg.BaseURL
func NewPlaidClient(cfg *config.BankConfig, logger *slog.Logger) BankDataClientInterface {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &http.Client{
		Transport: &AuthTransport{
			clientID: cfg.ClientID,
			secret:   cfg.Secret,
			base:     http.DefaultTransport,
		},
		Timeout: timeout,
	}

	return &PlaidClient{
		config: cfg,
		client: client,
		logger: logger,
	}
}

func (c *PlaidClient) buildRequest(ctx context.Context, path string, body any) (*http.Request, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		strings.TrimRight(c.config.BaseURL, "/")+path,
		bytes.NewReader(b),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return req, nil
}

// do sends req and decodes a 2xx body into out
func (c *PlaidClient) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error(
			"plaid request failed",
			"path", req.URL.Path,
			"error", err,
		)
		return fmt.Errorf("%w: %v", ErrBankRequestFailed, err)
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()

	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		plaidErr := &PlaidError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(body, plaidErr); err != nil || plaidErr.ErrorCode == "" {
			plaidErr.ErrorType = "API_ERROR"
			plaidErr.ErrorCode = "UNEXPECTED_RESPONSE"
			plaidErr.ErrorMessage = http.StatusText(resp.StatusCode)
		}

		c.logger.Warn(
			"plaid returned error",
			"path", req.URL.Path,
			"status", resp.StatusCode,
			"error_code", plaidErr.ErrorCode,
			"request_id", plaidErr.RequestID,
		)
		return plaidErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *PlaidClient) post(ctx context.Context, path string, in, out any) error {
	req, err := c.buildRequest(ctx, path, in)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// Wire types for the subset of the Plaid API in use

type plaidLinkTokenRequest struct {
	ClientName   string        `json:"client_name"`
	Language     string        `json:"language"`
	CountryCodes []string      `json:"country_codes"`
	Products     []string      `json:"products"`
	User         plaidLinkUser `json:"user"`
}

type plaidLinkUser struct {
	ClientUserID string `json:"client_user_id"`
}

type plaidLinkTokenResponse struct {
	LinkToken  string    `json:"link_token"`
	Expiration time.Time `json:"expiration"`
	RequestID  string    `json:"request_id"`
}

type plaidExchangeRequest struct {
	PublicToken string `json:"public_token"`
}

type plaidExchangeResponse struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
	RequestID   string `json:"request_id"`
}

type plaidTransactionsRequest struct {
	AccessToken string                   `json:"access_token"`
	StartDate   string                   `json:"start_date"`
	EndDate     string                   `json:"end_date"`
	Options     plaidTransactionsOptions `json:"options"`
}

type plaidTransactionsOptions struct {
	Count  int `json:"count"`
	Offset int `json:"offset"`
}

type plaidTransactionsResponse struct {
	Transactions      []plaidTransaction `json:"transactions"`
	TotalTransactions int                `json:"total_transactions"`
	RequestID         string             `json:"request_id"`
}

type plaidTransaction struct {
	TransactionID           string          `json:"transaction_id"`
	AccountID               string          `json:"account_id"`
	Amount                  decimal.Decimal `json:"amount"`
	Date                    string          `json:"date"`
	Name                    string          `json:"name"`
	MerchantName            *string         `json:"merchant_name"`
	Pending                 bool            `json:"pending"`
	Category                []string        `json:"category"`
	PersonalFinanceCategory *struct {
		Primary  string `json:"primary"`
		Detailed string `json:"detailed"`
	} `json:"personal_finance_category"`
}

type plaidAccessRequest struct {
	AccessToken string `json:"access_token"`
}

type plaidBalanceResponse struct {
	Accounts []struct {
		AccountID string  `json:"account_id"`
		Name      string  `json:"name"`
		Mask      *string `json:"mask"`
		Type      string  `json:"type"`
		Subtype   *string `json:"subtype"`
		Balances  struct {
			Available       *decimal.Decimal `json:"available"`
			Current         *decimal.Decimal `json:"current"`
			IsoCurrencyCode *string          `json:"iso_currency_code"`
		} `json:"balances"`
	} `json:"accounts"`
	RequestID string `json:"request_id"`
}

func (c *PlaidClient) CreateLinkToken(ctx context.Context, clientUserID string) (*dto.LinkTokenResponse, error) {
	var out plaidLinkTokenResponse
	err := c.post(ctx, "/link/token/create", plaidLinkTokenRequest{
		ClientName:   c.config.ClientName,
		Language:     "en",
		CountryCodes: []string{"US"},
		Products:     []string{"transactions"},
		User:         plaidLinkUser{ClientUserID: clientUserID},
	}, &out)
	if err != nil {
		return nil, err
	}

	return &dto.LinkTokenResponse{
		LinkToken:  out.LinkToken,
		Expiration: out.Expiration,
		RequestID:  out.RequestID,
	}, nil
}

func (c *PlaidClient) ExchangePublicToken(ctx context.Context, publicToken string) (*dto.ExchangeTokenResponse, error) {
	var out plaidExchangeResponse
	if err := c.post(ctx, "/item/public_token/exchange", plaidExchangeRequest{PublicToken: publicToken}, &out); err != nil {
		return nil, err
	}

	return &dto.ExchangeTokenResponse{
		AccessToken: out.AccessToken,
		ItemID:      out.ItemID,
		RequestID:   out.RequestID,
	}, nil
}

// GetTransactions pages through /transactions/get until every transaction in
// the window has been read
func (c *PlaidClient) GetTransactions(ctx context.Context, accessToken string, startDate, endDate time.Time) ([]dto.BankTransaction, error) {
	var result []dto.BankTransaction

	for {
		var out plaidTransactionsResponse
		err := c.post(ctx, "/transactions/get", plaidTransactionsRequest{
			AccessToken: accessToken,
			StartDate:   startDate.Format(plaidDateLayout),
			EndDate:     endDate.Format(plaidDateLayout),
			Options: plaidTransactionsOptions{
				Count:  plaidTransactionsPage,
				Offset: len(result),
			},
		}, &out)
		if err != nil {
			return nil, err
		}

		for _, t := range out.Transactions {
			result = append(result, toBankTransaction(t))
		}

		if len(out.Transactions) == 0 || len(result) >= out.TotalTransactions {
			break
		}
	}

	c.logger.Info("plaid transactions fetched",
		"count", len(result),
		"start_date", startDate.Format(plaidDateLayout),
		"end_date", endDate.Format(plaidDateLayout))

	return result, nil
}

func (c *PlaidClient) GetBalances(ctx context.Context, accessToken string) ([]dto.BankAccountBalance, error) {
	var out plaidBalanceResponse
	if err := c.post(ctx, "/accounts/balance/get", plaidAccessRequest{AccessToken: accessToken}, &out); err != nil {
		return nil, err
	}

	balances := make([]dto.BankAccountBalance, 0, len(out.Accounts))
	for _, a := range out.Accounts {
		balances = append(balances, dto.BankAccountBalance{
			AccountID:    a.AccountID,
			Name:         a.Name,
			Mask:         deref(a.Mask),
			Type:         a.Type,
			Subtype:      deref(a.Subtype),
			Current:      a.Balances.Current,
			Available:    a.Balances.Available,
			CurrencyCode: deref(a.Balances.IsoCurrencyCode),
		})
	}

	return balances, nil
}

func toBankTransaction(t plaidTransaction) dto.BankTransaction {
	category := ""
	switch {
	case t.PersonalFinanceCategory != nil && t.PersonalFinanceCategory.Primary != "":
		category = t.PersonalFinanceCategory.Primary
	case len(t.Category) > 0:
		category = t.Category[0]
	}

	return dto.BankTransaction{
		TransactionID: t.TransactionID,
		AccountID:     t.AccountID,
		Amount:        t.Amount,
		Date:          t.Date,
		Name:          t.Name,
		MerchantName:  deref(t.MerchantName),
		Category:      category,
		Pending:       t.Pending,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
