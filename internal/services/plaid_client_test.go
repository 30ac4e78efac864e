package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"expense-tracker/internal/config"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlaidClient(t *testing.T, handler http.HandlerFunc) BankDataClientInterface {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewPlaidClient(&config.BankConfig{
		ClientID:   "client-id",
		Secret:     "secret",
		BaseURL:    server.URL,
		ClientName: "Smart Expense Tracker",
		Timeout:    time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestPlaidClient_CreateLinkToken(t *testing.T) {
	client := newTestPlaidClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/link/token/create", r.URL.Path)
		assert.Equal(t, "client-id", r.Header.Get("PLAID-CLIENT-ID"))
		assert.Equal(t, "secret", r.Header.Get("PLAID-SECRET"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body := decodeBody(t, r)
		assert.Equal(t, "Smart Expense Tracker", body["client_name"])
		assert.Equal(t, "en", body["language"])
		assert.Equal(t, []any{"US"}, body["country_codes"])
		assert.Equal(t, []any{"transactions"}, body["products"])
		assert.Equal(t, map[string]any{"client_user_id": "user-1"}, body["user"])

		_, _ = w.Write([]byte(`{"link_token":"link-sandbox-123","expiration":"2026-01-02T15:04:05Z","request_id":"req-1"}`))
	})

	resp, err := client.CreateLinkToken(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "link-sandbox-123", resp.LinkToken)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.Equal(t, 2026, resp.Expiration.Year())
}

func TestPlaidClient_ExchangePublicToken(t *testing.T) {
	client := newTestPlaidClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/item/public_token/exchange", r.URL.Path)
		assert.Equal(t, "public-sandbox-1", decodeBody(t, r)["public_token"])

		_, _ = w.Write([]byte(`{"access_token":"access-sandbox-1","item_id":"item-1","request_id":"req-2"}`))
	})

	resp, err := client.ExchangePublicToken(context.Background(), "public-sandbox-1")

	require.NoError(t, err)
	assert.Equal(t, "access-sandbox-1", resp.AccessToken)
	assert.Equal(t, "item-1", resp.ItemID)
}

func TestPlaidClient_GetTransactionsPaginates(t *testing.T) {
	calls := 0
	client := newTestPlaidClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		body := decodeBody(t, r)
		assert.Equal(t, "access-1", body["access_token"])
		assert.Equal(t, "2024-01-01", body["start_date"])
		assert.Equal(t, "2024-02-01", body["end_date"])

		offset := body["options"].(map[string]any)["offset"].(float64)
		switch offset {
		case 0:
			_, _ = w.Write([]byte(`{"total_transactions":2,"transactions":[
				{"transaction_id":"t1","account_id":"a1","amount":12.5,"date":"2024-01-05","name":"Starbucks","merchant_name":"Starbucks","pending":false,
				 "personal_finance_category":{"primary":"FOOD_AND_DRINK","detailed":"FOOD_AND_DRINK_COFFEE"}}]}`))
		case 1:
			_, _ = w.Write([]byte(`{"total_transactions":2,"transactions":[
				{"transaction_id":"t2","account_id":"a1","amount":-500,"date":"2024-01-06","name":"Payroll","merchant_name":null,"pending":true,
				 "category":["Transfer","Payroll"]}]}`))
		default:
			t.Errorf("unexpected offset %v", offset)
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	txs, err := client.GetTransactions(context.Background(), "access-1", start, end)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, txs, 2)

	assert.Equal(t, "t1", txs[0].TransactionID)
	assert.True(t, decimal.RequireFromString("12.5").Equal(txs[0].Amount))
	assert.Equal(t, "FOOD_AND_DRINK", txs[0].Category)
	assert.Equal(t, "Starbucks", txs[0].MerchantName)

	assert.Equal(t, "Transfer", txs[1].Category)
	assert.Empty(t, txs[1].MerchantName)
	assert.True(t, txs[1].Pending)
	assert.True(t, txs[1].Amount.IsNegative())
}

func TestPlaidClient_GetBalances(t *testing.T) {
	client := newTestPlaidClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/balance/get", r.URL.Path)
		_, _ = w.Write([]byte(`{"accounts":[
			{"account_id":"a1","name":"Checking","mask":"0000","type":"depository","subtype":"checking",
			 "balances":{"available":100.25,"current":110,"iso_currency_code":"USD"}},
			{"account_id":"a2","name":"Card","mask":null,"type":"credit","subtype":null,
			 "balances":{"available":null,"current":410.5,"iso_currency_code":null}}]}`))
	})

	balances, err := client.GetBalances(context.Background(), "access-1")

	require.NoError(t, err)
	require.Len(t, balances, 2)

	assert.Equal(t, "0000", balances[0].Mask)
	assert.Equal(t, "USD", balances[0].CurrencyCode)
	require.NotNil(t, balances[0].Available)
	assert.Equal(t, "100.25", balances[0].Available.String())

	assert.Nil(t, balances[1].Available)
	require.NotNil(t, balances[1].Current)
	assert.Equal(t, "410.5", balances[1].Current.String())
	assert.Empty(t, balances[1].Subtype)
}

func TestPlaidClient_ErrorResponse(t *testing.T) {
	client := newTestPlaidClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_type":"INVALID_INPUT","error_code":"INVALID_ACCESS_TOKEN","error_message":"provided access token is in an invalid format","request_id":"req-9"}`))
	})

	_, err := client.GetBalances(context.Background(), "bad")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBankRequestFailed)

	var plaidErr *PlaidError
	require.ErrorAs(t, err, &plaidErr)
	assert.Equal(t, "INVALID_ACCESS_TOKEN", plaidErr.ErrorCode)
	assert.Equal(t, http.StatusBadRequest, plaidErr.StatusCode)
	assert.Equal(t, "req-9", plaidErr.RequestID)
}

func TestPlaidClient_NonJSONError(t *testing.T) {
	client := newTestPlaidClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := client.ExchangePublicToken(context.Background(), "public")

	var plaidErr *PlaidError
	require.ErrorAs(t, err, &plaidErr)
	assert.Equal(t, "UNEXPECTED_RESPONSE", plaidErr.ErrorCode)
	assert.Equal(t, http.StatusBadGateway, plaidErr.StatusCode)
}

func TestPlaidClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client := NewPlaidClient(&config.BankConfig{BaseURL: server.URL, Timeout: time.Second},
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.CreateLinkToken(context.Background(), "user")

	assert.ErrorIs(t, err, ErrBankRequestFailed)
}
