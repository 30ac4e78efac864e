package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/services"
	"expense-tracker/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func TestBankHandler(t *testing.T) {
	suite.Run(t, new(BankHandlerSuite))
}

type BankHandlerSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	bankService *service_mocks.MockBankServiceInterface
	handler     *BankHandler
	e           *echo.Echo
	userID      uuid.UUID
}

func (s *BankHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.bankService = service_mocks.NewMockBankServiceInterface(s.ctrl)
	s.handler = NewBankHandler(s.bankService)
	s.e = newTestEcho()
	s.userID = uuid.New()
}

func (s *BankHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *BankHandlerSuite) TestCreateLinkToken() {
	s.bankService.EXPECT().CreateLinkToken(gomock.Any(), s.userID).Return(&dto.LinkTokenResponse{
		LinkToken:  "link-sandbox-123",
		Expiration: time.Now().Add(4 * time.Hour),
	}, nil)

	c, rec := newJSONContext(s.e, http.MethodPost, "/api/v1/bank/link-token", nil)
	withUser(c, s.userID)

	s.Require().NoError(s.handler.CreateLinkToken(c))
	s.Equal(http.StatusOK, rec.Code)

	var data dto.LinkTokenResponse
	_, err := decodeData(rec, &data)
	s.Require().NoError(err)
	s.Equal("link-sandbox-123", data.LinkToken)
}

func (s *BankHandlerSuite) TestExchangePublicToken() {
	s.Run("success", func() {
		s.bankService.EXPECT().ExchangePublicToken(gomock.Any(), "public-sandbox-1").Return(&dto.ExchangeTokenResponse{
			AccessToken: "access-sandbox-1",
			ItemID:      "item-1",
		}, nil)

		c, rec := newJSONContext(s.e, http.MethodPost, "/api/v1/bank/exchange", map[string]string{"public_token": "public-sandbox-1"})
		withUser(c, s.userID)

		s.Require().NoError(s.handler.ExchangePublicToken(c))
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "access-sandbox-1")
	})

	s.Run("missing token", func() {
		c, _ := newJSONContext(s.e, http.MethodPost, "/api/v1/bank/exchange", map[string]string{})
		withUser(c, s.userID)

		s.Error(s.handler.ExchangePublicToken(c))
	})
}

func (s *BankHandlerSuite) TestFetchTransactions() {
	result := &dto.BankTransactionsResponse{
		StartDate: "2024-01-01",
		EndDate:   "2024-06-30",
		Transactions: []dto.BankTransaction{
			{TransactionID: "tx-1", Amount: decimal.RequireFromString("4.50"), Name: "Coffee", Category: "food_and_drink"},
		},
		Imported: 1,
	}

	s.bankService.EXPECT().FetchTransactions(gomock.Any(), s.userID, "access-sandbox-1", true).Return(result, nil)

	c, rec := newJSONContext(s.e, http.MethodPost, "/api/v1/bank/transactions", map[string]interface{}{
		"access_token": "access-sandbox-1",
		"import":       true,
	})
	withUser(c, s.userID)

	s.Require().NoError(s.handler.FetchTransactions(c))
	s.Equal(http.StatusOK, rec.Code)

	var data dto.BankTransactionsResponse
	_, err := decodeData(rec, &data)
	s.Require().NoError(err)
	s.Equal(1, data.Imported)
	s.Require().Len(data.Transactions, 1)
	s.Equal("tx-1", data.Transactions[0].TransactionID)
}

func (s *BankHandlerSuite) TestGetBalances() {
	current := decimal.RequireFromString("110.00")
	s.bankService.EXPECT().GetBalances(gomock.Any(), "access-sandbox-1").Return([]dto.BankAccountBalance{
		{AccountID: "acc-1", Name: "Checking", Type: "depository", Current: &current},
	}, nil)

	c, rec := newJSONContext(s.e, http.MethodPost, "/api/v1/bank/balances", map[string]string{"access_token": "access-sandbox-1"})
	withUser(c, s.userID)

	s.Require().NoError(s.handler.GetBalances(c))
	s.Equal(http.StatusOK, rec.Code)

	var data []dto.BankAccountBalance
	_, err := decodeData(rec, &data)
	s.Require().NoError(err)
	s.Require().Len(data, 1)
	s.True(data[0].Current.Equal(current))
}

func (s *BankHandlerSuite) TestErrorMapping() {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "provider failure", err: fmt.Errorf("%w: status 400", services.ErrBankUnavailable), status: http.StatusBadGateway, code: "BANK_001"},
		{name: "circuit open", err: services.ErrBankCircuitOpen, status: http.StatusServiceUnavailable, code: "BANK_002"},
		{name: "not configured", err: services.ErrBankNotConfigured, status: http.StatusServiceUnavailable, code: "BANK_003"},
		{name: "unexpected", err: fmt.Errorf("failed to import transactions: boom"), status: http.StatusInternalServerError, code: "SYSTEM_001"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.bankService.EXPECT().GetBalances(gomock.Any(), "access-sandbox-1").Return(nil, tt.err)

			c, rec := newJSONContext(s.e, http.MethodPost, "/api/v1/bank/balances", map[string]string{"access_token": "access-sandbox-1"})
			withUser(c, s.userID)

			s.Require().NoError(s.handler.GetBalances(c))
			s.Equal(tt.status, rec.Code)
			s.Equal(tt.code, decodeError(rec).Error.Code)
		})
	}
}
