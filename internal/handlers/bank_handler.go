package handlers

import (
	stderrors "errors"
	"net/http"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/errors"
	"expense-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// BankHandler links bank items and reads their data
type BankHandler struct {
	bankService services.BankServiceInterface
}

// NewBankHandler creates a new bank handler
func NewBankHandler(bankService services.BankServiceInterface) *BankHandler {
	return &BankHandler{
		bankService: bankService,
	}
}

// CreateLinkToken starts the bank link flow for the caller
// @Summary Create bank link token
// @Tags Bank
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=dto.LinkTokenResponse}
// @Failure 502 {object} errors.ErrorResponse "BANK_001 - Provider request failed"
// @Failure 503 {object} errors.ErrorResponse "BANK_002 or BANK_003"
// @Router /bank/link-token [post]
func (h *BankHandler) CreateLinkToken(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	token, err := h.bankService.CreateLinkToken(c.Request().Context(), userID)
	if err != nil {
		return sendBankError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: token})
}

// ExchangePublicToken trades the link flow's public token for an access token
// @Summary Exchange public token
// @Tags Bank
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ExchangeTokenRequest true "Public token"
// @Success 200 {object} SuccessResponse{data=dto.ExchangeTokenResponse}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001"
// @Failure 502 {object} errors.ErrorResponse "BANK_001 - Provider request failed"
// @Failure 503 {object} errors.ErrorResponse "BANK_002 or BANK_003"
// @Router /bank/exchange [post]
func (h *BankHandler) ExchangePublicToken(c echo.Context) error {
	var req dto.ExchangeTokenRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	exchanged, err := h.bankService.ExchangePublicToken(c.Request().Context(), req.PublicToken)
	if err != nil {
		return sendBankError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: exchanged})
}

// FetchTransactions reads the linked item's transactions and optionally imports them
// @Summary Fetch bank transactions
// @Description With import=true posted outflows not seen before are stored as bank transactions
// @Tags Bank
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.FetchBankTransactionsRequest true "Access token and import flag"
// @Success 200 {object} SuccessResponse{data=dto.BankTransactionsResponse}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001"
// @Failure 502 {object} errors.ErrorResponse "BANK_001 - Provider request failed"
// @Failure 503 {object} errors.ErrorResponse "BANK_002 or BANK_003"
// @Router /bank/transactions [post]
func (h *BankHandler) FetchTransactions(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.FetchBankTransactionsRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	result, err := h.bankService.FetchTransactions(c.Request().Context(), userID, req.AccessToken, req.Import)
	if err != nil {
		return sendBankError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: result,
		Meta: map[string]int{"count": len(result.Transactions)},
	})
}

// GetBalances returns the balances of every account of the linked item
// @Summary Get bank balances
// @Tags Bank
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.BankAccessRequest true "Access token"
// @Success 200 {object} SuccessResponse{data=[]dto.BankAccountBalance}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001"
// @Failure 502 {object} errors.ErrorResponse "BANK_001 - Provider request failed"
// @Failure 503 {object} errors.ErrorResponse "BANK_002 or BANK_003"
// @Router /bank/balances [post]
func (h *BankHandler) GetBalances(c echo.Context) error {
	var req dto.BankAccessRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	balances, err := h.bankService.GetBalances(c.Request().Context(), req.AccessToken)
	if err != nil {
		return sendBankError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: balances})
}

func sendBankError(c echo.Context, err error) error {
	switch {
	case stderrors.Is(err, services.ErrBankNotConfigured):
		return SendError(c, errors.BankNotConfigured)
	case stderrors.Is(err, services.ErrBankCircuitOpen):
		return SendError(c, errors.BankUnavailable)
	case stderrors.Is(err, services.ErrBankUnavailable):
		return SendError(c, errors.BankRequestFailed)
	}
	return SendSystemError(c, err)
}
