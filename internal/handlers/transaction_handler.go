package handlers

import (
	stderrors "errors"
	"net/http"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/errors"
	"expense-tracker/internal/models"
	"expense-tracker/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TransactionHandler handles expense recording and history
type TransactionHandler struct {
	transactionService services.TransactionServiceInterface
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService services.TransactionServiceInterface) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// CreateTransaction records a manual expense
// @Summary Record an expense
// @Description A blank category is filled in by the category predictor
// @Tags Transactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateTransactionRequest true "Expense"
// @Success 201 {object} SuccessResponse{data=models.Transaction} "Transaction recorded"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001, TRANSACTION_002 or TRANSACTION_003"
// @Failure 422 {object} errors.ErrorResponse "TRANSACTION_005 - No category and no trained model"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001"
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request().Context(), userID, &req)
	if err != nil {
		switch {
		case stderrors.Is(err, services.ErrPredictionUnavailable):
			return SendError(c, errors.TransactionCategoryUnresolved)
		case stderrors.Is(err, models.ErrInvalidAmount):
			return SendError(c, errors.TransactionInvalidAmount)
		case stderrors.Is(err, models.ErrCategoryRequired), stderrors.Is(err, models.ErrCategoryTooLong):
			return SendError(c, errors.TransactionInvalidCategory, errors.WithDetails(err.Error()))
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    transaction,
		Message: "Transaction recorded successfully",
	})
}

// ListTransactions returns the caller's transactions newest first
// @Summary List transactions
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param category query string false "Filter by category"
// @Param from query string false "Earliest timestamp (YYYY-MM-DD or RFC 3339)"
// @Param to query string false "Latest timestamp (YYYY-MM-DD or RFC 3339)"
// @Param limit query int false "Page size (max 100)" default(20)
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {object} SuccessResponse{data=[]models.Transaction,meta=dto.PaginationInfo}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 or VALIDATION_005"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001"
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.TransactionListQuery
	if err := c.Bind(&query); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid query parameters"))
	}

	if err := c.Validate(query); err != nil {
		return err
	}

	startDate, err := parseDateParam(query.From, false)
	if err != nil {
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails(err.Error()))
	}
	endDate, err := parseDateParam(query.To, true)
	if err != nil {
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails(err.Error()))
	}

	limit := query.Limit
	if limit <= 0 {
		limit = services.DefaultTransactionPageSize
	}

	filters := models.TransactionFilters{
		UserID:    userID,
		Category:  query.Category,
		StartDate: startDate,
		EndDate:   endDate,
		Offset:    query.Offset,
		Limit:     limit,
	}

	transactions, total, err := h.transactionService.ListTransactions(filters)
	if err != nil {
		if stderrors.Is(err, services.ErrInvalidDateRange) {
			return SendError(c, errors.ValidationInvalidDate, errors.WithDetails(err.Error()))
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: transactions,
		Meta: dto.PaginationInfo{
			Limit:   limit,
			Offset:  query.Offset,
			Total:   total,
			HasMore: int64(query.Offset+len(transactions)) < total,
		},
	})
}

// GetTransaction returns one of the caller's transactions
// @Summary Get transaction
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Transaction ID (UUID)"
// @Success 200 {object} SuccessResponse{data=models.Transaction}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_006 - Invalid transaction ID"
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001 - Transaction not found"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001"
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidID, errors.WithDetails("Invalid transaction ID"))
	}

	transaction, err := h.transactionService.GetTransaction(userID, transactionID)
	if err != nil {
		if stderrors.Is(err, services.ErrTransactionNotFound) {
			return SendError(c, errors.TransactionNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: transaction})
}

// DeleteTransaction removes one of the caller's transactions and its receipt
// @Summary Delete transaction
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Transaction ID (UUID)"
// @Success 200 {object} SuccessResponse{message=string}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_006 - Invalid transaction ID"
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001 - Transaction not found"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001"
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidID, errors.WithDetails("Invalid transaction ID"))
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		if stderrors.Is(err, services.ErrTransactionNotFound) {
			return SendError(c, errors.TransactionNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Transaction deleted successfully",
	})
}
