package handlers

import (
	stderrors "errors"
	"net/http"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/errors"
	"expense-tracker/internal/models"
	"expense-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// BudgetHandler handles per-category spending limits
type BudgetHandler struct {
	budgetService services.BudgetServiceInterface
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(budgetService services.BudgetServiceInterface) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
	}
}

// SetBudget creates or replaces the limit for a category
// @Summary Set budget
// @Tags Budgets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SetBudgetRequest true "Category limit"
// @Success 200 {object} SuccessResponse{data=models.Budget}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001, BUDGET_002 or TRANSACTION_003"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001"
// @Router /budgets [put]
func (h *BudgetHandler) SetBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.SetBudgetRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	budget, err := h.budgetService.SetBudget(userID, req.Category, req.Limit)
	if err != nil {
		if code, ok := budgetErrorCode(err); ok {
			return SendError(c, code)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data:    budget,
		Message: "Budget saved successfully",
	})
}

// CheckBudget reports whether a category's spending exceeds its limit
// @Summary Check budget
// @Description Spending equal to the limit is not exceeded. A category without a limit is never exceeded.
// @Tags Budgets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CheckBudgetRequest true "Category"
// @Success 200 {object} SuccessResponse{data=models.BudgetStatus}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001"
// @Router /budgets/check [post]
func (h *BudgetHandler) CheckBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CheckBudgetRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	status, err := h.budgetService.CheckBudget(userID, req.Category)
	if err != nil {
		if code, ok := budgetErrorCode(err); ok {
			return SendError(c, code)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: status})
}

// ListBudgets returns every limit of the caller with its current status
// @Summary List budgets
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]models.BudgetStatus}
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001"
// @Router /budgets [get]
func (h *BudgetHandler) ListBudgets(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	statuses, err := h.budgetService.ListBudgets(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: statuses,
		Meta: map[string]int{"count": len(statuses)},
	})
}

// DeleteBudget removes the limit for a category
// @Summary Delete budget
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Param category path string true "Category"
// @Success 200 {object} SuccessResponse{message=string}
// @Failure 404 {object} errors.ErrorResponse "BUDGET_001 - Budget not found"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001"
// @Router /budgets/{category} [delete]
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	category := models.NormalizeCategory(c.Param("category"))
	if category == "" {
		return SendError(c, errors.ValidationRequiredField, errors.WithDetails("category: is required"))
	}

	if err := h.budgetService.DeleteBudget(userID, category); err != nil {
		if code, ok := budgetErrorCode(err); ok {
			return SendError(c, code)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Budget deleted successfully",
	})
}

// budgetErrorCode maps budget service errors onto API codes
func budgetErrorCode(err error) (errors.ErrorCode, bool) {
	switch {
	case stderrors.Is(err, services.ErrBudgetNotFound):
		return errors.BudgetNotFound, true
	case stderrors.Is(err, models.ErrInvalidBudgetLimit):
		return errors.BudgetInvalidLimit, true
	case stderrors.Is(err, models.ErrCategoryRequired), stderrors.Is(err, models.ErrCategoryTooLong):
		return errors.TransactionInvalidCategory, true
	}
	return "", false
}
