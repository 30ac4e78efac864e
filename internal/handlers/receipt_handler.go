package handlers

import (
	stderrors "errors"
	"net/http"

	"expense-tracker/internal/errors"
	"expense-tracker/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ReceiptHandler handles receipt uploads for transactions
type ReceiptHandler struct {
	receiptService services.ReceiptServiceInterface
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService services.ReceiptServiceInterface) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
	}
}

// UploadReceipt stores a receipt file for one of the caller's transactions
// @Summary Upload receipt
// @Description Replaces any receipt already attached to the transaction
// @Tags Receipts
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param transaction_id formData string true "Transaction ID (UUID)"
// @Param file formData file true "Receipt image or PDF"
// @Success 201 {object} SuccessResponse{data=models.Receipt}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_006 or RECEIPT_005"
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001 - Transaction not found"
// @Failure 413 {object} errors.ErrorResponse "RECEIPT_003 - File too large"
// @Failure 415 {object} errors.ErrorResponse "RECEIPT_004 - Unsupported file type"
// @Failure 502 {object} errors.ErrorResponse "RECEIPT_002 - Storage upload failed"
// @Router /receipts [post]
func (h *ReceiptHandler) UploadReceipt(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := uuid.Parse(c.FormValue("transaction_id"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidID, errors.WithDetails("Invalid transaction ID"))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return SendError(c, errors.ReceiptFileMissing)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return SendSystemError(c, err)
	}
	defer file.Close()

	receipt, err := h.receiptService.UploadReceipt(c.Request().Context(), userID, transactionID, file, fileHeader.Size)
	if err != nil {
		switch {
		case stderrors.Is(err, services.ErrTransactionNotFound):
			return SendError(c, errors.TransactionNotFound)
		case stderrors.Is(err, services.ErrReceiptTooLarge):
			return SendError(c, errors.ReceiptTooLarge)
		case stderrors.Is(err, services.ErrReceiptEmpty):
			return SendError(c, errors.ReceiptFileMissing, errors.WithDetails("Receipt file is empty"))
		case stderrors.Is(err, services.ErrReceiptUnsupportedType):
			return SendError(c, errors.ReceiptUnsupportedType)
		case stderrors.Is(err, services.ErrReceiptUploadFailed):
			return SendError(c, errors.ReceiptUploadFailed)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    receipt,
		Message: "Receipt uploaded successfully",
	})
}

// GetReceipt returns the receipt attached to one of the caller's transactions
// @Summary Get receipt
// @Tags Receipts
// @Security BearerAuth
// @Produce json
// @Param transactionId path string true "Transaction ID (UUID)"
// @Success 200 {object} SuccessResponse{data=models.Receipt}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_006"
// @Failure 404 {object} errors.ErrorResponse "RECEIPT_001 - Receipt not found"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001"
// @Router /receipts/{transactionId} [get]
func (h *ReceiptHandler) GetReceipt(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := uuid.Parse(c.Param("transactionId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidID, errors.WithDetails("Invalid transaction ID"))
	}

	receipt, err := h.receiptService.GetReceipt(userID, transactionID)
	if err != nil {
		if stderrors.Is(err, services.ErrReceiptNotFound) {
			return SendError(c, errors.ReceiptNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: receipt})
}
