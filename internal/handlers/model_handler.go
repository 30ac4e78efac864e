package handlers

import (
	stderrors "errors"
	"net/http"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/errors"
	"expense-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// ModelHandler exposes training, prediction and evaluation of the category model
type ModelHandler struct {
	modelService services.ModelServiceInterface
}

// NewModelHandler creates a new model handler
func NewModelHandler(modelService services.ModelServiceInterface) *ModelHandler {
	return &ModelHandler{
		modelService: modelService,
	}
}

// Train refits the model on every labeled transaction
// @Summary Train category model
// @Description With too little labeled data nothing is trained and trained=false is returned
// @Tags Model
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=dto.TrainResult}
// @Failure 500 {object} errors.ErrorResponse "MODEL_003 or SYSTEM_001"
// @Router /model/train [post]
func (h *ModelHandler) Train(c echo.Context) error {
	result, err := h.modelService.Train(c.Request().Context())
	if err != nil {
		if stderrors.Is(err, services.ErrModelTrainingFail) {
			return SendError(c, errors.ModelTrainingFailed)
		}
		return SendSystemError(c, err)
	}

	message := "Model trained successfully"
	if !result.Trained {
		message = "Not enough labeled transactions to train"
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data:    result,
		Message: message,
	})
}

// Predict returns the most likely category for an expense
// @Summary Predict category
// @Tags Model
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.PredictRequest true "Expense to classify"
// @Success 200 {object} SuccessResponse{data=dto.PredictResponse}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001"
// @Failure 404 {object} errors.ErrorResponse "MODEL_001 - Model unavailable"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001"
// @Router /model/predict [post]
func (h *ModelHandler) Predict(c echo.Context) error {
	var req dto.PredictRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	category, err := h.modelService.Predict(c.Request().Context(), req.Amount, req.Description)
	if err != nil {
		if stderrors.Is(err, services.ErrModelUnavailable) {
			return SendError(c, errors.ModelUnavailable)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: dto.PredictResponse{Category: category},
	})
}

// Evaluate scores the current model against the labeled history
// @Summary Evaluate category model
// @Tags Model
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=classifier.Report}
// @Failure 404 {object} errors.ErrorResponse "MODEL_001 - Model unavailable"
// @Failure 422 {object} errors.ErrorResponse "MODEL_002 - No labeled transactions"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001"
// @Router /model/evaluate [get]
func (h *ModelHandler) Evaluate(c echo.Context) error {
	report, err := h.modelService.Evaluate(c.Request().Context())
	if err != nil {
		switch {
		case stderrors.Is(err, services.ErrModelUnavailable):
			return SendError(c, errors.ModelUnavailable)
		case stderrors.Is(err, services.ErrNoLabeledData):
			return SendError(c, errors.ModelNoData)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: report})
}
