package handlers

import (
	"log/slog"

	"expense-tracker/internal/errors"

	"github.com/labstack/echo/v4"
)

// Handlers report failures through SendError (client and business errors)
// and SendSystemError (anything unexpected). The one exception is
// c.Validate, whose errors are returned as-is for the HTTP error handler to
// format field by field.

const (
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"
)

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorResponse is an alias for the standardized error response type
type ErrorResponse = errors.ErrorResponse

// getTraceID extracts the trace ID from the Echo context
func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SendError sends a standardized error response with trace ID from context
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	traceID := getTraceID(c)
	errorResponse := errors.NewErrorResponse(code, traceID, opts...)
	return c.JSON(errorResponse.Status(), errorResponse)
}

// SendSystemError answers with a generic SYSTEM_001 body and logs the
// internal error server-side only
func SendSystemError(c echo.Context, err error) error {
	traceID := getTraceID(c)
	errorResponse := errors.Internal(traceID)

	slog.Error("request failed",
		"trace_id", traceID,
		"method", c.Request().Method,
		"path", c.Path(),
		"error", err,
	)

	return c.JSON(errorResponse.Status(), errorResponse)
}
