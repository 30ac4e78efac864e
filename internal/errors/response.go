package errors

import (
	"fmt"
	"log/slog"
	"sort"
)

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`

	status int
}

type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	TraceID string   `json:"trace_id"`
}

type ErrorOption func(*ErrorResponse)

// WithDetails replaces the detail list
func WithDetails(details ...string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Details = details
	}
}

// WithMessage overrides the catalogue message for the code
func WithMessage(message string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Message = message
	}
}

// WithStatus answers with status instead of the code's catalogue status.
// Used when a framework error already decided the status, e.g. 405.
func WithStatus(status int) ErrorOption {
	return func(er *ErrorResponse) {
		if status >= 400 {
			er.status = status
		}
	}
}

// NewErrorResponse builds the body for code, defaulting message and status
// from the catalogue
func NewErrorResponse(code ErrorCode, traceID string, opts ...ErrorOption) *ErrorResponse {
	response := &ErrorResponse{
		Error: ErrorDetail{
			Code:    string(code),
			Message: GetErrorMessage(code),
			TraceID: traceID,
		},
		status: GetHTTPStatus(code),
	}

	for _, opt := range opts {
		opt(response)
	}

	return response
}

// NewValidationError reports one "field: problem" detail per entry, sorted
// so responses are stable
func NewValidationError(fieldErrors map[string]string, traceID string) *ErrorResponse {
	details := make([]string, 0, len(fieldErrors))
	for field, message := range fieldErrors {
		details = append(details, fmt.Sprintf("%s: %s", field, message))
	}
	sort.Strings(details)

	return NewErrorResponse(ValidationGeneral, traceID, WithDetails(details...))
}

// Internal is the generic SYSTEM_001 body. The cause never reaches the
// client; callers log it against the same trace id.
func Internal(traceID string) *ErrorResponse {
	return NewErrorResponse(SystemInternalError, traceID)
}

// Status is the HTTP status to answer with
func (er *ErrorResponse) Status() int {
	return er.status
}

func (er *ErrorResponse) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("code", er.Error.Code),
		slog.Int("status", er.status),
		slog.String("trace_id", er.Error.TraceID),
	)
}
