package errors

import "net/http"

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthInvalidCredentials ErrorCode = "AUTH_001"
	AuthMissingToken       ErrorCode = "AUTH_002"
	AuthExpiredToken       ErrorCode = "AUTH_003"
	AuthInvalidTokenFormat ErrorCode = "AUTH_004"
	AuthTokenRevoked       ErrorCode = "AUTH_005"
	AuthUsernameTaken      ErrorCode = "AUTH_006"
	AuthWeakPassword       ErrorCode = "AUTH_007"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationOutOfRange    ErrorCode = "VALIDATION_004"
	ValidationInvalidDate   ErrorCode = "VALIDATION_005"
	ValidationInvalidID     ErrorCode = "VALIDATION_006"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionNotFound           ErrorCode = "TRANSACTION_001"
	TransactionInvalidAmount      ErrorCode = "TRANSACTION_002"
	TransactionInvalidCategory    ErrorCode = "TRANSACTION_003"
	TransactionDuplicate          ErrorCode = "TRANSACTION_004"
	TransactionCategoryUnresolved ErrorCode = "TRANSACTION_005"
)

// Budget error codes (BUDGET_*)
const (
	BudgetNotFound     ErrorCode = "BUDGET_001"
	BudgetInvalidLimit ErrorCode = "BUDGET_002"
)

// Receipt error codes (RECEIPT_*)
const (
	ReceiptNotFound        ErrorCode = "RECEIPT_001"
	ReceiptUploadFailed    ErrorCode = "RECEIPT_002"
	ReceiptTooLarge        ErrorCode = "RECEIPT_003"
	ReceiptUnsupportedType ErrorCode = "RECEIPT_004"
	ReceiptFileMissing     ErrorCode = "RECEIPT_005"
)

// Model error codes (MODEL_*)
const (
	ModelUnavailable    ErrorCode = "MODEL_001"
	ModelNoData         ErrorCode = "MODEL_002"
	ModelTrainingFailed ErrorCode = "MODEL_003"
)

// Bank-data error codes (BANK_*)
const (
	BankRequestFailed ErrorCode = "BANK_001"
	BankUnavailable   ErrorCode = "BANK_002"
	BankNotConfigured ErrorCode = "BANK_003"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemConfigurationError ErrorCode = "SYSTEM_004"
	SystemUnexpectedError    ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
	SystemRouteNotFound      ErrorCode = "SYSTEM_007"
)

type codeInfo struct {
	message string
	status  int
}

// catalogue maps each code to its default human-readable message and HTTP status
var catalogue = map[ErrorCode]codeInfo{
	AuthInvalidCredentials: {"Invalid username or password", http.StatusUnauthorized},
	AuthMissingToken:       {"Authorization token is required", http.StatusUnauthorized},
	AuthExpiredToken:       {"Authorization token has expired", http.StatusUnauthorized},
	AuthInvalidTokenFormat: {"Invalid authorization token format", http.StatusUnauthorized},
	AuthTokenRevoked:       {"Authorization token has been revoked", http.StatusUnauthorized},
	AuthUsernameTaken:      {"Username is already taken", http.StatusConflict},
	AuthWeakPassword:       {"Password does not meet the password policy", http.StatusBadRequest},

	ValidationGeneral:       {"Validation failed", http.StatusBadRequest},
	ValidationRequiredField: {"Required field is missing", http.StatusBadRequest},
	ValidationInvalidFormat: {"Invalid field format", http.StatusBadRequest},
	ValidationOutOfRange:    {"Field value is out of allowed range", http.StatusBadRequest},
	ValidationInvalidDate:   {"Invalid date format or range", http.StatusBadRequest},
	ValidationInvalidID:     {"Invalid identifier format", http.StatusBadRequest},

	TransactionNotFound:           {"Transaction not found", http.StatusNotFound},
	TransactionInvalidAmount:      {"Transaction amount must be greater than zero", http.StatusBadRequest},
	TransactionInvalidCategory:    {"Invalid transaction category", http.StatusBadRequest},
	TransactionDuplicate:          {"Transaction was already imported", http.StatusConflict},
	TransactionCategoryUnresolved: {"Category is required while no trained model is available", http.StatusUnprocessableEntity},

	BudgetNotFound:     {"Budget not found", http.StatusNotFound},
	BudgetInvalidLimit: {"Budget limit must be greater than zero", http.StatusBadRequest},

	ReceiptNotFound:        {"Receipt not found", http.StatusNotFound},
	ReceiptUploadFailed:    {"Receipt upload failed", http.StatusBadGateway},
	ReceiptTooLarge:        {"Receipt file is too large", http.StatusRequestEntityTooLarge},
	ReceiptUnsupportedType: {"Unsupported receipt file type", http.StatusUnsupportedMediaType},
	ReceiptFileMissing:     {"Receipt file is required", http.StatusBadRequest},

	ModelUnavailable:    {"Model unavailable. Train the model first", http.StatusNotFound},
	ModelNoData:         {"No labeled transactions available", http.StatusUnprocessableEntity},
	ModelTrainingFailed: {"Model training failed", http.StatusInternalServerError},

	BankRequestFailed: {"Bank data provider request failed", http.StatusBadGateway},
	BankUnavailable:   {"Bank data provider temporarily unavailable", http.StatusServiceUnavailable},
	BankNotConfigured: {"Bank data integration is not configured", http.StatusServiceUnavailable},

	SystemInternalError:      {"An unexpected error occurred. Please contact support with trace ID", http.StatusInternalServerError},
	SystemDatabaseError:      {"Database connection error", http.StatusInternalServerError},
	SystemServiceUnavailable: {"Service temporarily unavailable", http.StatusServiceUnavailable},
	SystemConfigurationError: {"System configuration error", http.StatusInternalServerError},
	SystemUnexpectedError:    {"An unexpected error occurred", http.StatusInternalServerError},
	SystemRateLimitExceeded:  {"Rate limit exceeded. Please try again later", http.StatusTooManyRequests},
	SystemRouteNotFound:      {"Resource not found", http.StatusNotFound},
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if info, ok := catalogue[code]; ok {
		return info.message
	}
	return "An error occurred"
}

// GetHTTPStatus returns the HTTP status for the error code.
// Unknown codes map to 500.
func GetHTTPStatus(code ErrorCode) int {
	if info, ok := catalogue[code]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := catalogue[code]
	return ok
}

// AllCodes lists every registered code
func AllCodes() []ErrorCode {
	codes := make([]ErrorCode, 0, len(catalogue))
	for code := range catalogue {
		codes = append(codes, code)
	}
	return codes
}
