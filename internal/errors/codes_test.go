package errors

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type CodesTestSuite struct {
	suite.Suite
}

func TestCodesTestSuite(t *testing.T) {
	suite.Run(t, new(CodesTestSuite))
}

func (s *CodesTestSuite) TestGetErrorMessage_ValidCode() {
	testCases := []struct {
		name     string
		code     ErrorCode
		expected string
	}{
		{"Auth Invalid Credentials", AuthInvalidCredentials, "Invalid username or password"},
		{"Auth Missing Token", AuthMissingToken, "Authorization token is required"},
		{"Validation General", ValidationGeneral, "Validation failed"},
		{"Receipt Not Found", ReceiptNotFound, "Receipt not found"},
		{"Model Unavailable", ModelUnavailable, "Model unavailable. Train the model first"},
		{"System Internal Error", SystemInternalError, "An unexpected error occurred. Please contact support with trace ID"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, GetErrorMessage(tc.code))
		})
	}
}

func (s *CodesTestSuite) TestGetErrorMessage_InvalidCode() {
	s.Equal("An error occurred", GetErrorMessage("INVALID_CODE"))
}

func (s *CodesTestSuite) TestIsValidErrorCode_InvalidCode() {
	for _, code := range []ErrorCode{"INVALID_001", "UNKNOWN_CODE", "", "AUTH_999"} {
		s.Run(string(code), func() {
			s.False(IsValidErrorCode(code), "Expected %s to be invalid", code)
		})
	}
}

func (s *CodesTestSuite) TestAllCodes_HaveMessagesAndKnownPrefix() {
	prefixes := []string{"AUTH_", "VALIDATION_", "TRANSACTION_", "BUDGET_", "RECEIPT_", "MODEL_", "BANK_", "SYSTEM_"}

	for _, code := range AllCodes() {
		s.Run(string(code), func() {
			s.True(IsValidErrorCode(code))

			message := GetErrorMessage(code)
			s.NotEmpty(message)
			s.NotEqual("An error occurred", message)

			known := false
			for _, prefix := range prefixes {
				if strings.HasPrefix(string(code), prefix) {
					known = true
				}
			}
			s.True(known, "Error code %s has an unknown prefix", code)

			status := GetHTTPStatus(code)
			s.GreaterOrEqual(status, 400)
			s.Less(status, 600)
		})
	}
}

func (s *CodesTestSuite) TestGetHTTPStatus() {
	testCases := []struct {
		code           ErrorCode
		expectedStatus int
	}{
		{ValidationGeneral, http.StatusBadRequest},
		{TransactionInvalidAmount, http.StatusBadRequest},
		{BudgetInvalidLimit, http.StatusBadRequest},
		{AuthInvalidCredentials, http.StatusUnauthorized},
		{AuthTokenRevoked, http.StatusUnauthorized},
		{TransactionNotFound, http.StatusNotFound},
		{ReceiptNotFound, http.StatusNotFound},
		{ModelUnavailable, http.StatusNotFound},
		{AuthUsernameTaken, http.StatusConflict},
		{ReceiptTooLarge, http.StatusRequestEntityTooLarge},
		{ReceiptUnsupportedType, http.StatusUnsupportedMediaType},
		{TransactionCategoryUnresolved, http.StatusUnprocessableEntity},
		{SystemRateLimitExceeded, http.StatusTooManyRequests},
		{SystemInternalError, http.StatusInternalServerError},
		{ReceiptUploadFailed, http.StatusBadGateway},
		{BankRequestFailed, http.StatusBadGateway},
		{BankUnavailable, http.StatusServiceUnavailable},
		{"UNKNOWN_999", http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Equal(tc.expectedStatus, GetHTTPStatus(tc.code))
		})
	}
}
