package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "expense-tracker/internal/errors"
	"expense-tracker/internal/services"
	"expense-tracker/internal/services/service_mocks"
	"expense-tracker/internal/validation"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type ErrorHandlerTestSuite struct {
	suite.Suite
	echo    *echo.Echo
	handler echo.HTTPErrorHandler
}

func (s *ErrorHandlerTestSuite) SetupTest() {
	s.echo = echo.New()
	s.handler = NewHTTPErrorHandler(nil)
}

func TestErrorHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ErrorHandlerTestSuite))
}

func (s *ErrorHandlerTestSuite) newContext(method string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	return s.echo.NewContext(req, rec), rec
}

func (s *ErrorHandlerTestSuite) decode(rec *httptest.ResponseRecorder) apperrors.ErrorResponse {
	var resp apperrors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (s *ErrorHandlerTestSuite) TestEchoHTTPError() {
	c, rec := s.newContext(http.MethodGet)
	c.Set(TraceIDContextKey, "test-trace-id")

	s.handler(echo.NewHTTPError(http.StatusNotFound, "Resource not found"), c)

	s.Equal(http.StatusNotFound, rec.Code)
	resp := s.decode(rec)
	s.Equal("SYSTEM_007", resp.Error.Code)
	s.Equal("test-trace-id", resp.Error.TraceID)
	s.Equal("Resource not found", resp.Error.Message)
}

func (s *ErrorHandlerTestSuite) TestGenericError() {
	c, rec := s.newContext(http.MethodGet)
	c.Set(TraceIDContextKey, "test-trace-id")

	s.handler(errors.New("connection refused on 10.0.0.3"), c)

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal("SYSTEM_001", s.decode(rec).Error.Code)
	s.NotContains(rec.Body.String(), "10.0.0.3")
}

func (s *ErrorHandlerTestSuite) TestPanicError() {
	c, rec := s.newContext(http.MethodGet)

	s.handler(&ErrPanic{Value: "boom"}, c)

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal("SYSTEM_001", s.decode(rec).Error.Code)
}

func (s *ErrorHandlerTestSuite) TestValidationErrors() {
	type request struct {
		Username string `json:"username" validate:"required,username"`
		Category string `json:"category" validate:"required,category"`
	}

	err := validation.GetValidator().Struct(request{Username: "a b"})
	s.Require().Error(err)

	c, rec := s.newContext(http.MethodPost)
	s.handler(err, c)

	s.Equal(http.StatusBadRequest, rec.Code)
	resp := s.decode(rec)
	s.Equal("VALIDATION_001", resp.Error.Code)
	s.Equal([]string{
		"category: is required",
		"username: must be 3-50 characters of letters, digits, '_', '.' or '-'",
	}, resp.Error.Details)
}

func (s *ErrorHandlerTestSuite) TestNoTraceID() {
	c, rec := s.newContext(http.MethodGet)

	s.handler(errors.New("test error"), c)

	s.Equal("unknown", s.decode(rec).Error.TraceID)
}

func (s *ErrorHandlerTestSuite) TestCommittedResponse() {
	c, rec := s.newContext(http.MethodGet)
	_ = c.JSON(http.StatusOK, map[string]string{"status": "ok"})

	s.handler(errors.New("test error"), c)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "ok")
	s.NotContains(rec.Body.String(), "SYSTEM_001")
}

func (s *ErrorHandlerTestSuite) TestHeadRequestHasNoBody() {
	c, rec := s.newContext(http.MethodHead)

	s.handler(echo.NewHTTPError(http.StatusNotFound), c)

	s.Equal(http.StatusNotFound, rec.Code)
	s.Empty(rec.Body.String())
}

func (s *ErrorHandlerTestSuite) TestMapHTTPStatusToErrorCode() {
	testCases := []struct {
		status       int
		expectedCode apperrors.ErrorCode
	}{
		{http.StatusBadRequest, apperrors.ValidationGeneral},
		{http.StatusUnauthorized, apperrors.AuthMissingToken},
		{http.StatusNotFound, apperrors.SystemRouteNotFound},
		{http.StatusMethodNotAllowed, apperrors.ValidationGeneral},
		{http.StatusRequestEntityTooLarge, apperrors.ReceiptTooLarge},
		{http.StatusTooManyRequests, apperrors.SystemRateLimitExceeded},
		{http.StatusInternalServerError, apperrors.SystemInternalError},
		{http.StatusServiceUnavailable, apperrors.SystemServiceUnavailable},
		{999, apperrors.SystemUnexpectedError},
	}

	for _, tc := range testCases {
		s.Run(http.StatusText(tc.status), func() {
			s.Equal(tc.expectedCode, mapHTTPStatusToErrorCode(tc.status))
		})
	}
}

func (s *ErrorHandlerTestSuite) TestCountsErrorsByCode() {
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()

	metrics := service_mocks.NewMockMetricsRecorderInterface(ctrl)
	metrics.EXPECT().IncrementCounter(services.MetricAPIError, map[string]string{"code": "SYSTEM_006"})

	c, _ := s.newContext(http.MethodGet)
	NewHTTPErrorHandler(metrics)(echo.NewHTTPError(http.StatusTooManyRequests), c)
}
