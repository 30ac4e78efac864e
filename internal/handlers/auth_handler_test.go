package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/models"
	"expense-tracker/internal/services"
	"expense-tracker/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

func TestAuthHandler(t *testing.T) {
	suite.Run(t, new(AuthHandlerSuite))
}

type AuthHandlerSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	authService *service_mocks.MockAuthServiceInterface
	handler     *AuthHandler
	e           *echo.Echo
}

func (s *AuthHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.authService = service_mocks.NewMockAuthServiceInterface(s.ctrl)
	s.handler = NewAuthHandler(s.authService)
	s.e = newTestEcho()
}

func (s *AuthHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *AuthHandlerSuite) TestRegister_Success() {
	user := &models.User{
		ID:        uuid.New(),
		Username:  "alice",
		CreatedAt: time.Now(),
	}

	s.authService.EXPECT().
		Register(gomock.Any()).
		DoAndReturn(func(req *dto.RegisterRequest) (*models.User, error) {
			s.Equal("alice", req.Username)
			s.Equal("Sup3rSecret!", req.Password)
			return user, nil
		})

	c, rec := newJSONContext(s.e, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "alice",
		"password": "Sup3rSecret!",
	})

	s.Require().NoError(s.handler.Register(c))
	s.Equal(http.StatusCreated, rec.Code)

	var data dto.UserResponse
	resp, err := decodeData(rec, &data)
	s.Require().NoError(err)
	s.Equal(user.ID.String(), data.ID)
	s.Equal("alice", data.Username)
	s.Equal("User registered successfully", resp.Message)
	s.NotContains(rec.Body.String(), "password")
}

func (s *AuthHandlerSuite) TestRegister_UsernameTaken() {
	s.authService.EXPECT().Register(gomock.Any()).Return(nil, services.ErrUserAlreadyExists)

	c, rec := newJSONContext(s.e, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "alice",
		"password": "Sup3rSecret!",
	})

	s.Require().NoError(s.handler.Register(c))
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("AUTH_006", decodeError(rec).Error.Code)
}

func (s *AuthHandlerSuite) TestRegister_WeakPassword() {
	s.authService.EXPECT().
		Register(gomock.Any()).
		Return(nil, fmt.Errorf("failed to hash password: %w", services.ErrPasswordNoNumber))

	c, rec := newJSONContext(s.e, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "alice",
		"password": "NoDigitsHere!",
	})

	s.Require().NoError(s.handler.Register(c))
	s.Equal(http.StatusBadRequest, rec.Code)

	resp := decodeError(rec)
	s.Equal("AUTH_007", resp.Error.Code)
	s.Equal("trace-test", resp.Error.TraceID)
	s.Contains(resp.Error.Details, services.ErrPasswordNoNumber.Error())
}

func (s *AuthHandlerSuite) TestRegister_InvalidBody() {
	c, rec := newJSONContext(s.e, http.MethodPost, "/api/v1/auth/register", "invalid json")

	s.Require().NoError(s.handler.Register(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_001", decodeError(rec).Error.Code)
}

func (s *AuthHandlerSuite) TestRegister_ValidationFailure() {
	tests := []struct {
		name string
		body map[string]string
	}{
		{name: "missing password", body: map[string]string{"username": "alice"}},
		{name: "short username", body: map[string]string{"username": "al", "password": "Sup3rSecret!"}},
		{name: "username with spaces", body: map[string]string{"username": "alice smith", "password": "Sup3rSecret!"}},
		{name: "short password", body: map[string]string{"username": "alice", "password": "short"}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			c, _ := newJSONContext(s.e, http.MethodPost, "/api/v1/auth/register", tt.body)
			s.Error(s.handler.Register(c))
		})
	}
}

func (s *AuthHandlerSuite) TestRegister_ServiceError() {
	s.authService.EXPECT().Register(gomock.Any()).Return(nil, fmt.Errorf("db down"))

	c, rec := newJSONContext(s.e, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "alice",
		"password": "Sup3rSecret!",
	})

	s.Require().NoError(s.handler.Register(c))
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal("SYSTEM_001", decodeError(rec).Error.Code)
	s.NotContains(rec.Body.String(), "db down")
}

func (s *AuthHandlerSuite) TestLogin_Success() {
	tokens := &dto.TokenResponse{
		AccessToken: "access.token.here",
		TokenType:   "Bearer",
		ExpiresAt:   time.Now().Add(time.Hour),
	}

	s.authService.EXPECT().
		Login(gomock.Any()).
		DoAndReturn(func(req *dto.LoginRequest) (*dto.TokenResponse, error) {
			s.Equal("alice", req.Username)
			return tokens, nil
		})

	c, rec := newJSONContext(s.e, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "alice",
		"password": "Sup3rSecret!",
	})

	s.Require().NoError(s.handler.Login(c))
	s.Equal(http.StatusOK, rec.Code)

	var data dto.TokenResponse
	_, err := decodeData(rec, &data)
	s.Require().NoError(err)
	s.Equal("access.token.here", data.AccessToken)
	s.Equal("Bearer", data.TokenType)
}

func (s *AuthHandlerSuite) TestLogin_InvalidCredentials() {
	s.authService.EXPECT().Login(gomock.Any()).Return(nil, services.ErrInvalidCredentials)

	c, rec := newJSONContext(s.e, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "alice",
		"password": "WrongPassword1!",
	})

	s.Require().NoError(s.handler.Login(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("AUTH_001", decodeError(rec).Error.Code)
}

func (s *AuthHandlerSuite) TestLogin_MissingFields() {
	c, _ := newJSONContext(s.e, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "alice"})
	s.Error(s.handler.Login(c))
}

func (s *AuthHandlerSuite) TestLogout() {
	s.Run("success", func() {
		s.authService.EXPECT().Logout("valid.token").Return(nil)

		c, rec := newJSONContext(s.e, http.MethodPost, "/api/v1/auth/logout", nil)
		c.Request().Header.Set("Authorization", "Bearer valid.token")

		s.Require().NoError(s.handler.Logout(c))
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("missing header", func() {
		c, rec := newJSONContext(s.e, http.MethodPost, "/api/v1/auth/logout", nil)

		s.Require().NoError(s.handler.Logout(c))
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Equal("AUTH_002", decodeError(rec).Error.Code)
	})

	s.Run("malformed header", func() {
		c, rec := newJSONContext(s.e, http.MethodPost, "/api/v1/auth/logout", nil)
		c.Request().Header.Set("Authorization", "Token abc")

		s.Require().NoError(s.handler.Logout(c))
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Equal("AUTH_004", decodeError(rec).Error.Code)
	})

	s.Run("invalid token", func() {
		s.authService.EXPECT().Logout("bad.token").Return(services.ErrExpiredToken)

		c, rec := newJSONContext(s.e, http.MethodPost, "/api/v1/auth/logout", nil)
		c.Request().Header.Set("Authorization", "Bearer bad.token")

		s.Require().NoError(s.handler.Logout(c))
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Equal("AUTH_004", decodeError(rec).Error.Code)
	})

	s.Run("blacklist failure", func() {
		s.authService.EXPECT().Logout("valid.token").Return(fmt.Errorf("failed to blacklist token: db down"))

		c, rec := newJSONContext(s.e, http.MethodPost, "/api/v1/auth/logout", nil)
		c.Request().Header.Set("Authorization", "Bearer valid.token")

		s.Require().NoError(s.handler.Logout(c))
		s.Equal(http.StatusInternalServerError, rec.Code)
	})
}
