package middleware

import (
	stderrors "errors"
	"log/slog"

	"expense-tracker/internal/errors"
	"expense-tracker/internal/handlers"
	"expense-tracker/internal/repositories"
	"expense-tracker/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Context keys set by RequireAuth
const (
	UserIDContextKey   = "user_id"
	UsernameContextKey = "username"
	TokenJTIContextKey = "token_jti"
)

// RequireAuth creates a middleware that requires a valid bearer token
// and checks that the token has not been blacklisted by a logout
func RequireAuth(tokenService services.TokenServiceInterface, blacklistedTokenRepo repositories.BlacklistedTokenRepositoryInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return handlers.SendError(c, errors.AuthMissingToken)
			}

			token, err := tokenService.ExtractTokenFromHeader(authHeader)
			if err != nil {
				return handlers.SendError(c, errors.AuthInvalidTokenFormat)
			}

			claims, err := tokenService.ValidateAccessToken(token)
			if err != nil {
				if stderrors.Is(err, services.ErrExpiredToken) {
					return handlers.SendError(c, errors.AuthExpiredToken)
				}
				return handlers.SendError(c, errors.AuthInvalidTokenFormat)
			}

			revoked, err := blacklistedTokenRepo.IsBlacklisted(claims.ID)
			if err != nil {
				slog.Error("failed to check token blacklist",
					"trace_id", GetTraceID(c),
					"error", err)
				return handlers.SendError(c, errors.SystemServiceUnavailable)
			}
			if revoked {
				return handlers.SendError(c, errors.AuthTokenRevoked)
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return handlers.SendError(c, errors.AuthInvalidTokenFormat, errors.WithDetails("Invalid user ID in token"))
			}

			c.Set(UserIDContextKey, userID)
			c.Set(UsernameContextKey, claims.Username)
			c.Set(TokenJTIContextKey, claims.ID)

			return next(c)
		}
	}
}
