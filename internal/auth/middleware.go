package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/agamariel/laborders/internal/models"
	"github.com/agamariel/laborders/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey - тип для ключей контекста.
type ContextKey string

const (
	// UserIDKey - ключ для хранения ID пользователя в контексте.
	UserIDKey ContextKey = "user_id"
	// UserEmailKey - ключ для хранения email пользователя в контексте.
	UserEmailKey ContextKey = "user_email"
)

// UserResolver сверяет субъект токена с хранилищем пользователей.
type UserResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// JWTMiddleware создаёт middleware для проверки bearer-токена.
// Валидный токен дополнительно сверяется с базой: если пользователь
// удалён, запрос отклоняется, хотя подпись и срок действия в порядке.
func JWTMiddleware(secret string, users UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractBearerToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token not provided")
			}

			claims, err := ValidateToken(token, secret)
			if err != nil {
				if errors.Is(err, ErrTokenExpired) {
					return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			user, err := users.GetByID(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, storage.ErrUserNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication failed")
			}

			// Сохранение данных пользователя в контексте
			c.Set(string(UserIDKey), user.ID)
			c.Set(string(UserEmailKey), user.Email)

			return next(c)
		}
	}
}

// extractBearerToken извлекает токен из заголовка Authorization.
// Принимается только формат "Bearer <token>".
func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

// GetUserIDFromContext извлекает ID пользователя из контекста.
func GetUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get(string(UserIDKey)).(uuid.UUID)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}
	return userID, nil
}

// GetUserEmailFromContext извлекает email пользователя из контекста.
func GetUserEmailFromContext(c echo.Context) (string, error) {
	email, ok := c.Get(string(UserEmailKey)).(string)
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}
	return email, nil
}
