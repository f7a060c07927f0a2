package handlers

import (
	"errors"
	"net/http"

	"github.com/agamariel/laborders/internal/models"
	"github.com/agamariel/laborders/internal/services"
	"github.com/agamariel/laborders/internal/storage"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserHandler обрабатывает HTTP-запросы регистрации и входа.
type UserHandler struct {
	userService services.UserService
	logger      *zap.SugaredLogger
}

// NewUserHandler создаёт новый экземпляр UserHandler.
func NewUserHandler(userService services.UserService, logger *zap.SugaredLogger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// Register обрабатывает POST {prefix}/auth/register.
func (h *UserHandler) Register(c echo.Context) error {
	var req models.RegisterRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	user, token, err := h.userService.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCredentials):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, storage.ErrEmailExists):
			return echo.NewHTTPError(http.StatusBadRequest, "email already registered")
		default:
			h.logger.Errorw("failed to register user", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "user registered successfully",
		Data: models.AuthResponse{
			User:  models.NewUserResponse(user),
			Token: token,
		},
	})
}

// Login обрабатывает POST {prefix}/auth/login.
func (h *UserHandler) Login(c echo.Context) error {
	var req models.LoginRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	user, token, err := h.userService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCredentials):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrInvalidCredentials):
			// Неизвестный email и неверный пароль дают одинаковый ответ.
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		default:
			h.logger.Errorw("failed to login user", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "login successful",
		Data: models.AuthResponse{
			User:  models.NewUserResponse(user),
			Token: token,
		},
	})
}
