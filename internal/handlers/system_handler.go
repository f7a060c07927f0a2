package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Version - версия API, отдаваемая health-эндпоинтом.
const Version = "1.0.0"

// SystemHandler обрабатывает служебные маршруты: health check,
// справочник эндпоинтов и ответ на несуществующие маршруты.
type SystemHandler struct {
	apiPrefix   string
	environment string
}

// NewSystemHandler создаёт новый экземпляр SystemHandler.
func NewSystemHandler(apiPrefix, environment string) *SystemHandler {
	return &SystemHandler{
		apiPrefix:   apiPrefix,
		environment: environment,
	}
}

// Health обрабатывает GET {prefix}/health.
func (h *SystemHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"message":     "API is up and running",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": h.environment,
		"version":     Version,
	})
}

// Root обрабатывает GET / и возвращает справочник доступных маршрутов.
func (h *SystemHandler) Root(c echo.Context) error {
	base := baseURL(c)
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "laboratory test order management API",
		"documentation": base + h.apiPrefix + "/health",
		"endpoints": echo.Map{
			"auth": echo.Map{
				"register": "POST " + h.apiPrefix + "/auth/register",
				"login":    "POST " + h.apiPrefix + "/auth/login",
			},
			"orders": echo.Map{
				"create":  "POST " + h.apiPrefix + "/orders",
				"list":    "GET " + h.apiPrefix + "/orders",
				"advance": "PATCH " + h.apiPrefix + "/orders/:id/advance",
			},
		},
	})
}

// NotFound отвечает на запрос к несуществующему маршруту.
func (h *SystemHandler) NotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, echo.Map{
		"success":   false,
		"message":   fmt.Sprintf("route not found: %s", c.Request().RequestURI),
		"suggested": baseURL(c),
	})
}

func baseURL(c echo.Context) string {
	return c.Scheme() + "://" + c.Request().Host
}
