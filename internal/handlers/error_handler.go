package handlers

import (
	"errors"
	"net/http"

	"github.com/agamariel/laborders/internal/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// NewHTTPErrorHandler возвращает глобальный обработчик ошибок echo,
// приводящий любой сбой к единому JSON-конверту. Помеченные ошибки
// (echo.HTTPError) отдаются со своим статусом и сообщением, всё
// остальное превращается в 500; детали исходной ошибки попадают
// в ответ только вне production-окружения.
func NewHTTPErrorHandler(environment string, logger *zap.SugaredLogger) echo.HTTPErrorHandler {
	development := environment != "production"

	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		resp := models.Response{
			Success: false,
			Message: "internal server error",
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				resp.Message = msg
			}
		} else {
			logger.Errorw("unhandled error",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"error", err,
			)
			if development {
				resp.Error = err.Error()
			}
		}

		if jsonErr := c.JSON(code, resp); jsonErr != nil {
			logger.Errorw("failed to write error response", "error", jsonErr)
		}
	}
}
