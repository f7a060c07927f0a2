package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/agamariel/laborders/internal/auth"
	"github.com/agamariel/laborders/internal/models"
	"github.com/agamariel/laborders/internal/services"
	"github.com/agamariel/laborders/internal/storage"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// OrderHandler обрабатывает запросы, связанные с заказами.
type OrderHandler struct {
	orderService services.OrderService
	logger       *zap.SugaredLogger
}

// NewOrderHandler создаёт новый экземпляр OrderHandler.
func NewOrderHandler(orderService services.OrderService, logger *zap.SugaredLogger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// CreateOrder обрабатывает POST {prefix}/orders.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	order, err := h.orderService.CreateOrder(c.Request().Context(), userID, &req)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		h.logger.Errorw("failed to create order", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "order created successfully",
		Data:    echo.Map{"order": models.NewOrderResponse(order)},
	})
}

// GetOrders обрабатывает GET {prefix}/orders.
func (h *OrderHandler) GetOrders(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	page, limit := parsePagination(c)
	state := models.OrderState(c.QueryParam("state"))

	orders, pagination, err := h.orderService.GetOrders(c.Request().Context(), userID, page, limit, state)
	if err != nil {
		h.logger.Errorw("failed to list orders", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	// Пустая страница сериализуется как [], а не null
	response := make([]*models.OrderResponse, 0, len(orders))
	for _, order := range orders {
		response = append(response, models.NewOrderResponse(order))
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "orders retrieved successfully",
		Data: echo.Map{
			"orders":     response,
			"pagination": pagination,
		},
	})
}

// AdvanceOrder обрабатывает PATCH {prefix}/orders/:id/advance.
func (h *OrderHandler) AdvanceOrder(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.AdvanceOrder(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrOrderNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, services.ErrTerminalState):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, models.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			h.logger.Errorw("failed to advance order", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: fmt.Sprintf("order advanced to %s", order.State),
		Data:    echo.Map{"order": models.NewOrderResponse(order)},
	})
}

// parsePagination извлекает параметры пагинации из query-строки.
// Невалидные значения заменяются значениями по умолчанию.
// Верхняя граница limit намеренно не задана: клиент может запросить
// страницу произвольного размера.
func parsePagination(c echo.Context) (page, limit int) {
	page = 1
	limit = services.DefaultPageLimit

	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	return page, limit
}
