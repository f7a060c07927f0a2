package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/agamariel/laborders/internal/models"
	"github.com/agamariel/laborders/internal/storage"
	"github.com/google/uuid"
)

var (
	// ErrTerminalState возвращается при попытке продвинуть заказ,
	// уже находящийся в терминальном этапе.
	ErrTerminalState = errors.New("order is already in the terminal state")
)

// DefaultPageLimit - размер страницы списка заказов по умолчанию.
const DefaultPageLimit = 10

// OrderService определяет интерфейс работы с заказами.
type OrderService interface {
	CreateOrder(ctx context.Context, ownerID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error)
	GetOrders(ctx context.Context, ownerID uuid.UUID, page, limit int, state models.OrderState) ([]*models.Order, *models.Pagination, error)
	AdvanceOrder(ctx context.Context, ownerID uuid.UUID, orderID string) (*models.Order, error)
}

// OrderServiceImpl реализует OrderService.
type OrderServiceImpl struct {
	orderStorage storage.OrderStorage
}

// NewOrderService создаёт новый сервис заказов.
func NewOrderService(orderStorage storage.OrderStorage) *OrderServiceImpl {
	return &OrderServiceImpl{orderStorage: orderStorage}
}

// CreateOrder создаёт новый заказ владельца.
// Этап и статус клиентом не задаются: новый заказ всегда CREATED и ACTIVE.
func (s *OrderServiceImpl) CreateOrder(ctx context.Context, ownerID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error) {
	orderServices := make([]models.Service, 0, len(req.Services))
	for _, svc := range req.Services {
		orderServices = append(orderServices, models.Service{
			Name:   svc.Name,
			Value:  svc.Value,
			Status: models.ServiceStatusPending,
		})
	}

	order := &models.Order{
		ID:        uuid.New(),
		Lab:       req.Lab,
		Patient:   req.Patient,
		Customer:  req.Customer,
		Services:  orderServices,
		State:     models.OrderStateCreated,
		Status:    models.OrderStatusActive,
		CreatedBy: ownerID,
	}

	order.Normalize()
	if err := order.Validate(); err != nil {
		return nil, err
	}

	if err := s.orderStorage.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	return order, nil
}

// GetOrders возвращает страницу заказов владельца с метаданными пагинации.
// Пустой state означает отсутствие фильтра; неизвестное значение не
// отвергается и просто не найдёт ни одного заказа.
func (s *OrderServiceImpl) GetOrders(ctx context.Context, ownerID uuid.UUID, page, limit int, state models.OrderState) ([]*models.Order, *models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	offset := (page - 1) * limit

	// Счётчик и страница читаются двумя независимыми запросами без
	// транзакции: при параллельных записях total может разойтись
	// с содержимым страницы.
	total, err := s.orderStorage.CountActive(ctx, ownerID, state)
	if err != nil {
		return nil, nil, fmt.Errorf("count orders: %w", err)
	}

	orders, err := s.orderStorage.ListActive(ctx, ownerID, state, limit, offset)
	if err != nil {
		return nil, nil, fmt.Errorf("list orders: %w", err)
	}

	if orders == nil {
		orders = []*models.Order{}
	}

	pagination := &models.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}

	return orders, pagination, nil
}

// AdvanceOrder переводит заказ владельца на следующий этап.
func (s *OrderServiceImpl) AdvanceOrder(ctx context.Context, ownerID uuid.UUID, orderID string) (*models.Order, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		// Структурно невалидный идентификатор неотличим для клиента
		// от отсутствующего заказа.
		return nil, storage.ErrOrderNotFound
	}

	order, err := s.orderStorage.GetActiveByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return nil, storage.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	next, ok := order.State.Next()
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrTerminalState, order.State)
	}

	order.State = next
	if err := order.Validate(); err != nil {
		return nil, err
	}

	updatedAt, err := s.orderStorage.UpdateState(ctx, order.ID, next)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return nil, storage.ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order state: %w", err)
	}
	order.UpdatedAt = updatedAt

	return order, nil
}
