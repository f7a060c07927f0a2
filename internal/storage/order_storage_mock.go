package storage

import (
	"context"
	"time"

	"github.com/agamariel/laborders/internal/models"
	"github.com/google/uuid"
)

// MockOrderStorage - мок для тестирования (экспортируемый для использования в других пакетах)
type MockOrderStorage struct {
	CreateFunc        func(ctx context.Context, order *models.Order) error
	GetActiveByIDFunc func(ctx context.Context, id, ownerID uuid.UUID) (*models.Order, error)
	ListActiveFunc    func(ctx context.Context, ownerID uuid.UUID, state models.OrderState, limit, offset int) ([]*models.Order, error)
	CountActiveFunc   func(ctx context.Context, ownerID uuid.UUID, state models.OrderState) (int, error)
	UpdateStateFunc   func(ctx context.Context, id uuid.UUID, state models.OrderState) (time.Time, error)
}

func (m *MockOrderStorage) Create(ctx context.Context, order *models.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, order)
	}
	return nil
}

func (m *MockOrderStorage) GetActiveByID(ctx context.Context, id, ownerID uuid.UUID) (*models.Order, error) {
	if m.GetActiveByIDFunc != nil {
		return m.GetActiveByIDFunc(ctx, id, ownerID)
	}
	return nil, ErrOrderNotFound
}

func (m *MockOrderStorage) ListActive(ctx context.Context, ownerID uuid.UUID, state models.OrderState, limit, offset int) ([]*models.Order, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx, ownerID, state, limit, offset)
	}
	return nil, nil
}

func (m *MockOrderStorage) CountActive(ctx context.Context, ownerID uuid.UUID, state models.OrderState) (int, error) {
	if m.CountActiveFunc != nil {
		return m.CountActiveFunc(ctx, ownerID, state)
	}
	return 0, nil
}

func (m *MockOrderStorage) UpdateState(ctx context.Context, id uuid.UUID, state models.OrderState) (time.Time, error) {
	if m.UpdateStateFunc != nil {
		return m.UpdateStateFunc(ctx, id, state)
	}
	return time.Now(), nil
}
