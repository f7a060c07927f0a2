package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/agamariel/laborders/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderStorage определяет интерфейс для работы с заказами.
type OrderStorage interface {
	Create(ctx context.Context, order *models.Order) error
	GetActiveByID(ctx context.Context, id, ownerID uuid.UUID) (*models.Order, error)
	ListActive(ctx context.Context, ownerID uuid.UUID, state models.OrderState, limit, offset int) ([]*models.Order, error)
	CountActive(ctx context.Context, ownerID uuid.UUID, state models.OrderState) (int, error)
	UpdateState(ctx context.Context, id uuid.UUID, state models.OrderState) (time.Time, error)
}

// PostgresOrderStorage реализует OrderStorage для PostgreSQL.
// Услуги заказа хранятся встроенными в JSONB-колонку services,
// порядок элементов сохраняется.
type PostgresOrderStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresOrderStorage создаёт новый экземпляр PostgresOrderStorage.
func NewPostgresOrderStorage(pool *pgxpool.Pool) *PostgresOrderStorage {
	return &PostgresOrderStorage{pool: pool}
}

// Create создаёт новый заказ.
func (s *PostgresOrderStorage) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, lab, patient, customer, services, state, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	servicesJSON, err := json.Marshal(order.Services)
	if err != nil {
		return fmt.Errorf("failed to marshal services: %w", err)
	}

	err = s.pool.QueryRow(ctx, query,
		order.ID,
		order.Lab,
		order.Patient,
		order.Customer,
		servicesJSON,
		order.State,
		order.Status,
		order.CreatedBy,
	).Scan(&order.CreatedAt, &order.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// GetActiveByID возвращает активный заказ по ID и владельцу.
// Единый фильтр по id, владельцу и статусу намеренно схлопывает три причины
// промаха (заказа нет, чужой заказ, мягко удалён) в один ErrOrderNotFound,
// чтобы не раскрывать факт существования чужих заказов.
func (s *PostgresOrderStorage) GetActiveByID(ctx context.Context, id, ownerID uuid.UUID) (*models.Order, error) {
	query := `
		SELECT id, lab, patient, customer, services, state, status, created_by, created_at, updated_at
		FROM orders
		WHERE id = $1 AND created_by = $2 AND status = 'ACTIVE'
	`

	return scanOrder(s.pool.QueryRow(ctx, query, id, ownerID))
}

// ListActive возвращает страницу активных заказов владельца,
// отсортированных по времени создания (новые первыми).
// Пустой state означает отсутствие фильтра по этапу.
func (s *PostgresOrderStorage) ListActive(ctx context.Context, ownerID uuid.UUID, state models.OrderState, limit, offset int) ([]*models.Order, error) {
	args := []interface{}{ownerID}
	stateCond := ""
	if state != "" {
		args = append(args, state)
		stateCond = " AND state = $2"
	}
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
		SELECT id, lab, patient, customer, services, state, status, created_by, created_at, updated_at
		FROM orders
		WHERE created_by = $1 AND status = 'ACTIVE'%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, stateCond, len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return orders, nil
}

// CountActive возвращает полное число активных заказов владельца
// под тем же фильтром, что и ListActive, без учёта пагинации.
func (s *PostgresOrderStorage) CountActive(ctx context.Context, ownerID uuid.UUID, state models.OrderState) (int, error) {
	args := []interface{}{ownerID}
	stateCond := ""
	if state != "" {
		args = append(args, state)
		stateCond = " AND state = $2"
	}

	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM orders
		WHERE created_by = $1 AND status = 'ACTIVE'%s
	`, stateCond)

	var total int
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return total, nil
}

// UpdateState переводит заказ на новый этап и возвращает время обновления.
func (s *PostgresOrderStorage) UpdateState(ctx context.Context, id uuid.UUID, state models.OrderState) (time.Time, error) {
	query := `
		UPDATE orders
		SET state = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at
	`

	var updatedAt time.Time
	err := s.pool.QueryRow(ctx, query, state, id).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, ErrOrderNotFound
		}
		return time.Time{}, fmt.Errorf("failed to update order state: %w", err)
	}

	return updatedAt, nil
}

// scanOrder помогает читать заказ из строки результата.
func scanOrder(row pgx.Row) (*models.Order, error) {
	var (
		order        models.Order
		servicesJSON []byte
	)

	err := row.Scan(
		&order.ID,
		&order.Lab,
		&order.Patient,
		&order.Customer,
		&servicesJSON,
		&order.State,
		&order.Status,
		&order.CreatedBy,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	if err := json.Unmarshal(servicesJSON, &order.Services); err != nil {
		return nil, fmt.Errorf("failed to unmarshal services: %w", err)
	}

	return &order, nil
}
