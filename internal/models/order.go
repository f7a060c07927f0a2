package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderState описывает этап обработки заказа.
type OrderState string

const (
	OrderStateCreated   OrderState = "CREATED"
	OrderStateAnalysis  OrderState = "ANALYSIS"
	OrderStateCompleted OrderState = "COMPLETED"
)

// stateTransitions задаёт допустимые переходы между этапами:
// CREATED -> ANALYSIS -> COMPLETED. Движение только вперёд, без пропусков.
var stateTransitions = map[OrderState]OrderState{
	OrderStateCreated:  OrderStateAnalysis,
	OrderStateAnalysis: OrderStateCompleted,
}

// Next возвращает следующий этап заказа.
// Для терминального этапа (COMPLETED) ok == false.
func (s OrderState) Next() (OrderState, bool) {
	next, ok := stateTransitions[s]
	return next, ok
}

// OrderStatus - флаг мягкого удаления заказа, не связан с этапом обработки.
type OrderStatus string

const (
	OrderStatusActive  OrderStatus = "ACTIVE"
	OrderStatusDeleted OrderStatus = "DELETED"
)

// ServiceStatus описывает статус отдельной услуги в заказе.
type ServiceStatus string

const (
	ServiceStatusPending ServiceStatus = "PENDING"
	ServiceStatusDone    ServiceStatus = "DONE"
)

// ErrValidation возвращается при нарушении бизнес-правил заказа.
var ErrValidation = errors.New("validation failed")

// Service - услуга лаборатории внутри заказа. Хранится встроенной в заказ
// (JSONB-колонка) и отдельной сущности не имеет.
type Service struct {
	Name   string          `json:"name"`
	Value  decimal.Decimal `json:"value"`
	Status ServiceStatus   `json:"status"`
}

// Order представляет заказ лабораторных исследований.
type Order struct {
	ID        uuid.UUID   `db:"id"`
	Lab       string      `db:"lab"`
	Patient   string      `db:"patient"`
	Customer  string      `db:"customer"`
	Services  []Service   `db:"services"`
	State     OrderState  `db:"state"`
	Status    OrderStatus `db:"status"`
	CreatedBy uuid.UUID   `db:"created_by"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

// TotalValue возвращает суммарную стоимость услуг заказа.
// Вычисляется при обращении, в базе не хранится.
func (o *Order) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, svc := range o.Services {
		total = total.Add(svc.Value)
	}
	return total
}

// Normalize убирает пробельные края у строковых полей заказа.
func (o *Order) Normalize() {
	o.Lab = strings.TrimSpace(o.Lab)
	o.Patient = strings.TrimSpace(o.Patient)
	o.Customer = strings.TrimSpace(o.Customer)
	for i := range o.Services {
		o.Services[i].Name = strings.TrimSpace(o.Services[i].Name)
	}
}

// Validate проверяет бизнес-правила заказа. Вызывается явно перед каждым
// сохранением: при создании и при смене этапа.
func (o *Order) Validate() error {
	if o.Lab == "" {
		return validationError("lab is required")
	}
	if o.Patient == "" {
		return validationError("patient is required")
	}
	if o.Customer == "" {
		return validationError("customer is required")
	}
	if len(o.Services) == 0 {
		return validationError("order must contain at least one service")
	}
	for _, svc := range o.Services {
		if svc.Name == "" {
			return validationError("service name is required")
		}
		if svc.Value.IsNegative() {
			return validationError("service value cannot be negative")
		}
	}
	if !o.TotalValue().GreaterThan(decimal.Zero) {
		return validationError("order total value must be greater than zero")
	}
	return nil
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// ServiceInput - услуга в запросе на создание заказа.
// Статус клиентом не задаётся: новая услуга всегда PENDING.
type ServiceInput struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// CreateOrderRequest - запрос на создание заказа.
type CreateOrderRequest struct {
	Lab      string         `json:"lab"`
	Patient  string         `json:"patient"`
	Customer string         `json:"customer"`
	Services []ServiceInput `json:"services"`
}

// ServiceResponse - услуга заказа в ответе API.
type ServiceResponse struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Status string  `json:"status"`
}

// OrderResponse - заказ в ответе API. Внутренний идентификатор отдаётся
// строкой в поле id, totalValue вычисляется при сериализации.
type OrderResponse struct {
	ID         string            `json:"id"`
	Lab        string            `json:"lab"`
	Patient    string            `json:"patient"`
	Customer   string            `json:"customer"`
	Services   []ServiceResponse `json:"services"`
	State      string            `json:"state"`
	Status     string            `json:"status"`
	TotalValue float64           `json:"totalValue"`
	CreatedBy  string            `json:"createdBy"`
	CreatedAt  string            `json:"createdAt"`
	UpdatedAt  string            `json:"updatedAt"`
}

// Pagination - метаданные страницы в ответе на список заказов.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewOrderResponse преобразует заказ в DTO для HTTP-ответа.
func NewOrderResponse(order *Order) *OrderResponse {
	services := make([]ServiceResponse, 0, len(order.Services))
	for _, svc := range order.Services {
		value, _ := svc.Value.Float64()
		services = append(services, ServiceResponse{
			Name:   svc.Name,
			Value:  value,
			Status: string(svc.Status),
		})
	}

	totalValue, _ := order.TotalValue().Float64()

	return &OrderResponse{
		ID:         order.ID.String(),
		Lab:        order.Lab,
		Patient:    order.Patient,
		Customer:   order.Customer,
		Services:   services,
		State:      string(order.State),
		Status:     string(order.Status),
		TotalValue: totalValue,
		CreatedBy:  order.CreatedBy.String(),
		CreatedAt:  order.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  order.UpdatedAt.Format(time.RFC3339),
	}
}
