package event

import (
	"context"

	"orders/entities"

	"github.com/google/uuid"
)

type OrderRepository interface {
	Create(ctx context.Context, order entities.Order) error
	ByID(ctx context.Context, orderID uuid.UUID) (entities.Order, error)
}

type EventLogRepository interface {
	Append(ctx context.Context, entry entities.EventLogEntry) error
}

type Handler struct {
	orderRepo OrderRepository
	eventLog  EventLogRepository
}

func NewHandler(orderRepo OrderRepository, eventLog EventLogRepository) Handler {
	if orderRepo == nil {
		panic("missing orderRepo")
	}
	if eventLog == nil {
		panic("missing eventLog")
	}
	return Handler{
		orderRepo: orderRepo,
		eventLog:  eventLog,
	}
}
