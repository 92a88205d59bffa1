package http

import (
	"context"

	"orders/entities"

	"github.com/google/uuid"
)

type Handler struct {
	orders    OrderProcessor
	orderRepo OrderRepository
}

type OrderProcessor interface {
	ProcessOrder(ctx context.Context, username string, request entities.OrderRequest) (uuid.UUID, error)
}

type OrderRepository interface {
	ByID(ctx context.Context, orderID uuid.UUID) (entities.Order, error)
}
