package event

import (
	"context"
	"time"

	"orders/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

// PersistOrder is the idempotent sink of the pipeline. The repository's
// unique constraint on order_id turns a redelivered event into a no-op, so
// at-least-once delivery from the channel is safe. Failures roll back and
// are returned, leaving redelivery to the router's retry middleware and the
// stream's own semantics.
func (h Handler) PersistOrder(ctx context.Context, event *entities.OrderPlaced) error {
	log.FromContext(ctx).
		WithField("order_id", event.OrderID).
		Info("Persisting order")

	orderDate, err := time.Parse(time.RFC3339, event.OrderDate)
	if err != nil {
		// malformed date on an otherwise valid event: retrying would never
		// succeed, so fall back to the header timestamp instead of poisoning
		// the queue
		log.FromContext(ctx).
			WithField("order_id", event.OrderID).
			WithField("order_date", event.OrderDate).
			Warn("Unparseable order date, falling back to publish time")
		orderDate = event.Header.PublishedAt
	}

	return h.orderRepo.Create(ctx, entities.Order{
		OrderID:    event.OrderID,
		UserID:     event.UserID,
		Username:   event.Username,
		TotalPrice: event.TotalPrice,
		OrderDate:  orderDate,
		Lines:      event.Items,
	})
}
