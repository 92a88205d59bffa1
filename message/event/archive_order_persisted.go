package event

import (
	"context"
	"encoding/json"
	"fmt"

	"orders/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

func (h Handler) ArchiveOrderPersisted(ctx context.Context, event *entities.OrderPersisted) error {
	log.FromContext(ctx).
		WithField("order_id", event.OrderID).
		Info("Archiving OrderPersisted event")

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal OrderPersisted: %w", err)
	}

	return h.eventLog.Append(ctx, entities.EventLogEntry{
		EventID:      event.Header.ID,
		PublishedAt:  event.Header.PublishedAt,
		EventName:    "OrderPersisted",
		EventPayload: payload,
	})
}
