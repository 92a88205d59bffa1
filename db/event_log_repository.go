package db

import (
	"context"
	"fmt"

	"orders/entities"
)

type IEventLogRepository interface {
	Append(ctx context.Context, entry entities.EventLogEntry) error
}

// EventLogRepository is the append-only data lake of everything that went
// through the pipeline, keyed by event id so replays are harmless.
type EventLogRepository struct {
	db *DB
}

func NewEventLogRepository(db *DB) EventLogRepository {
	if db == nil {
		panic("db is nil")
	}
	return EventLogRepository{
		db: db,
	}
}

func (r EventLogRepository) Append(ctx context.Context, entry entities.EventLogEntry) error {
	_, err := r.db.Conn.ExecContext(ctx, `
		INSERT INTO
		    events (event_id, published_at, event_name, event_payload)
		VALUES
		    ($1, $2, $3, $4)
		ON CONFLICT (event_id) DO NOTHING`,
		entry.EventID, entry.PublishedAt, entry.EventName, entry.EventPayload,
	)
	if err != nil {
		return fmt.Errorf("could not append event to log: %w", err)
	}

	return nil
}
