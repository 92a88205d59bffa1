package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventHeader struct {
	ID             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func NewEventHeader() EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: uuid.NewString(),
	}
}

func NewEventHeaderWithIdempotencyKey(idempotencyKey string) EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: idempotencyKey,
	}
}

type IEvent interface {
	IsInternal() bool
}

// OrderPlaced is the wire message handed to the durable channel. The OrderID
// is generated once at orchestration start and doubles as the idempotency and
// ordering key for everything downstream.
type OrderPlaced struct {
	Header EventHeader `json:"header"`

	OrderID    uuid.UUID       `json:"order_id"`
	UserID     int64           `json:"user_id"`
	Username   string          `json:"username"`
	TotalPrice decimal.Decimal `json:"total_price"`
	OrderDate  string          `json:"order_date"`
	Items      []OrderLine     `json:"items"`
}

func (OrderPlaced) IsInternal() bool { return false }

// OrderPersisted is emitted through the transactional outbox once the
// consumer has committed the order, and feeds the event log.
type OrderPersisted struct {
	Header EventHeader `json:"header"`

	OrderID     uuid.UUID       `json:"order_id"`
	Username    string          `json:"username"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	PersistedAt time.Time       `json:"persisted_at"`
}

func (OrderPersisted) IsInternal() bool { return true }

// EventLogEntry is the append-only data-lake record of a handled event.
type EventLogEntry struct {
	EventID      string    `db:"event_id"`
	PublishedAt  time.Time `db:"published_at"`
	EventName    string    `db:"event_name"`
	EventPayload []byte    `db:"event_payload"`
}
