package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"orders/entities"
	"orders/message/event"
	"orders/message/outbox"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
)

var ErrOrderNotFound = errors.New("order not found")

type IOrderRepository interface {
	Create(ctx context.Context, order entities.Order) error
	ByID(ctx context.Context, orderID uuid.UUID) (entities.Order, error)
}

type OrderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) OrderRepository {
	if db == nil {
		panic("db is nil")
	}
	return OrderRepository{
		db: db,
	}
}

// Create persists the order and all of its lines in one transaction and
// publishes OrderPersisted through the outbox within the same transaction.
// A redelivered order (same order_id) trips the primary key and is discarded:
// that unique constraint is what makes check-and-persist atomic, a prior
// SELECT alone would race with a concurrent redelivery.
func (r OrderRepository) Create(ctx context.Context, order entities.Order) error {
	tx, err := r.db.Conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	if _, err := tx.NamedExecContext(ctx, `
		INSERT INTO
		    orders (order_id, user_id, username, total_price, order_date)
		VALUES
		    (:order_id, :user_id, :username, :total_price, :order_date)`,
		order,
	); err != nil {
		rollbackErr := tx.Rollback()
		if isErrorUniqueViolation(err) {
			log.FromContext(ctx).
				WithField("order_id", order.OrderID).
				Warn("Order already persisted, discarding duplicate delivery")
			return rollbackErr
		}
		return errors.Join(fmt.Errorf("could not insert order: %w", err), rollbackErr)
	}

	for _, line := range order.Lines {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO
			    order_lines (order_id, product_id, quantity, unit_price, discount, line_total)
			VALUES
			    ($1, $2, $3, $4, $5, $6)`,
			order.OrderID, line.ProductID, line.Quantity, line.UnitPrice, line.DiscountFraction, line.LineTotal,
		); err != nil {
			return errors.Join(fmt.Errorf("could not insert order line: %w", err), tx.Rollback())
		}
	}

	outboxPublisher, err := outbox.NewPublisherForTx(ctx, tx)
	if err != nil {
		return errors.Join(fmt.Errorf("could not create outbox publisher: %w", err), tx.Rollback())
	}
	err = event.NewBus(outboxPublisher).Publish(ctx, entities.OrderPersisted{
		Header:      entities.NewEventHeaderWithIdempotencyKey(order.OrderID.String()),
		OrderID:     order.OrderID,
		Username:    order.Username,
		TotalPrice:  order.TotalPrice,
		PersistedAt: time.Now().UTC(),
	})
	if err != nil {
		return errors.Join(fmt.Errorf("could not publish OrderPersisted: %w", err), tx.Rollback())
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit order: %w", err)
	}

	log.FromContext(ctx).
		WithField("order_id", order.OrderID).
		Info("Order persisted")

	return nil
}

func (r OrderRepository) ByID(ctx context.Context, orderID uuid.UUID) (entities.Order, error) {
	var order entities.Order
	err := r.db.Conn.GetContext(ctx, &order, `
		SELECT order_id, user_id, username, total_price, order_date
		FROM orders
		WHERE order_id = $1`,
		orderID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("could not get order: %w", err)
	}

	err = r.db.Conn.SelectContext(ctx, &order.Lines, `
		SELECT product_id, quantity, unit_price, discount, line_total
		FROM order_lines
		WHERE order_id = $1
		ORDER BY product_id`,
		orderID,
	)
	if err != nil {
		return entities.Order{}, fmt.Errorf("could not get order lines: %w", err)
	}

	return order, nil
}
