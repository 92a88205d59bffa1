package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"orders/api"
	"orders/db"
	"orders/entities"
	"orders/message"
	"orders/message/event"
	"orders/service"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponent(t *testing.T) {
	if os.Getenv("REDIS_ADDR") == "" || os.Getenv("POSTGRES_URL") == "" {
		t.Skip("REDIS_ADDR and POSTGRES_URL must be set")
	}

	rdb := message.NewRedisClient(os.Getenv("REDIS_ADDR"))
	defer rdb.Close()

	conn, err := db.NewDBConn(os.Getenv("POSTGRES_URL"))
	require.NoError(t, err)
	defer conn.Close()
	conn.MigrateSchema()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inventory := &api.InventoryMock{
		Products: map[int64]api.MockProduct{
			1: {Name: "keyboard", Available: 100, UnitPrice: dec("100.00"), DiscountFraction: dec("0.1")},
			2: {Name: "mouse", Available: 1, UnitPrice: dec("25.00"), DiscountFraction: dec("0")},
		},
	}

	go func() {
		svc := service.New("8080", rdb, inventory, conn)
		assert.NoError(t, svc.Run(ctx))
	}()
	waitForHttpServer(t)

	alice, err := db.NewUserRepository(&conn).Create(ctx, "alice")
	require.NoError(t, err)

	t.Run("order is accepted and eventually persisted", func(t *testing.T) {
		resp := sendOrder(t, postOrderRequest{
			Username: "alice",
			Items:    []entities.OrderItem{{ProductID: 1, Quantity: 2}},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created postOrderResponse
		decodeBody(t, resp, &created)
		require.NotEmpty(t, created.OrderID)

		assertOrderPersisted(t, created.OrderID, alice.Username, "180.00")
	})

	t.Run("unavailable products reject the whole order", func(t *testing.T) {
		reservationsBefore := inventory.ReservationCount()

		resp := sendOrder(t, postOrderRequest{
			Username: "alice",
			Items: []entities.OrderItem{
				{ProductID: 1, Quantity: 1},
				{ProductID: 2, Quantity: 5},
			},
		})
		require.Equal(t, http.StatusConflict, resp.StatusCode)

		var body errorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "unavailable-products", body.Status)
		require.Len(t, body.UnavailableProducts, 1)
		assert.Equal(t, int64(2), body.UnavailableProducts[0].ProductID)
		assert.Equal(t, int32(5), body.UnavailableProducts[0].Requested)
		assert.Equal(t, int32(1), body.UnavailableProducts[0].Available)

		assert.Equal(t, reservationsBefore, inventory.ReservationCount())
	})

	t.Run("unknown user is rejected", func(t *testing.T) {
		resp := sendOrder(t, postOrderRequest{
			Username: "mallory",
			Items:    []entities.OrderItem{{ProductID: 1, Quantity: 1}},
		})
		require.Equal(t, http.StatusNotFound, resp.StatusCode)

		var body errorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "not-found", body.Status)
	})

	t.Run("duplicate event delivery persists one order", func(t *testing.T) {
		watermillLogger := log.NewWatermill(log.FromContext(ctx))
		eventBus := event.NewBus(message.NewRedisPublisher(rdb, watermillLogger))

		orderID := uuid.New()
		placed := entities.OrderPlaced{
			Header:     entities.NewEventHeaderWithIdempotencyKey(orderID.String()),
			OrderID:    orderID,
			UserID:     alice.UserID,
			Username:   alice.Username,
			TotalPrice: dec("49.99"),
			OrderDate:  time.Now().UTC().Format(time.RFC3339),
			Items: []entities.OrderLine{
				{
					ProductID:        7,
					Quantity:         1,
					UnitPrice:        dec("49.99"),
					DiscountFraction: decimal.Zero,
					LineTotal:        dec("49.99"),
				},
			},
		}

		require.NoError(t, eventBus.Publish(ctx, placed))
		require.NoError(t, eventBus.Publish(ctx, placed))

		assertOrderPersisted(t, orderID.String(), alice.Username, "49.99")

		var count int
		err := conn.Conn.GetContext(ctx, &count, "SELECT COUNT(*) FROM orders WHERE order_id = $1", orderID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

type orderResponse struct {
	OrderID    string `json:"order_id"`
	Username   string `json:"username"`
	TotalPrice string `json:"total_price"`
}

func assertOrderPersisted(t *testing.T, orderID string, username string, totalPrice string) {
	t.Helper()

	assert.EventuallyWithT(
		t,
		func(t *assert.CollectT) {
			resp, err := http.Get(baseURL + "/orders/" + orderID)
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()

			if !assert.Equal(t, http.StatusOK, resp.StatusCode) {
				return
			}

			var order orderResponse
			if !assert.NoError(t, json.NewDecoder(resp.Body).Decode(&order)) {
				return
			}

			assert.Equal(t, orderID, order.OrderID)
			assert.Equal(t, username, order.Username)

			got, err := decimal.NewFromString(order.TotalPrice)
			if assert.NoError(t, err) {
				assert.True(t, dec(totalPrice).Equal(got), "total price %s != %s", order.TotalPrice, totalPrice)
			}
		},
		10*time.Second,
		100*time.Millisecond,
	)
}

func waitForHttpServer(t *testing.T) {
	t.Helper()

	require.EventuallyWithT(
		t,
		func(t *assert.CollectT) {
			resp, err := http.Get(baseURL + "/health")
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()

			assert.Less(t, resp.StatusCode, 300, "API not ready, http status: %d", resp.StatusCode)
		},
		time.Second*10,
		time.Millisecond*50,
	)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
