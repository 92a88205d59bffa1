package db

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"orders/entities"
	"orders/message/outbox"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDb *sqlx.DB
var getDbOnce sync.Once

func getDb(t *testing.T) DB {
	if os.Getenv("POSTGRES_URL") == "" {
		t.Skip("POSTGRES_URL not set")
	}
	getDbOnce.Do(func() {
		var err error
		testDb, err = sqlx.Open("postgres", os.Getenv("POSTGRES_URL"))
		if err != nil {
			panic(err)
		}
	})

	db := DB{Conn: testDb}
	db.MigrateSchema()

	// the outbox publisher inside Create needs the watermill-sql tables
	outbox.SubscribeForPGMessages(testDb, watermill.NopLogger{})

	return db
}

func TestOrderCreateIsIdempotent(t *testing.T) {
	db := getDb(t)
	orderRepo := NewOrderRepository(&db)
	ctx := context.Background()

	order := entities.Order{
		OrderID:    uuid.New(),
		UserID:     1,
		Username:   "alice",
		TotalPrice: decimal.RequireFromString("180.00"),
		OrderDate:  time.Now().UTC().Truncate(time.Second),
		Lines: []entities.OrderLine{
			{
				ProductID:        1,
				Quantity:         2,
				UnitPrice:        decimal.RequireFromString("100.00"),
				DiscountFraction: decimal.RequireFromString("0.1"),
				LineTotal:        decimal.RequireFromString("180.00"),
			},
		},
	}

	err := orderRepo.Create(ctx, order)
	require.NoError(t, err)

	// a redelivery of the same order is discarded, not duplicated
	err = orderRepo.Create(ctx, order)
	require.NoError(t, err)

	var count int
	err = db.Conn.GetContext(ctx, &count, "SELECT COUNT(*) FROM orders WHERE order_id = $1", order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	err = db.Conn.GetContext(ctx, &count, "SELECT COUNT(*) FROM order_lines WHERE order_id = $1", order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestOrderByID(t *testing.T) {
	db := getDb(t)
	orderRepo := NewOrderRepository(&db)
	ctx := context.Background()

	order := entities.Order{
		OrderID:    uuid.New(),
		UserID:     2,
		Username:   "bob",
		TotalPrice: decimal.RequireFromString("49.99"),
		OrderDate:  time.Now().UTC().Truncate(time.Second),
		Lines: []entities.OrderLine{
			{
				ProductID:        7,
				Quantity:         1,
				UnitPrice:        decimal.RequireFromString("49.99"),
				DiscountFraction: decimal.Zero,
				LineTotal:        decimal.RequireFromString("49.99"),
			},
		},
	}

	err := orderRepo.Create(ctx, order)
	require.NoError(t, err)

	stored, err := orderRepo.ByID(ctx, order.OrderID)
	require.NoError(t, err)

	assert.Equal(t, order.OrderID, stored.OrderID)
	assert.Equal(t, order.Username, stored.Username)
	assert.True(t, order.TotalPrice.Equal(stored.TotalPrice))
	require.Len(t, stored.Lines, 1)
	assert.Equal(t, int64(7), stored.Lines[0].ProductID)
	assert.True(t, order.Lines[0].LineTotal.Equal(stored.Lines[0].LineTotal))
}

func TestOrderByIDNotFound(t *testing.T) {
	db := getDb(t)
	orderRepo := NewOrderRepository(&db)

	_, err := orderRepo.ByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUserCreateAndFind(t *testing.T) {
	db := getDb(t)
	userRepo := NewUserRepository(&db)
	ctx := context.Background()

	created, err := userRepo.Create(ctx, "carol")
	require.NoError(t, err)
	require.NotZero(t, created.UserID)

	// creating the same username again keeps the same id
	again, err := userRepo.Create(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, created.UserID, again.UserID)

	found, err := userRepo.FindByUsername(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, created.UserID, found.UserID)

	_, err = userRepo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
