package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is a single product/quantity pair as submitted by the customer.
type OrderItem struct {
	ProductID int64 `json:"product_id" db:"product_id"`
	Quantity  int32 `json:"quantity" db:"quantity"`
}

// OrderRequest is the customer's submission. It is validated once by the
// orchestrator and never mutated afterwards.
type OrderRequest struct {
	Items []OrderItem `json:"items"`
}

// OrderLine is a priced line item. DiscountFraction is already clamped into
// [0, 1] and LineTotal is exact decimal arithmetic, never a binary float.
type OrderLine struct {
	ProductID        int64           `json:"product_id" db:"product_id"`
	Quantity         int32           `json:"quantity" db:"quantity"`
	UnitPrice        decimal.Decimal `json:"price" db:"unit_price"`
	DiscountFraction decimal.Decimal `json:"discount" db:"discount"`
	LineTotal        decimal.Decimal `json:"item_total" db:"line_total"`
}

// Order is the durable record owned by the consumer side of the pipeline.
// It is created exactly once per OrderID and never updated in place.
type Order struct {
	OrderID    uuid.UUID       `json:"order_id" db:"order_id"`
	UserID     int64           `json:"user_id" db:"user_id"`
	Username   string          `json:"username" db:"username"`
	TotalPrice decimal.Decimal `json:"total_price" db:"total_price"`
	OrderDate  time.Time       `json:"order_date" db:"order_date"`
	Lines      []OrderLine     `json:"lines" db:"-"`
}

// User is the opaque principal resolved from a username.
type User struct {
	UserID   int64  `json:"user_id" db:"user_id"`
	Username string `json:"username" db:"username"`
}
