package entities

import "github.com/shopspring/decimal"

type AvailabilityQueryItem struct {
	ProductID         int64 `json:"product_id"`
	RequestedQuantity int32 `json:"requested_quantity"`
}

// AvailabilityQuery is the bulk request sent to the inventory authority.
// CorrelationID is the order id, so remote logs line up with ours.
type AvailabilityQuery struct {
	CorrelationID string                  `json:"correlation_id"`
	Items         []AvailabilityQueryItem `json:"items"`
}

type AvailabilityItem struct {
	ProductID         int64           `json:"product_id"`
	Name              string          `json:"name"`
	AvailableQuantity int32           `json:"available_quantity"`
	RequestedQuantity int32           `json:"requested_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	DiscountFraction  decimal.Decimal `json:"discount_fraction"`
	IsAvailable       bool            `json:"is_available"`
}

// AvailabilityResult partitions the queried items into available and
// unavailable sets. The union of both must equal the query's item set.
type AvailabilityResult struct {
	Available   []AvailabilityItem `json:"available_items"`
	Unavailable []AvailabilityItem `json:"unavailable_items"`
}

type ReservationRequest struct {
	CorrelationID string      `json:"correlation_id"`
	Items         []OrderItem `json:"items"`
}

// ReservationOutcome is a single atomic yes/no over the whole batch.
// Partial reservations are not modeled.
type ReservationOutcome struct {
	Success       bool        `json:"success"`
	Message       string      `json:"message"`
	ReservedItems []OrderItem `json:"reserved_items"`
}
