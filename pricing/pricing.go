package pricing

import (
	"context"
	"orders/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var one = decimal.NewFromInt(1)

// Engine computes line and order totals with exact decimal arithmetic.
// Malformed pricing data from upstream (out-of-range discounts, non-positive
// quantities) is normalized and logged instead of failing the order.
type Engine struct{}

func NewEngine() Engine {
	return Engine{}
}

func (e Engine) LineTotal(ctx context.Context, unitPrice, discountFraction decimal.Decimal, quantity int32) decimal.Decimal {
	discountFraction = clampDiscount(ctx, discountFraction)
	quantity = normalizeQuantity(ctx, quantity)

	return unitPrice.
		Mul(decimal.NewFromInt32(quantity)).
		Mul(one.Sub(discountFraction))
}

// PriceItems prices every available line and returns the lines together with
// the order total. Only the final total is rounded, to the currency's minor
// unit, half up; intermediate values stay exact.
func (e Engine) PriceItems(ctx context.Context, items []entities.AvailabilityItem) ([]entities.OrderLine, decimal.Decimal) {
	lines := make([]entities.OrderLine, 0, len(items))
	total := decimal.Zero

	for _, item := range items {
		discount := clampDiscount(ctx, item.DiscountFraction)
		quantity := normalizeQuantity(ctx, item.RequestedQuantity)

		lineTotal := item.UnitPrice.
			Mul(decimal.NewFromInt32(quantity)).
			Mul(one.Sub(discount))

		lines = append(lines, entities.OrderLine{
			ProductID:        item.ProductID,
			Quantity:         quantity,
			UnitPrice:        item.UnitPrice,
			DiscountFraction: discount,
			LineTotal:        lineTotal,
		})
		total = total.Add(lineTotal)
	}

	return lines, total.Round(2)
}

func clampDiscount(ctx context.Context, discount decimal.Decimal) decimal.Decimal {
	if discount.LessThan(decimal.Zero) {
		log.FromContext(ctx).WithFields(logrus.Fields{
			"discount": discount.String(),
		}).Warn("Discount below zero, clamping to 0")
		return decimal.Zero
	}
	if discount.GreaterThan(one) {
		log.FromContext(ctx).WithFields(logrus.Fields{
			"discount": discount.String(),
		}).Warn("Discount above one, clamping to 1")
		return one
	}
	return discount
}

func normalizeQuantity(ctx context.Context, quantity int32) int32 {
	if quantity <= 0 {
		log.FromContext(ctx).WithFields(logrus.Fields{
			"quantity": quantity,
		}).Warn("Non-positive quantity, substituting 1")
		return 1
	}
	return quantity
}
