package pricing

import (
	"context"
	"orders/entities"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLineTotal(t *testing.T) {
	engine := NewEngine()
	ctx := context.Background()

	testCases := []struct {
		name      string
		unitPrice string
		discount  string
		quantity  int32
		expected  string
	}{
		{
			name:      "ten percent discount",
			unitPrice: "100.00",
			discount:  "0.10",
			quantity:  3,
			expected:  "270.00",
		},
		{
			name:      "discount above one is clamped to one",
			unitPrice: "50.00",
			discount:  "1.5",
			quantity:  2,
			expected:  "0.00",
		},
		{
			name:      "negative discount is clamped to zero",
			unitPrice: "20.00",
			discount:  "-0.5",
			quantity:  1,
			expected:  "20.00",
		},
		{
			name:      "non-positive quantity is substituted with one",
			unitPrice: "10.00",
			discount:  "0.0",
			quantity:  0,
			expected:  "10.00",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			total := engine.LineTotal(ctx, dec(tc.unitPrice), dec(tc.discount), tc.quantity)
			assert.True(
				t,
				dec(tc.expected).Equal(total),
				"expected %s, got %s", tc.expected, total,
			)
		})
	}
}

func TestPriceItems(t *testing.T) {
	engine := NewEngine()
	ctx := context.Background()

	lines, total := engine.PriceItems(ctx, []entities.AvailabilityItem{
		{
			ProductID:         1,
			Name:              "keyboard",
			RequestedQuantity: 2,
			AvailableQuantity: 10,
			UnitPrice:         dec("100.00"),
			DiscountFraction:  dec("0.1"),
			IsAvailable:       true,
		},
		{
			ProductID:         2,
			Name:              "mouse",
			RequestedQuantity: 1,
			AvailableQuantity: 5,
			UnitPrice:         dec("19.99"),
			DiscountFraction:  dec("0"),
			IsAvailable:       true,
		},
	})

	assert.Len(t, lines, 2)
	assert.True(t, dec("180.00").Equal(lines[0].LineTotal), "got %s", lines[0].LineTotal)
	assert.True(t, dec("19.99").Equal(lines[1].LineTotal), "got %s", lines[1].LineTotal)
	assert.True(t, dec("199.99").Equal(total), "got %s", total)
}

func TestPriceItemsClampsStoredDiscount(t *testing.T) {
	engine := NewEngine()

	lines, total := engine.PriceItems(context.Background(), []entities.AvailabilityItem{
		{
			ProductID:         7,
			RequestedQuantity: 2,
			UnitPrice:         dec("50.00"),
			DiscountFraction:  dec("1.5"),
			IsAvailable:       true,
		},
	})

	assert.True(t, dec("1").Equal(lines[0].DiscountFraction), "got %s", lines[0].DiscountFraction)
	assert.True(t, decimal.Zero.Equal(total), "got %s", total)
}

func TestPriceItemsRoundsOnlyTheTotal(t *testing.T) {
	engine := NewEngine()

	// each line is 10.125, the sum 20.25 needs no rounding but each line
	// would have lost a half-cent if rounded individually
	lines, total := engine.PriceItems(context.Background(), []entities.AvailabilityItem{
		{ProductID: 1, RequestedQuantity: 1, UnitPrice: dec("13.50"), DiscountFraction: dec("0.25"), IsAvailable: true},
		{ProductID: 2, RequestedQuantity: 1, UnitPrice: dec("13.50"), DiscountFraction: dec("0.25"), IsAvailable: true},
	})

	assert.True(t, dec("10.125").Equal(lines[0].LineTotal), "got %s", lines[0].LineTotal)
	assert.True(t, dec("20.25").Equal(total), "got %s", total)
}

func TestPriceItemsEmpty(t *testing.T) {
	engine := NewEngine()

	lines, total := engine.PriceItems(context.Background(), nil)

	assert.Empty(t, lines)
	assert.True(t, decimal.Zero.Equal(total))
}
