package api

import (
	"context"
	"orders/entities"
	"sync"

	"github.com/shopspring/decimal"
)

type MockProduct struct {
	Name             string
	Available        int32
	UnitPrice        decimal.Decimal
	DiscountFraction decimal.Decimal
}

// InventoryMock is the in-memory stand-in for the inventory authority used
// by unit and component tests. It records every call it receives.
type InventoryMock struct {
	lock sync.Mutex

	Products map[int64]MockProduct

	// forced failures/outcomes, nil means "behave normally"
	CheckErr      error
	ReserveErr    error
	ReleaseErr    error
	ForcedOutcome *entities.ReservationOutcome

	AvailabilityQueries []entities.AvailabilityQuery
	Reservations        []entities.ReservationRequest
	Releases            []entities.ReservationRequest
}

func (m *InventoryMock) CheckAvailability(ctx context.Context, query entities.AvailabilityQuery) (entities.AvailabilityResult, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.AvailabilityQueries = append(m.AvailabilityQueries, query)

	if m.CheckErr != nil {
		return entities.AvailabilityResult{}, m.CheckErr
	}

	var result entities.AvailabilityResult
	for _, item := range query.Items {
		product := m.Products[item.ProductID]
		available := product.Available >= item.RequestedQuantity && item.RequestedQuantity > 0

		entry := entities.AvailabilityItem{
			ProductID:         item.ProductID,
			Name:              product.Name,
			AvailableQuantity: product.Available,
			RequestedQuantity: item.RequestedQuantity,
			UnitPrice:         product.UnitPrice,
			DiscountFraction:  product.DiscountFraction,
			IsAvailable:       available,
		}
		if available {
			result.Available = append(result.Available, entry)
		} else {
			result.Unavailable = append(result.Unavailable, entry)
		}
	}
	return result, nil
}

func (m *InventoryMock) ReserveStock(ctx context.Context, request entities.ReservationRequest) (entities.ReservationOutcome, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.Reservations = append(m.Reservations, request)

	if m.ReserveErr != nil {
		return entities.ReservationOutcome{}, m.ReserveErr
	}
	if m.ForcedOutcome != nil {
		return *m.ForcedOutcome, nil
	}
	return entities.ReservationOutcome{
		Success:       true,
		Message:       "reserved",
		ReservedItems: request.Items,
	}, nil
}

func (m *InventoryMock) ReleaseReservation(ctx context.Context, request entities.ReservationRequest) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.Releases = append(m.Releases, request)

	return m.ReleaseErr
}

func (m *InventoryMock) ReservationCount() int {
	m.lock.Lock()
	defer m.lock.Unlock()

	return len(m.Reservations)
}
