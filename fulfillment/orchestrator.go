package fulfillment

import (
	"context"
	"errors"
	"time"

	"orders/api"
	"orders/db"
	"orders/entities"
	"orders/pricing"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, query entities.AvailabilityQuery) (entities.AvailabilityResult, error)
}

type StockReserver interface {
	ReserveStock(ctx context.Context, request entities.ReservationRequest) (entities.ReservationOutcome, error)
	ReleaseReservation(ctx context.Context, request entities.ReservationRequest) error
}

type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (entities.User, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

// Orchestrator owns the whole in-flight OrderRequest -> OrderPlaced
// transformation: validate, resolve identity, bulk-check availability,
// reserve, price, publish. Each order runs the steps strictly in sequence on
// the caller's goroutine; concurrency across orders is unbounded and shares
// no mutable state.
type Orchestrator struct {
	availability AvailabilityChecker
	reservations StockReserver
	users        UserRepository
	publisher    EventPublisher
	pricing      pricing.Engine
}

func NewOrchestrator(
	availability AvailabilityChecker,
	reservations StockReserver,
	users UserRepository,
	publisher EventPublisher,
	pricingEngine pricing.Engine,
) Orchestrator {
	if availability == nil {
		panic("missing availability checker")
	}
	if reservations == nil {
		panic("missing stock reserver")
	}
	if users == nil {
		panic("missing user repository")
	}
	if publisher == nil {
		panic("missing event publisher")
	}
	return Orchestrator{
		availability: availability,
		reservations: reservations,
		users:        users,
		publisher:    publisher,
		pricing:      pricingEngine,
	}
}

// ProcessOrder returns the generated order id as the caller's receipt; the
// caller does not wait for downstream persistence. Every rejection before the
// publish step leaves zero durable state.
func (o Orchestrator) ProcessOrder(ctx context.Context, username string, request entities.OrderRequest) (uuid.UUID, error) {
	if err := validateRequest(username, request); err != nil {
		return uuid.Nil, err
	}

	user, err := o.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return uuid.Nil, IdentityNotFoundError{Username: username}
		}
		return uuid.Nil, OrchestrationError{Step: "resolve identity", Err: err}
	}

	// generated once, idempotency key for the entire pipeline
	orderID := uuid.New()

	logger := log.FromContext(ctx).WithFields(logrus.Fields{
		"order_id": orderID,
		"username": username,
	})

	queryItems := make([]entities.AvailabilityQueryItem, 0, len(request.Items))
	for _, item := range request.Items {
		queryItems = append(queryItems, entities.AvailabilityQueryItem{
			ProductID:         item.ProductID,
			RequestedQuantity: item.Quantity,
		})
	}
	query := entities.AvailabilityQuery{
		CorrelationID: orderID.String(),
		Items:         queryItems,
	}

	result, err := o.availability.CheckAvailability(ctx, query)
	if err != nil {
		return uuid.Nil, stepError("check availability", orderID, err)
	}
	if err := verifyPartition(query, result); err != nil {
		return uuid.Nil, OrchestrationError{OrderID: orderID, Step: "check availability", Err: err}
	}
	if len(result.Unavailable) > 0 {
		unavailable := make([]UnavailableProduct, 0, len(result.Unavailable))
		for _, item := range result.Unavailable {
			unavailable = append(unavailable, UnavailableProduct{
				ProductID: item.ProductID,
				Name:      item.Name,
				Requested: item.RequestedQuantity,
				Available: item.AvailableQuantity,
			})
		}
		logger.WithField("unavailable_count", len(unavailable)).Info("Order rejected, products unavailable")
		return uuid.Nil, ProductsUnavailableError{Products: unavailable}
	}

	reservation := entities.ReservationRequest{
		CorrelationID: orderID.String(),
		Items:         request.Items,
	}
	outcome, err := o.reservations.ReserveStock(ctx, reservation)
	if err != nil {
		return uuid.Nil, stepError("reserve stock", orderID, err)
	}
	if !outcome.Success {
		logger.WithField("reason", outcome.Message).Info("Order rejected, reservation refused")
		return uuid.Nil, ReservationFailedError{Message: outcome.Message}
	}

	lines, total := o.pricing.PriceItems(ctx, result.Available)

	event := entities.OrderPlaced{
		Header:     entities.NewEventHeaderWithIdempotencyKey(orderID.String()),
		OrderID:    orderID,
		UserID:     user.UserID,
		Username:   user.Username,
		TotalPrice: total,
		OrderDate:  time.Now().UTC().Format(time.RFC3339),
		Items:      lines,
	}
	if err := o.publisher.Publish(ctx, event); err != nil {
		// the stock is held but no order will be recorded: release it so the
		// failure doesn't leak the reservation. Best effort, the request
		// fails either way.
		if releaseErr := o.reservations.ReleaseReservation(ctx, reservation); releaseErr != nil {
			logger.WithError(releaseErr).Error("Could not release reservation after publish failure")
		} else {
			logger.Warn("Publish failed, reservation released")
		}
		return uuid.Nil, OrchestrationError{OrderID: orderID, Step: "publish", Err: err}
	}

	logger.WithField("total_price", total).Info("Order accepted")

	return orderID, nil
}

func validateRequest(username string, request entities.OrderRequest) error {
	if username == "" {
		return InvalidRequestError{Reason: "username is required"}
	}
	if len(request.Items) == 0 {
		return InvalidRequestError{Reason: "order has no items"}
	}
	for _, item := range request.Items {
		if item.ProductID <= 0 {
			return InvalidRequestError{Reason: "product id must be positive"}
		}
		if item.Quantity < 1 {
			return InvalidRequestError{Reason: "quantity must be at least 1"}
		}
	}
	return nil
}

// verifyPartition checks the availability response against the query: every
// queried product must come back exactly once, either available or not.
func verifyPartition(query entities.AvailabilityQuery, result entities.AvailabilityResult) error {
	queried := make(map[int64]struct{}, len(query.Items))
	for _, item := range query.Items {
		queried[item.ProductID] = struct{}{}
	}

	seen := make(map[int64]struct{}, len(queried))
	for _, items := range [][]entities.AvailabilityItem{result.Available, result.Unavailable} {
		for _, item := range items {
			if _, ok := queried[item.ProductID]; !ok {
				return errors.New("availability response contains unrequested product")
			}
			if _, ok := seen[item.ProductID]; ok {
				return errors.New("availability response duplicates a product")
			}
			seen[item.ProductID] = struct{}{}
		}
	}
	if len(seen) != len(queried) {
		return errors.New("availability response dropped a requested product")
	}
	return nil
}

// stepError passes RemoteUnavailableError through untouched (it is a
// business-visible outcome) and wraps anything else.
func stepError(step string, orderID uuid.UUID, err error) error {
	var remoteErr *api.RemoteUnavailableError
	if errors.As(err, &remoteErr) {
		return err
	}
	return OrchestrationError{OrderID: orderID, Step: step, Err: err}
}
