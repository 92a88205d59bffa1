package fulfillment

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Business outcomes are modeled as typed errors instead of panics or opaque
// strings: callers branch on them with errors.As and map them to transport
// responses. Only OrchestrationError wraps truly unexpected failures.

type InvalidRequestError struct {
	Reason string
}

func (e InvalidRequestError) Error() string {
	return "invalid order request: " + e.Reason
}

type IdentityNotFoundError struct {
	Username string
}

func (e IdentityNotFoundError) Error() string {
	return fmt.Sprintf("user %s not found", e.Username)
}

type UnavailableProduct struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Requested int32  `json:"requested"`
	Available int32  `json:"available"`
}

// ProductsUnavailableError aborts the whole order: a single unavailable line
// means no reservation is made and no event is published.
type ProductsUnavailableError struct {
	Products []UnavailableProduct
}

func (e ProductsUnavailableError) Error() string {
	descriptions := make([]string, 0, len(e.Products))
	for _, p := range e.Products {
		descriptions = append(descriptions, fmt.Sprintf(
			"product %d (%s): requested %d, available %d",
			p.ProductID, p.Name, p.Requested, p.Available,
		))
	}
	return "products unavailable: " + strings.Join(descriptions, "; ")
}

type ReservationFailedError struct {
	Message string
}

func (e ReservationFailedError) Error() string {
	return "reservation failed: " + e.Message
}

type OrchestrationError struct {
	OrderID uuid.UUID
	Step    string
	Err     error
}

func (e OrchestrationError) Error() string {
	return fmt.Sprintf("order %s failed at %s: %v", e.OrderID, e.Step, e.Err)
}

func (e OrchestrationError) Unwrap() error {
	return e.Err
}
