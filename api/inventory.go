package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"orders/entities"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

// InventoryServiceClient talks to the inventory authority over HTTP/JSON.
// Transport-level failures (connection errors, 5xx) are retried with a fixed
// backoff; a response that merely reports items as unavailable is a business
// outcome carried in the result, not an error.
type InventoryServiceClient struct {
	httpClient  *http.Client
	baseURL     string
	retryPolicy RetryPolicy
	sleep       SleepFunc
}

func NewInventoryServiceClient(baseURL string) *InventoryServiceClient {
	if baseURL == "" {
		panic("inventory baseURL is empty")
	}
	return &InventoryServiceClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:     baseURL,
		retryPolicy: DefaultRetryPolicy,
		sleep:       sleepWithContext,
	}
}

func (c *InventoryServiceClient) CheckAvailability(ctx context.Context, query entities.AvailabilityQuery) (entities.AvailabilityResult, error) {
	result, err := withRetry(ctx, c.retryPolicy, c.sleep, func(ctx context.Context) (entities.AvailabilityResult, error) {
		var result entities.AvailabilityResult
		err := c.postJSON(ctx, "/availability/check", query, &result)
		return result, err
	})
	if err != nil {
		if isTransient(err) {
			return entities.AvailabilityResult{}, &RemoteUnavailableError{
				Service:  "availability",
				Attempts: c.retryPolicy.MaxAttempts,
				Err:      err,
			}
		}
		return entities.AvailabilityResult{}, fmt.Errorf("availability check failed: %w", err)
	}
	return result, nil
}

func (c *InventoryServiceClient) ReserveStock(ctx context.Context, request entities.ReservationRequest) (entities.ReservationOutcome, error) {
	outcome, err := withRetry(ctx, c.retryPolicy, c.sleep, func(ctx context.Context) (entities.ReservationOutcome, error) {
		var outcome entities.ReservationOutcome
		err := c.postJSON(ctx, "/reservations", request, &outcome)
		return outcome, err
	})
	if err != nil {
		if isTransient(err) {
			return entities.ReservationOutcome{}, &RemoteUnavailableError{
				Service:  "reservation",
				Attempts: c.retryPolicy.MaxAttempts,
				Err:      err,
			}
		}
		return entities.ReservationOutcome{}, fmt.Errorf("reservation failed: %w", err)
	}
	return outcome, nil
}

// ReleaseReservation is the compensating call issued when a reservation was
// made but the order event could not be published. Best effort, single
// attempt: the caller only logs a failure here.
func (c *InventoryServiceClient) ReleaseReservation(ctx context.Context, request entities.ReservationRequest) error {
	if err := c.postJSON(ctx, "/reservations/release", request, nil); err != nil {
		return fmt.Errorf("could not release reservation: %w", err)
	}
	return nil
}

func (c *InventoryServiceClient) postJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("could not marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("could not build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Correlation-ID", log.CorrelationIDFromContext(ctx))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return markTransient(fmt.Errorf("request to %s failed: %w", path, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return markTransient(fmt.Errorf("unexpected status code for POST %s: %d", path, resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code for POST %s: %d", path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not decode response from %s: %w", path, err)
	}
	return nil
}
