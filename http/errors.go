package http

import (
	"errors"
	"net/http"

	"orders/api"
	"orders/db"
	"orders/fulfillment"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Status              string                           `json:"status"`
	Message             string                           `json:"message"`
	UnavailableProducts []fulfillment.UnavailableProduct `json:"unavailable_products,omitempty"`
}

// HTTPErrorHandler maps the typed pipeline errors onto response codes, so
// handlers just return errors and never build error bodies themselves.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := errorToResponse(err)

	if status >= http.StatusInternalServerError {
		log.FromContext(c.Request().Context()).WithError(err).Error("Request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		log.FromContext(c.Request().Context()).WithError(err).Error("Could not write error response")
	}
}

func errorToResponse(err error) (int, errorResponse) {
	var invalidErr fulfillment.InvalidRequestError
	if errors.As(err, &invalidErr) {
		return http.StatusBadRequest, errorResponse{
			Status:  "validation",
			Message: invalidErr.Reason,
		}
	}

	var identityErr fulfillment.IdentityNotFoundError
	if errors.As(err, &identityErr) {
		return http.StatusNotFound, errorResponse{
			Status:  "not-found",
			Message: identityErr.Error(),
		}
	}

	if errors.Is(err, db.ErrOrderNotFound) {
		return http.StatusNotFound, errorResponse{
			Status:  "not-found",
			Message: "order not found",
		}
	}

	var unavailableErr fulfillment.ProductsUnavailableError
	if errors.As(err, &unavailableErr) {
		return http.StatusConflict, errorResponse{
			Status:              "unavailable-products",
			Message:             "some products are not available in the requested quantity",
			UnavailableProducts: unavailableErr.Products,
		}
	}

	var reservationErr fulfillment.ReservationFailedError
	if errors.As(err, &reservationErr) {
		return http.StatusUnprocessableEntity, errorResponse{
			Status:  "reservation-failure",
			Message: reservationErr.Message,
		}
	}

	var remoteErr *api.RemoteUnavailableError
	if errors.As(err, &remoteErr) {
		return http.StatusServiceUnavailable, errorResponse{
			Status:  "remote-unavailable",
			Message: remoteErr.Error(),
		}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message, ok := httpErr.Message.(string)
		if !ok {
			message = http.StatusText(httpErr.Code)
		}
		return httpErr.Code, errorResponse{
			Status:  "validation",
			Message: message,
		}
	}

	return http.StatusInternalServerError, errorResponse{
		Status:  "internal",
		Message: "internal server error",
	}
}
