package http

import (
	"net/http"

	"orders/entities"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type postOrderRequest struct {
	Username string               `json:"username"`
	Items    []entities.OrderItem `json:"items"`
}

type postOrderResponse struct {
	OrderID uuid.UUID `json:"order_id"`
}

func (h Handler) PostOrders(c echo.Context) error {
	var request postOrderRequest

	err := c.Bind(&request)
	if err != nil {
		return err
	}

	orderID, err := h.orders.ProcessOrder(c.Request().Context(), request.Username, entities.OrderRequest{
		Items: request.Items,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, postOrderResponse{OrderID: orderID})
}

func (h Handler) GetOrderByID(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "order_id must be a valid uuid")
	}

	order, err := h.orderRepo.ByID(c.Request().Context(), orderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, order)
}
