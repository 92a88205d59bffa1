package http

import (
	"net/http"

	libHttp "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewHttpRouter(
	orders OrderProcessor,
	orderRepo OrderRepository,
	metricsRegistry *prometheus.Registry,
) *echo.Echo {
	e := libHttp.NewEcho()
	e.HTTPErrorHandler = HTTPErrorHandler

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{})))

	handler := Handler{
		orders:    orders,
		orderRepo: orderRepo,
	}

	e.POST("/orders", handler.PostOrders)
	e.GET("/orders/:order_id", handler.GetOrderByID)

	return e
}
