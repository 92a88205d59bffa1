package message

import (
	"orders/message/event"
	"orders/message/outbox"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
)

func NewWatermillRouter(
	pgSubscriber message.Subscriber,
	publisher message.Publisher,
	eventProcessorConfig cqrs.EventProcessorConfig,
	eventHandler event.Handler,
	metricsRegistry *prometheus.Registry,
	watermillLogger watermill.LoggerAdapter,
) *message.Router {
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		panic(err)
	}

	useMiddlewares(router, watermillLogger)

	metricsBuilder := metrics.NewPrometheusMetricsBuilder(metricsRegistry, "orders", "pubsub")
	metricsBuilder.AddPrometheusRouterMetrics(router)

	_, err = outbox.NewForwarder(pgSubscriber, publisher, watermillLogger, router)
	if err != nil {
		panic(err)
	}

	eventProcessor, err := cqrs.NewEventProcessorWithConfig(router, eventProcessorConfig)
	if err != nil {
		panic(err)
	}

	err = eventProcessor.AddHandlers(
		cqrs.NewEventHandler(
			"PersistOrder",
			eventHandler.PersistOrder,
		),
		cqrs.NewEventHandler(
			"ArchiveOrderPersisted",
			eventHandler.ArchiveOrderPersisted,
		),
	)
	if err != nil {
		panic(err)
	}

	return router
}
