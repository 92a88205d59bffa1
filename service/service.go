package service

import (
	"context"
	"net/http"

	"orders/db"
	"orders/fulfillment"
	ordersHttp "orders/http"
	"orders/message"
	"orders/message/event"
	"orders/message/outbox"
	"orders/pricing"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	watermillMessage "github.com/ThreeDotsLabs/watermill/message"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func init() {
	log.Init(logrus.InfoLevel)
}

// InventoryService is what the orchestrator needs from the remote inventory
// system; api.InventoryServiceClient implements it.
type InventoryService interface {
	fulfillment.AvailabilityChecker
	fulfillment.StockReserver
}

type Service struct {
	watermillRouter *watermillMessage.Router
	echoRouter      *echo.Echo
	port            string
}

func New(
	port string,
	redisClient *redis.Client,
	inventoryService InventoryService,
	conn db.DB,
) Service {
	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))

	redisPublisher := message.NewRedisPublisher(redisClient, watermillLogger)

	eventBus := event.NewBus(redisPublisher)

	orderRepo := db.NewOrderRepository(&conn)
	userRepo := db.NewUserRepository(&conn)
	eventLogRepo := db.NewEventLogRepository(&conn)

	orchestrator := fulfillment.NewOrchestrator(
		inventoryService,
		inventoryService,
		userRepo,
		eventBus,
		pricing.NewEngine(),
	)

	eventsHandler := event.NewHandler(orderRepo, eventLogRepo)
	eventProcessorConfig := event.NewProcessorConfig(redisClient, watermillLogger)

	metricsRegistry := prometheus.NewRegistry()

	pgSubscriber := outbox.SubscribeForPGMessages(conn.Conn, watermillLogger)
	watermillRouter := message.NewWatermillRouter(
		pgSubscriber,
		redisPublisher,
		eventProcessorConfig,
		eventsHandler,
		metricsRegistry,
		watermillLogger,
	)

	echoRouter := ordersHttp.NewHttpRouter(
		orchestrator,
		orderRepo,
		metricsRegistry,
	)

	return Service{
		watermillRouter,
		echoRouter,
		port,
	}
}

func (s Service) Run(
	ctx context.Context,
) error {
	errgrp, ctx := errgroup.WithContext(ctx)

	errgrp.Go(func() error {
		return s.watermillRouter.Run(ctx)
	})

	errgrp.Go(func() error {
		// we don't want to start HTTP server before Watermill router (so service won't be healthy before it's ready)
		<-s.watermillRouter.Running()

		err := s.echoRouter.Start(":" + s.port)
		if err != nil && err != http.ErrServerClosed {
			return err
		}

		return nil
	})

	errgrp.Go(func() error {
		<-ctx.Done()
		return s.echoRouter.Shutdown(context.Background())
	})

	return errgrp.Wait()
}
