package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"orders/api"
	"orders/config"
	"orders/db"
	"orders/message"
	"orders/service"
	observability "orders/trace"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.JaegerEndpoint != "" {
		tp := observability.ConfigureTraceProvider(cfg.JaegerEndpoint)
		defer func() {
			_ = tp.Shutdown(context.Background())
		}()
	}

	conn, err := db.NewDBConn(cfg.PostgresURL)
	if err != nil {
		panic(err)
	}
	defer conn.Close()
	conn.MigrateSchema()

	redisClient := message.NewRedisClient(cfg.RedisAddr)
	defer redisClient.Close()

	inventoryService := api.NewInventoryServiceClient(cfg.InventoryAddr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err = service.New(
		cfg.Port,
		redisClient,
		inventoryService,
		conn,
	).Run(ctx)
	if err != nil {
		log.FromContext(ctx).WithError(err).Error("Service stopped with error")
		os.Exit(1)
	}
}
