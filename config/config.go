package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           string `envconfig:"PORT" default:"8080"`
	RedisAddr      string `envconfig:"REDIS_ADDR" required:"true"`
	PostgresURL    string `envconfig:"POSTGRES_URL" required:"true"`
	InventoryAddr  string `envconfig:"INVENTORY_ADDR" required:"true"`
	JaegerEndpoint string `envconfig:"JAEGER_ENDPOINT"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("could not load config from env: %w", err)
	}
	return cfg, nil
}
