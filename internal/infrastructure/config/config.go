package config

import (
	"context"
	"log/slog"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// LotCapacity is the total number of spots, used for the occupancy
	// figure on the owner dashboard.
	LotCapacity int64 `env:"LOT_CAPACITY, default=200"`

	Postgres PostgresConfig
	Redis    RedisConfig
	Gate     GateConfig
}

type PostgresConfig struct {
	URI string `env:"DATABASE_URI, default=postgres://localhost:5432/parking?sslmode=disable"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type GateConfig struct {
	// Workers is the size of the gate-event worker pool.
	Workers int `env:"GATE_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger *slog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		logger.Error("Failed to load configuration", "error", err)
		panic(err)
	}
	return &cfg
}
