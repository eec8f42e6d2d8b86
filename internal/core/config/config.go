package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"3000"`
	Env         string `env:"ENV" envDefault:"development"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	JWTSecret string        `env:"JWT_SECRET,required"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"expenses-api"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	HashIterations int `env:"HASH_ITERATIONS" envDefault:"512"`
	HashKeyBits    int `env:"HASH_KEY_LENGTH" envDefault:"128"`

	DefaultAccountType       string `env:"ACCOUNT_DEFAULT_TYPE" envDefault:"MONEY"`
	DefaultCurrency          string `env:"ACCOUNT_DEFAULT_CURRENCY" envDefault:"usd"`
	DefaultTransactionStatus string `env:"TRANSACTION_DEFAULT_STATUS" envDefault:"PENDING"`
	DefaultCreationWay       string `env:"TRANSACTION_DEFAULT_CREATION_WAY" envDefault:"MANUAL"`

	WorkerPollInterval time.Duration `env:"WORKER_POLL_INTERVAL" envDefault:"1s"`
	WorkerMaxAttempts  int           `env:"WORKER_MAX_ATTEMPTS" envDefault:"5"`
}

// Load reads the optional .env file, then parses configuration from the
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// Not a crash: production usually has no .env file.
		slog.Warn("No .env file found, relying on system env variables")
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
