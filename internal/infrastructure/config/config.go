package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,       default=8080"`
	Env      string `env:"ENV,        default=development"`
	LogLevel string `env:"LOG_LEVEL,  default=info"`

	// JWTSecret signs and verifies bearer tokens. There is no default: a
	// missing secret is a startup error, never a guessable fallback.
	JWTSecret string `env:"JWT_SECRET"`
	// TokenTTL is the bearer token lifetime.
	TokenTTL time.Duration `env:"TOKEN_TTL,   default=24h"`
	// BcryptCost is the password hashing work factor.
	BcryptCost int `env:"BCRYPT_COST, default=12"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=publishing"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs in development mode.
// Development mode returns real error messages on 500 responses.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
