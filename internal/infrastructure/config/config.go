package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	JWTSecret string `env:"JWT_SECRET"`

	// TokenTTL bounds both the signed token and the session/cookie pair.
	TokenTTL time.Duration `env:"TOKEN_TTL, default=168h"`

	// BootstrapPassword seeds the initial superadmin account on an
	// empty database.
	BootstrapPassword string `env:"BOOTSTRAP_PASSWORD, default=admin123"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,  default=accesskeep"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL, default=100"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
