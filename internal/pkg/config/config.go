package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

type Config struct {
	Port            string        `env:"PORT,             default=8081"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=15s"`

	// JWTSecret is the base64-encoded HS512 key (at least 64 decoded bytes).
	JWTSecret string `env:"JWT_SECRET"`

	Upstream   UpstreamConfig
	Principals PrincipalConfig
	Login      LoginConfig
	Mongo      MongoConfig
	Redis      RedisConfig
}

type UpstreamConfig struct {
	BaseURL string        `env:"UPSTREAM_BASE_URL, default=http://localhost:8080/api/v1"`
	Timeout time.Duration `env:"UPSTREAM_TIMEOUT,  default=10s"`
}

// PrincipalConfig selects the principal store and the principal it is
// seeded with.
type PrincipalConfig struct {
	Store    string `env:"PRINCIPAL_STORE, default=memory"`
	Username string `env:"BFF_USERNAME,    default=usuario_web"`
	Password string `env:"BFF_PASSWORD,    default=1234"`
	Role     string `env:"BFF_ROLE,        default=CLIENTE_WEB"`
}

type LoginConfig struct {
	MaxAttempts   int           `env:"LOGIN_MAX_ATTEMPTS,   default=5"`
	LockoutWindow time.Duration `env:"LOGIN_LOCKOUT_WINDOW, default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=finance_bff"`
}

// RedisConfig leaves login throttling disabled when Addr is empty.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Principals.Store {
	case StoreMemory:
	case StoreMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required when PRINCIPAL_STORE=%s", StoreMongo)
		}
	default:
		return fmt.Errorf("PRINCIPAL_STORE must be %q or %q, got %q", StoreMemory, StoreMongo, c.Principals.Store)
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL must not be empty")
	}
	return nil
}
