// Package config loads station client settings from the environment.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Session store backends.
const (
	StoreBolt   = "bolt"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Env        string `env:"ENV,         default=development"`
	LogLevel   string `env:"LOG_LEVEL,   default=info"`
	StationID  string `env:"STATION_ID,  default=station-01"`
	ListenAddr string `env:"LISTEN_ADDR, default=127.0.0.1:8787"`

	Session SessionConfig
	AuthAPI AuthAPIConfig
	Store   StoreConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	AuthSim AuthSimConfig
}

type SessionConfig struct {
	TTL             time.Duration `env:"SESSION_TTL,              default=720h"`
	VerifyTimeout   time.Duration `env:"SESSION_VERIFY_TIMEOUT,   default=10s"`
	RefreshInterval time.Duration `env:"SESSION_REFRESH_INTERVAL, default=15m"`
}

type AuthAPIConfig struct {
	BaseURL string        `env:"AUTH_API_URL,     default=http://localhost:8090/api"`
	Timeout time.Duration `env:"AUTH_API_TIMEOUT, default=10s"`
}

type StoreConfig struct {
	Backend string `env:"SESSION_STORE,      default=bolt"`
	Path    string `env:"SESSION_STORE_PATH, default=./data/session.db"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=station_client"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// AuthSimConfig configures the offline stand-in for the remote auth service.
type AuthSimConfig struct {
	Addr       string        `env:"AUTHSIM_ADDR,        default=:8090"`
	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"AUTHSIM_TOKEN_TTL,   default=720h"`
	StaffStore string        `env:"AUTHSIM_STAFF_STORE, default=memory"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through l, which lets tests feed a map.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the station cannot run with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreBolt, StoreRedis, StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("config: unknown SESSION_STORE %q", c.Store.Backend)
	}
	if c.Store.Backend == StoreBolt && c.Store.Path == "" {
		return fmt.Errorf("config: SESSION_STORE_PATH is required for the bolt store")
	}
	switch c.AuthSim.StaffStore {
	case StoreMemory, StoreMongo:
	default:
		return fmt.Errorf("config: unknown AUTHSIM_STAFF_STORE %q", c.AuthSim.StaffStore)
	}
	if c.Session.TTL <= 0 || c.Session.VerifyTimeout <= 0 || c.Session.RefreshInterval <= 0 {
		return fmt.Errorf("config: session durations must be positive")
	}
	if c.AuthAPI.BaseURL == "" {
		return fmt.Errorf("config: AUTH_API_URL is required")
	}
	return nil
}

// IsDevelopment reports whether human-friendly defaults (pretty logs) apply.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
