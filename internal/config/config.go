package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration shared by the marketplace services.
// Each binary reads the sections it needs; unused sections keep their defaults.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Gateway  GatewayConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token issuance parameters. The signing secret is
// process-wide, loaded once at startup, and must never be logged.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	RefreshTokenTTLHours  int
	BcryptCost            int
	RevocationBackend     string
	RevocationPruneSec    int
}

// GatewayConfig defines upstream targets and the remote validation endpoint
// used by the edge gateway.
type GatewayConfig struct {
	IdentityURL        string
	JobURL             string
	JobProfileURL      string
	FileURL            string
	ValidateTimeoutSec int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "identity-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             os.Getenv("AUTH_JWT_SECRET"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			RefreshTokenTTLHours:  getEnvAsInt("AUTH_REFRESH_TOKEN_TTL_HOURS", 168),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			RevocationBackend:     getEnv("AUTH_REVOCATION_BACKEND", "redis"),
			RevocationPruneSec:    getEnvAsInt("AUTH_REVOCATION_PRUNE_SECONDS", 300),
		},
		Gateway: GatewayConfig{
			IdentityURL:        getEnv("GATEWAY_IDENTITY_URL", "http://127.0.0.1:8081"),
			JobURL:             getEnv("GATEWAY_JOB_URL", "http://127.0.0.1:8082"),
			JobProfileURL:      getEnv("GATEWAY_JOB_PROFILE_URL", "http://127.0.0.1:8083"),
			FileURL:            getEnv("GATEWAY_FILE_URL", "http://127.0.0.1:8084"),
			ValidateTimeoutSec: getEnvAsInt("GATEWAY_VALIDATE_TIMEOUT_SECONDS", 5),
		},
	}

	if err := cfg.validateAuth(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateAuth enforces signing key presence at startup, never per request.
// A development fallback keeps local runs convenient; everywhere else the
// secret is required and must have a minimum length.
func (c *Config) validateAuth() error {
	if c.Auth.JWTSecret == "" {
		if c.App.Env == "development" {
			c.Auth.JWTSecret = "dev-secret-do-not-use-in-production"
			return nil
		}
		return fmt.Errorf("AUTH_JWT_SECRET is required when APP_ENV=%s", c.App.Env)
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("AUTH_JWT_SECRET too short: need at least 16 bytes")
	}
	switch c.Auth.RevocationBackend {
	case "redis", "postgres":
	default:
		return fmt.Errorf("AUTH_REVOCATION_BACKEND must be redis or postgres, got %q", c.Auth.RevocationBackend)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTTL returns the access token lifetime.
func (a AuthConfig) AccessTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// RefreshTTL returns the refresh token lifetime.
func (a AuthConfig) RefreshTTL() time.Duration {
	return time.Duration(a.RefreshTokenTTLHours) * time.Hour
}

// PruneInterval returns how often the durable revocation store is pruned.
func (a AuthConfig) PruneInterval() time.Duration {
	if a.RevocationPruneSec <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(a.RevocationPruneSec) * time.Second
}

// ValidateTimeout returns the timeout for the gateway's remote validation call.
func (g GatewayConfig) ValidateTimeout() time.Duration {
	if g.ValidateTimeoutSec <= 0 {
		return 5 * time.Second
	}
	return time.Duration(g.ValidateTimeoutSec) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
