package app

import (
	"os"
	"strconv"
	"time"

	"github.com/talentgate/authcore/pkg/jwtx"
)

type Config struct {
	Issuer string // Issuer claim for tokens

	SigningAlg    string // JWT signing algorithm (HS256, EdDSA) (default: EdDSA)
	SigningSecret string // Shared secret, required for HS256
	SigningKeyID  string // Key id stamped into token headers

	AccessTokenTTL  time.Duration // Access token lifetime (default: 15m)
	RefreshTokenTTL time.Duration // Refresh token / family lifetime (default: 168h)
	StoreTimeout    time.Duration // Per-call store timeout (default: 3s)

	StoreBackend string // Token store backend (sqlite, redis) (default: sqlite)
	DatabaseFile string // SQLite database file (default: ./authcore.db)
	RedisAddr    string // Redis address, required for the redis backend

	IdentityProviderURL string // Remote identity service base URL; empty enables the built-in dev provider

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	RetentionGrace       time.Duration // How long expired families linger before deletion (default: 24h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer: getEnvOrDefault("AUTH_ISSUER", "talentgate-auth"),

		SigningAlg:    getEnvOrDefault("AUTH_SIGNING_ALG", jwtx.AlgorithmEdDSA),
		SigningSecret: os.Getenv("AUTH_SIGNING_SECRET"),
		SigningKeyID:  getEnvOrDefault("AUTH_SIGNING_KEY_ID", "authcore-1"),

		AccessTokenTTL:  getEnvDurationOrDefault("AUTH_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL: getEnvDurationOrDefault("AUTH_REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),
		StoreTimeout:    getEnvDurationOrDefault("AUTH_STORE_TIMEOUT", 3*time.Second),

		StoreBackend: getEnvOrDefault("AUTH_STORE_BACKEND", "sqlite"),
		DatabaseFile: getEnvOrDefault("AUTH_DATABASE_FILE", "authcore.db"),
		RedisAddr:    getEnvOrDefault("AUTH_REDIS_ADDR", "localhost:6379"),

		IdentityProviderURL: os.Getenv("AUTH_IDENTITY_PROVIDER_URL"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),
		RetentionGrace:       getEnvDurationOrDefault("AUTH_RETENTION_GRACE", 24*time.Hour),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
