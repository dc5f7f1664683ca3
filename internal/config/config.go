// Package config handles application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spicyid/spicyid/pkg/spicyid"
)

// Config holds all configuration for the application.
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Spicy    SpicyConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Env      string
	LogLevel string
}

// IsDevelopment returns true if the app is running in development mode.
func (a AppConfig) IsDevelopment() bool {
	return a.Env == "development" || a.Env == "dev"
}

// IsProduction returns true if the app is running in production mode.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production" || a.Env == "prod"
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// TrustProxy honours X-Forwarded-For and X-Real-IP for client addresses.
	TrustProxy bool
}

// Address returns the server address in host:port format.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// CacheConfig holds record cache configuration.
type CacheConfig struct {
	KeyPrefix string
	TTL       time.Duration
}

// SpicyConfig describes how record primary keys are rendered.
type SpicyConfig struct {
	Prefix    string
	Separator string
	Encoding  string
	Bits      int
	Pad       bool
	Randomize bool
}

// FieldConfig converts the settings into a spicyid.Config.
func (s SpicyConfig) FieldConfig() (spicyid.Config, error) {
	encoding, err := spicyid.ParseEncoding(s.Encoding)
	if err != nil {
		return spicyid.Config{}, err
	}
	return spicyid.Config{
		Prefix:    s.Prefix,
		Separator: s.Separator,
		Encoding:  encoding,
		Bits:      s.Bits,
		Pad:       s.Pad,
		Randomize: s.Randomize,
	}, nil
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	// App config
	cfg.App.Env = getEnvOrDefault("APP_ENV", "development")
	cfg.App.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	// Server config
	cfg.Server.Host = getEnvOrDefault("SERVER_HOST", "0.0.0.0")

	port, err := getEnvAsInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	cfg.Server.Port = port

	readTimeout, err := getEnvAsDuration("SERVER_READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_READ_TIMEOUT: %w", err)
	}
	cfg.Server.ReadTimeout = readTimeout

	writeTimeout, err := getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_WRITE_TIMEOUT: %w", err)
	}
	cfg.Server.WriteTimeout = writeTimeout

	shutdownTimeout, err := getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_SHUTDOWN_TIMEOUT: %w", err)
	}
	cfg.Server.ShutdownTimeout = shutdownTimeout

	trustProxy, err := getEnvAsBool("TRUST_PROXY", false)
	if err != nil {
		return nil, fmt.Errorf("invalid TRUST_PROXY: %w", err)
	}
	cfg.Server.TrustProxy = trustProxy

	// Database config
	dbEnabled, err := getEnvAsBool("DB_ENABLED", false)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_ENABLED: %w", err)
	}
	cfg.Database.Enabled = dbEnabled
	cfg.Database.Host = getEnvOrDefault("DB_HOST", "localhost")
	dbPort, err := getEnvAsInt("DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort
	cfg.Database.User = getEnvOrDefault("DB_USER", "spicyid")
	cfg.Database.Password = getEnvOrDefault("DB_PASSWORD", "")
	cfg.Database.DBName = getEnvOrDefault("DB_NAME", "spicyid")
	cfg.Database.SSLMode = getEnvOrDefault("DB_SSLMODE", "disable")

	maxOpenConns, err := getEnvAsInt("DB_MAX_OPEN_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_OPEN_CONNS: %w", err)
	}
	cfg.Database.MaxOpenConns = maxOpenConns

	maxIdleConns, err := getEnvAsInt("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_IDLE_CONNS: %w", err)
	}
	cfg.Database.MaxIdleConns = maxIdleConns

	connMaxLifetime, err := getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
	}
	cfg.Database.ConnMaxLifetime = connMaxLifetime

	// Redis config
	redisEnabled, err := getEnvAsBool("REDIS_ENABLED", false)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_ENABLED: %w", err)
	}
	cfg.Redis.Enabled = redisEnabled
	cfg.Redis.Host = getEnvOrDefault("REDIS_HOST", "localhost")
	redisPort, err := getEnvAsInt("REDIS_PORT", 6379)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}
	cfg.Redis.Port = redisPort
	cfg.Redis.Password = getEnvOrDefault("REDIS_PASSWORD", "")
	redisDB, err := getEnvAsInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.Redis.DB = redisDB
	redisPoolSize, err := getEnvAsInt("REDIS_POOL_SIZE", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_POOL_SIZE: %w", err)
	}
	cfg.Redis.PoolSize = redisPoolSize

	// Cache config
	cfg.Cache.KeyPrefix = getEnvOrDefault("CACHE_KEY_PREFIX", "record:")
	cacheTTL, err := getEnvAsDuration("CACHE_TTL", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.Cache.TTL = cacheTTL

	// Spicy ID config
	cfg.Spicy.Prefix = getEnvOrDefault("SPICY_PREFIX", "rec")
	cfg.Spicy.Separator = getEnvOrDefault("SPICY_SEPARATOR", spicyid.DefaultSeparator)
	cfg.Spicy.Encoding = getEnvOrDefault("SPICY_ENCODING", string(spicyid.DefaultEncoding))
	bits, err := getEnvAsInt("SPICY_BITS", spicyid.DefaultBits)
	if err != nil {
		return nil, fmt.Errorf("invalid SPICY_BITS: %w", err)
	}
	cfg.Spicy.Bits = bits
	pad, err := getEnvAsBool("SPICY_PAD", false)
	if err != nil {
		return nil, fmt.Errorf("invalid SPICY_PAD: %w", err)
	}
	cfg.Spicy.Pad = pad
	randomize, err := getEnvAsBool("SPICY_RANDOMIZE", false)
	if err != nil {
		return nil, fmt.Errorf("invalid SPICY_RANDOMIZE: %w", err)
	}
	cfg.Spicy.Randomize = randomize

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt returns the environment variable as an integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(valueStr)
}

// getEnvAsBool returns the environment variable as a boolean.
func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	return strconv.ParseBool(valueStr)
}

// getEnvAsDuration returns the environment variable as a duration.
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	return time.ParseDuration(valueStr)
}
