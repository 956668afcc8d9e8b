package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	DB         DatabaseConfig
	Redis      RedisConfig
	MeSomb     MeSombConfig
	Checkout   CheckoutConfig
	Worker     WorkerConfig
	Moderation ModerationConfig
	S3         S3Config
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters. Sessions and pricing
// caches share one pool.
type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	PoolSize    int
	DialTimeout time.Duration
}

// MeSombConfig contains credentials for the MeSomb mobile-money aggregator.
type MeSombConfig struct {
	BaseURL       string
	AppKey        string
	AccessKey     string
	SecretKey     string
	WebhookSecret string
}

// CheckoutConfig tunes the boost purchase wizard.
type CheckoutConfig struct {
	SessionTTL  time.Duration
	DefaultDays int
	MaxDays     int
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	StatusCheckInterval time.Duration
	StatusCheckBase     time.Duration
	StatusCheckMaxAge   time.Duration
	StatusCheckAttempts int
	BoostExpiryInterval time.Duration
}

// S3Config contains AWS S3 configuration for listing image storage.
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// ModerationConfig configures AWS Rekognition image moderation.
type ModerationConfig struct {
	Enabled       bool
	Region        string
	MinConfidence float32
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
		PoolSize: getEnvInt("REDIS_POOL_SIZE", 10),
	}

	// MeSomb
	cfg.MeSomb = MeSombConfig{
		BaseURL:       getEnv("MESOMB_BASE_URL", "https://mesomb.hachther.com/api/v1.1"),
		AppKey:        getEnv("MESOMB_APP_KEY", ""),
		AccessKey:     getEnv("MESOMB_ACCESS_KEY", ""),
		SecretKey:     getEnv("MESOMB_SECRET_KEY", ""),
		WebhookSecret: getEnv("MESOMB_WEBHOOK_SECRET", ""),
	}

	// Checkout
	cfg.Checkout.DefaultDays = getEnvInt("CHECKOUT_DEFAULT_DAYS", 7)
	cfg.Checkout.MaxDays = getEnvInt("CHECKOUT_MAX_DAYS", 30)

	// Moderation
	cfg.Moderation = ModerationConfig{
		Enabled:       getEnv("MODERATION_ENABLED", "true") == "true",
		Region:        getEnv("AWS_REKOGNITION_REGION", "eu-west-1"),
		MinConfidence: float32(getEnvInt("MODERATION_MIN_CONFIDENCE", 80)),
	}

	// S3 image storage
	cfg.S3 = S3Config{
		Region:          getEnv("S3_REGION", "eu-west-1"),
		Bucket:          getEnv("S3_BUCKET", ""),
		AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
	}

	// Durations
	var err error
	if cfg.Redis.DialTimeout, err = parseDurationEnv("REDIS_DIAL_TIMEOUT", "5s"); err != nil {
		return nil, fmt.Errorf("invalid REDIS_DIAL_TIMEOUT: %w", err)
	}
	if cfg.Checkout.SessionTTL, err = parseDurationEnv("CHECKOUT_SESSION_TTL", "30m"); err != nil {
		return nil, fmt.Errorf("invalid CHECKOUT_SESSION_TTL: %w", err)
	}
	if cfg.Worker.StatusCheckInterval, err = parseDurationEnv("STATUS_CHECK_INTERVAL", "5s"); err != nil {
		return nil, fmt.Errorf("invalid STATUS_CHECK_INTERVAL: %w", err)
	}
	if cfg.Worker.StatusCheckBase, err = parseDurationEnv("STATUS_CHECK_BACKOFF_BASE", "5s"); err != nil {
		return nil, fmt.Errorf("invalid STATUS_CHECK_BACKOFF_BASE: %w", err)
	}
	if cfg.Worker.StatusCheckMaxAge, err = parseDurationEnv("STATUS_CHECK_MAX_AGE", "5m"); err != nil {
		return nil, fmt.Errorf("invalid STATUS_CHECK_MAX_AGE: %w", err)
	}
	cfg.Worker.StatusCheckAttempts = getEnvInt("STATUS_CHECK_MAX_ATTEMPTS", 12)
	if cfg.Worker.BoostExpiryInterval, err = parseDurationEnv("BOOST_EXPIRY_INTERVAL", "1m"); err != nil {
		return nil, fmt.Errorf("invalid BOOST_EXPIRY_INTERVAL: %w", err)
	}

	// Basic validation for DB parameters — keeps messages concise and helpful.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	// Validate JWT_SECRET
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
