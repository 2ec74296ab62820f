package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration. Empty RedisURL and RedisHost disable rate limiting.
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	JWTSecret   string
	CORSOrigins []string

	// Per-user write limit within RateLimitWindow
	RateLimitWrites int
	RateLimitWindow time.Duration

	// Media storage. With S3BucketName set images go to S3, otherwise below MediaRoot.
	MediaRoot    string
	S3BucketName string
	AWSRegion    string
	S3Endpoint   string
	MediaBaseURL string

	LogLevel string
}

// LoadConfig creates a new Config instance with values from environment
// variables, falling back to secret files and then to defaults.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{Env: env}

	if err := load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func load(cfg *Config) error {
	cfg.ServerHost = getenv("SERVER_HOST", "0.0.0.0")
	cfg.ServerPort = getenv("SERVER_PORT", "8080")

	defaultDriver := "postgres"
	if cfg.Env == Development || cfg.Env == Test {
		defaultDriver = "sqlite"
	}
	cfg.DBDriver = strings.ToLower(getenv("DB_DRIVER", defaultDriver))
	cfg.DBHost = getenv("DB_HOST", "localhost")
	cfg.DBPort = getenv("DB_PORT", "5432")
	cfg.DBUser = getenv("DB_USER", "postgres")
	cfg.DBPassword = secret("DB_PASSWORD", "db_password")
	cfg.DBName = getenv("DB_NAME", "foodgram")
	cfg.DBSSLMode = getenv("DB_SSL_MODE", "disable")
	cfg.SQLitePath = getenv("SQLITE_PATH", "foodgram.db")

	cfg.RedisURL = secret("REDIS_URL", "redis_url")
	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = getenv("REDIS_PORT", "6379")
	cfg.RedisPassword = secret("REDIS_PASSWORD", "redis_password")
	redisDB, err := getint("REDIS_DB", 0)
	if err != nil {
		return err
	}
	cfg.RedisDB = redisDB

	cfg.JWTSecret = secret("JWT_SECRET", "jwt_secret")
	if cfg.JWTSecret == "" && cfg.Env != Production {
		cfg.JWTSecret = "dev-secret-change-me"
	}
	cfg.CORSOrigins = splitList(getenv("CORS_ORIGINS", "http://localhost:3000"))

	if cfg.RateLimitWrites, err = getint("RATE_LIMIT_WRITES", 30); err != nil {
		return err
	}
	window, err := time.ParseDuration(getenv("RATE_LIMIT_WINDOW", "1m"))
	if err != nil {
		return fmt.Errorf("RATE_LIMIT_WINDOW: %w", err)
	}
	cfg.RateLimitWindow = window

	cfg.MediaRoot = getenv("MEDIA_ROOT", "./media")
	cfg.S3BucketName = os.Getenv("S3_BUCKET_NAME")
	cfg.AWSRegion = getenv("AWS_REGION", "us-east-1")
	cfg.S3Endpoint = os.Getenv("S3_ENDPOINT")
	cfg.MediaBaseURL = os.Getenv("MEDIA_BASE_URL")

	cfg.LogLevel = getenv("LOG_LEVEL", "info")
	return nil
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// RedisEnabled reports whether a redis endpoint is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

// secret prefers the environment variable and falls back to the secret file.
func secret(envKey, secretName string) string {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		return v
	}
	return readSecret(secretName)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
