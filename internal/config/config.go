package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	Environment string
	Version     string
	ServiceName string
	LogLevel    string
	LogFormat   string
	LogDir      string
	APIKey      string // API key for authentication

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// Expiry policy. The window is configurable because the product has
	// shipped with both 14- and 30-day windows; the conversion rate is a
	// fixed constant (see collection package).
	ExpiryWindowDays int
	SweepInterval    time.Duration

	// Flat fee debited from the ledger per shipping request.
	ShippingFee int

	// Discord announcer for high-rarity pulls. Disabled when token empty.
	DiscordToken   string
	DiscordChannel string

	// Proxies allowed to supply X-Forwarded-For.
	TrustedProxies []string

	// Connection pool tuning.
	DBMaxConns int

	// Resilient event publisher settings. Zero values fall back to the
	// bootstrap defaults.
	EventMaxRetries     int
	EventRetryDelay     time.Duration
	EventDeadLetterPath string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment:    getEnv("ENVIRONMENT", "dev"),
		Version:        getEnv("VERSION", "dev"),
		ServiceName:    getEnv("SERVICE_NAME", "packworks"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		LogDir:         getEnv("LOG_DIR", "logs"),
		APIKey:         getEnv("API_KEY", ""),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBName:         getEnv("DB_NAME", "packworks"),
		DiscordToken:   getEnv("DISCORD_TOKEN", ""),
		DiscordChannel: getEnv("DISCORD_CHANNEL_ID", ""),
	}

	port, err := getEnvInt("PORT", DefaultPort)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	expiryDays, err := getEnvInt("EXPIRY_WINDOW_DAYS", DefaultExpiryWindowDays)
	if err != nil {
		return nil, fmt.Errorf("invalid EXPIRY_WINDOW_DAYS value: %w", err)
	}
	if expiryDays <= 0 {
		return nil, fmt.Errorf("EXPIRY_WINDOW_DAYS must be positive, got %d", expiryDays)
	}
	cfg.ExpiryWindowDays = expiryDays

	sweepMinutes, err := getEnvInt("SWEEP_INTERVAL_MINUTES", DefaultSweepIntervalMinutes)
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_INTERVAL_MINUTES value: %w", err)
	}
	if sweepMinutes <= 0 {
		return nil, fmt.Errorf("SWEEP_INTERVAL_MINUTES must be positive, got %d", sweepMinutes)
	}
	cfg.SweepInterval = time.Duration(sweepMinutes) * time.Minute

	fee, err := getEnvInt("SHIPPING_FEE", DefaultShippingFee)
	if err != nil {
		return nil, fmt.Errorf("invalid SHIPPING_FEE value: %w", err)
	}
	if fee < 0 {
		return nil, fmt.Errorf("SHIPPING_FEE must not be negative, got %d", fee)
	}
	cfg.ShippingFee = fee

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		for _, p := range strings.Split(proxies, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.TrustedProxies = append(cfg.TrustedProxies, p)
			}
		}
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", DefaultDBMaxConns)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS value: %w", err)
	}
	cfg.DBMaxConns = maxConns

	maxRetries, err := getEnvInt("EVENT_MAX_RETRIES", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid EVENT_MAX_RETRIES value: %w", err)
	}
	cfg.EventMaxRetries = maxRetries

	retrySeconds, err := getEnvInt("EVENT_RETRY_DELAY_SECONDS", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid EVENT_RETRY_DELAY_SECONDS value: %w", err)
	}
	cfg.EventRetryDelay = time.Duration(retrySeconds) * time.Second

	cfg.EventDeadLetterPath = getEnv("EVENT_DEADLETTER_PATH", "")

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// ExpiryWindow returns the expiry window as a duration.
func (c *Config) ExpiryWindow() time.Duration {
	return time.Duration(c.ExpiryWindowDays) * 24 * time.Hour
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}
