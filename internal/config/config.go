package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port          string
	DBConn        string
	LogLevel      string
	JWTSecret     string
	HMACSecret    string
	RunMigrate    bool
	FetchLimit    int
	SweepSchedule string

	// Webhook notifications (n8n)
	WebhookURL   string
	WebhookToken string

	// SMTP for overdraft alerts
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
}

// NewConfig loads configuration from a .env file, if present, and environment variables
func NewConfig() (*Config, error) {
	// Missing .env is fine; real environment variables always win.
	_ = godotenv.Load()

	fetchLimit, err := strconv.Atoi(getEnv("ANALYTICS_FETCH_LIMIT", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid ANALYTICS_FETCH_LIMIT: %w", err)
	}
	runMigrate, err := strconv.ParseBool(getEnv("RUN_MIGRATIONS", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid RUN_MIGRATIONS: %w", err)
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBConn:        getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=bank sslmode=disable"),
		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:     getEnv("JWT_SECRET", "secret"),
		HMACSecret:    getEnv("HMAC_SECRET", ""),
		RunMigrate:    runMigrate,
		FetchLimit:    fetchLimit,
		SweepSchedule: getEnv("OVERDRAFT_SWEEP_SCHEDULE", "0 7 * * *"),

		WebhookURL:   getEnv("N8N_WEBHOOK_URL", ""),
		WebhookToken: getEnv("N8N_WEBHOOK_TOKEN", ""),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", "noreply@bank.local"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings
func (c *Config) Validate() error {
	if c.DBConn == "" {
		return fmt.Errorf("DB_CONN is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.FetchLimit <= 0 {
		return fmt.Errorf("ANALYTICS_FETCH_LIMIT must be positive, got %d", c.FetchLimit)
	}
	return nil
}

// EmailEnabled reports whether SMTP delivery is configured
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
