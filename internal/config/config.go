package config

import (
	"fmt"
	"os"
)

// Config holds application configuration
type Config struct {
	Port        string
	DBConn      string
	LogLevel    string
	JWTSecret   string
	ECBURL      string
	SMTPHost    string
	SMTPPort    string
	SMTPUser    string
	SMTPPass    string
	SenderEmail string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBConn:      getEnv("DB_CONN", "host=localhost port=5432 user=bolso password=bolso dbname=bolso sslmode=disable"),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		ECBURL:      getEnv("ECB_URL", "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"),
		SMTPHost:    getEnv("SMTP_HOST", ""),
		SMTPPort:    getEnv("SMTP_PORT", "587"),
		SMTPUser:    getEnv("SMTP_USERNAME", ""),
		SMTPPass:    getEnv("SMTP_PASSWORD", ""),
		SenderEmail: getEnv("SENDER_EMAIL", "alerts@omeubolso.local"),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// MailEnabled reports whether SMTP is configured for budget alerts.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
