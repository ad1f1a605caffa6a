package config

import (
	"fmt"
	"os"
)

// Config holds application configuration
type Config struct {
	DBConn              string
	LogLevel            string
	StateKey            string
	RealizationSchedule string
	ReminderSchedule    string
	SMTPHost            string
	SMTPPort            string
	SMTPUsername        string
	SMTPPassword        string
	SenderEmail         string
	ReminderEmail       string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		DBConn:              getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=cashflow sslmode=disable"),
		LogLevel:            getEnv("LOG_LEVEL", "INFO"),
		StateKey:            getEnv("STATE_KEY", "cashflow_app_v1"),
		RealizationSchedule: getEnv("REALIZATION_SCHEDULE", "@every 1m"),
		ReminderSchedule:    getEnv("REMINDER_SCHEDULE", "0 9 * * *"),
		SMTPHost:            getEnv("SMTP_HOST", ""),
		SMTPPort:            getEnv("SMTP_PORT", "587"),
		SMTPUsername:        getEnv("SMTP_USERNAME", ""),
		SMTPPassword:        getEnv("SMTP_PASSWORD", ""),
		SenderEmail:         getEnv("SENDER_EMAIL", ""),
		ReminderEmail:       getEnv("REMINDER_EMAIL", ""),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.StateKey == "" {
		return nil, fmt.Errorf("STATE_KEY is required")
	}
	if cfg.RealizationSchedule == "" {
		return nil, fmt.Errorf("REALIZATION_SCHEDULE is required")
	}
	if cfg.EmailEnabled() && (cfg.SMTPHost == "" || cfg.SenderEmail == "") {
		return nil, fmt.Errorf("SMTP_HOST and SENDER_EMAIL are required when REMINDER_EMAIL is set")
	}

	return cfg, nil
}

// EmailEnabled reports whether reminders should be mailed
func (c *Config) EmailEnabled() bool {
	return c.ReminderEmail != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
