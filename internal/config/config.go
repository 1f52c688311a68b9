// Package config collects runtime configuration from the environment.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings for the API server and the scheduler.
type Config struct {
	AppPort     string
	BaseURL     string // public base URL used in confirmation links
	DatabaseDSN string
	JWTSecret   string
	RabbitMQURL string

	SMTPAddr  string // host:port of the outbound mail relay, empty disables SMTP
	EmailFrom string

	// AccountExpiryWindow is how long an unconfirmed account survives before
	// the cleanup job removes it.
	AccountExpiryWindow time.Duration

	// NewsletterMinAge is how long an account must have existed before it
	// receives the newsletter.
	NewsletterMinAge time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("BASE_URL", "http://127.0.0.1:8080")
	viper.SetDefault("DATABASE_DSN", "brutarie.db")
	viper.SetDefault("JWT_SECRET", "change-me")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("SMTP_ADDR", "")
	viper.SetDefault("EMAIL_FROM", "noreply@brutarie.local")
	viper.SetDefault("ACCOUNT_EXPIRY_WINDOW", "2m")
	viper.SetDefault("NEWSLETTER_MIN_AGE", "60m")
	viper.AutomaticEnv()

	return &Config{
		AppPort:             viper.GetString("APP_PORT"),
		BaseURL:             viper.GetString("BASE_URL"),
		DatabaseDSN:         viper.GetString("DATABASE_DSN"),
		JWTSecret:           viper.GetString("JWT_SECRET"),
		RabbitMQURL:         viper.GetString("RABBITMQ_URL"),
		SMTPAddr:            viper.GetString("SMTP_ADDR"),
		EmailFrom:           viper.GetString("EMAIL_FROM"),
		AccountExpiryWindow: viper.GetDuration("ACCOUNT_EXPIRY_WINDOW"),
		NewsletterMinAge:    viper.GetDuration("NEWSLETTER_MIN_AGE"),
	}
}
