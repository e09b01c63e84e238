package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	SystemTenantID string
	RateLimit      string

	// Messaging. AMQPURL empty disables both the consumer and the publisher.
	AMQPURL         string
	EventsExchange  string
	EventsQueue     string
	EventRetryMax   int
	EventRetryDelay time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("SYSTEM_TENANT_ID", "system")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("LEDGER_EVENTS_EXCHANGE", "ledger.events")
	viper.SetDefault("DOMAIN_EVENTS_QUEUE", "ledger.domain-events")
	viper.SetDefault("EVENT_RETRY_MAX", 3)
	viper.SetDefault("EVENT_RETRY_DELAY", "2s")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:    viper.GetString("PGSQL_URL"),
		Port:           viper.GetString("PORT"),
		IsProduction:   viper.GetBool("IS_PRODUCTION"),
		SystemTenantID: viper.GetString("SYSTEM_TENANT_ID"),
		RateLimit:      viper.GetString("RATE_LIMIT"),
		AMQPURL:        viper.GetString("AMQP_URL"),
		EventsExchange: viper.GetString("LEDGER_EVENTS_EXCHANGE"),
		EventsQueue:    viper.GetString("DOMAIN_EVENTS_QUEUE"),
		EventRetryMax:  viper.GetInt("EVENT_RETRY_MAX"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	retryDelayStr := viper.GetString("EVENT_RETRY_DELAY")
	retryDelay, err := time.ParseDuration(retryDelayStr)
	if err != nil {
		retryDelay = 2 * time.Second
		log.Printf("Warning: Invalid value for EVENT_RETRY_DELAY ('%s'). Defaulting to %s.\n", retryDelayStr, retryDelay)
	}
	cfg.EventRetryDelay = retryDelay

	if cfg.AMQPURL == "" {
		log.Println("Warning: AMQP_URL not set. Event ingestion and posted-entry notifications are disabled.")
	}

	return cfg, nil
}
