package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Log       LogConfig
	Provider  ProviderConfig
	Cache     CacheConfig
	Scheduler SchedulerConfig
	Kafka     KafkaConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string `env:"SERVER_PORT" envDefault:"5001"`
	Host string `env:"SERVER_HOST" envDefault:"localhost"`
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string `env:"DB_PATH" envDefault:"./data/finance.db"`
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost"`
	MaxAge         int      `env:"CORS_MAX_AGE" envDefault:"300"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// ProviderConfig holds market data provider settings.
// When FernetKey is set, APIKey and NewsAPIKey are fernet tokens and are
// decrypted during Load.
type ProviderConfig struct {
	Name       string `env:"QUOTE_PROVIDER" envDefault:"fmp"`
	APIKey     string `env:"API_KEY"`
	NewsAPIKey string `env:"NEWS_API_KEY"`
	FernetKey  string `env:"FERNET_KEY"`
}

// CacheConfig holds market data cache settings
type CacheConfig struct {
	MaxCost int64 `env:"CACHE_MAX_COST" envDefault:"10000"`
}

// SchedulerConfig holds background job settings
type SchedulerConfig struct {
	QuoteRefresh string `env:"QUOTE_REFRESH_SCHEDULE" envDefault:"@every 5m"`
}

// KafkaConfig holds ledger event publishing settings. Publishing is disabled
// when Brokers is empty.
type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_TOPIC" envDefault:"portfolio.transactions"`
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if config.Provider.FernetKey != "" {
		if err := config.Provider.decryptKeys(); err != nil {
			return nil, err
		}
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}
