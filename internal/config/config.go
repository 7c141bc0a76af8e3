package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the service resolves from the environment. It is
// loaded once at startup and passed explicitly into the components that need
// it; nothing reads the environment after Load returns.
type Config struct {
	AppPort     string
	RabbitMQURL string
	Database    DatabaseConfig
}

// DatabaseConfig holds the relational store connection parameters and the
// bounds on its connection pool.
type DatabaseConfig struct {
	Host             string
	Port             int
	User             string
	Password         string
	Name             string
	MaxOpenConns     int
	MaxIdleConns     int
	StatementTimeout time.Duration
}

// Load reads the service configuration from environment variables, applying
// the documented defaults. RABBITMQ_URL is optional; when empty, catalog
// events are disabled.
func Load() Config {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "")
	viper.SetDefault("DB_NAME", "catalogo")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_TIMEOUT_SECONDS", 5)
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	return Config{
		AppPort:     viper.GetString("APP_PORT"),
		RabbitMQURL: viper.GetString("RABBITMQ_URL"),
		Database: DatabaseConfig{
			Host:             viper.GetString("DB_HOST"),
			Port:             viper.GetInt("DB_PORT"),
			User:             viper.GetString("DB_USER"),
			Password:         viper.GetString("DB_PASSWORD"),
			Name:             viper.GetString("DB_NAME"),
			MaxOpenConns:     viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:     viper.GetInt("DB_MAX_IDLE_CONNS"),
			StatementTimeout: time.Duration(viper.GetInt("DB_TIMEOUT_SECONDS")) * time.Second,
		},
	}
}
