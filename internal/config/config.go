package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string `yaml:"port" env:"SERVER_PORT"`
		Mode            string `yaml:"mode" env:"SERVER_MODE"`
		ShutdownTimeout string `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret" env:"JWT_SECRET"`
		Issuer string `yaml:"issuer" env:"JWT_ISSUER"`
		// DevTokenExpiration bounds the tokens printed for seeded accounts.
		DevTokenExpiration string `yaml:"dev_token_expiration" env:"JWT_DEV_TOKEN_EXPIRATION"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Redis struct {
		Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED"`
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	RateLimit struct {
		Enabled       bool   `yaml:"enabled" env:"RATE_LIMIT_ENABLED"`
		MessageLimit  int    `yaml:"message_limit" env:"RATE_LIMIT_MESSAGE_LIMIT"`
		MessageWindow string `yaml:"message_window" env:"RATE_LIMIT_MESSAGE_WINDOW"`
		// In-process token bucket, used when Redis is disabled.
		PerSecond float64 `yaml:"per_second" env:"RATE_LIMIT_PER_SECOND"`
		Burst     int     `yaml:"burst" env:"RATE_LIMIT_BURST"`
	} `yaml:"ratelimit"`

	Seed struct {
		Enabled bool `yaml:"enabled" env:"SEED_ENABLED"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The file is optional; environment variables alone are enough.
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ShutdownTimeout = "10s"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "vacantes"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.JWT.Issuer = "vacantes"
	config.JWT.DevTokenExpiration = "24h"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Redis.Addr = "localhost:6379"

	config.RateLimit.Enabled = true
	config.RateLimit.MessageLimit = 20
	config.RateLimit.MessageWindow = "1m"
	config.RateLimit.PerSecond = 0.5
	config.RateLimit.Burst = 10
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	durations := map[string]string{
		"server shutdown timeout":    config.Server.ShutdownTimeout,
		"database conn max lifetime": config.Database.ConnMaxLifetime,
		"JWT dev token expiration":   config.JWT.DevTokenExpiration,
		"rate limit message window":  config.RateLimit.MessageWindow,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	if config.Redis.Enabled && config.Redis.Addr == "" {
		return fmt.Errorf("redis address is required when redis is enabled")
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.MessageLimit <= 0 {
			return fmt.Errorf("rate limit message limit must be positive")
		}
		if config.RateLimit.PerSecond <= 0 || config.RateLimit.Burst <= 0 {
			return fmt.Errorf("rate limit per_second and burst must be positive")
		}
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// ShutdownTimeout returns the parsed graceful shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	return mustDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

// ConnMaxLifetime returns the parsed pool connection lifetime.
func (c *Config) ConnMaxLifetime() time.Duration {
	return mustDuration(c.Database.ConnMaxLifetime, time.Hour)
}

// DevTokenExpiration returns the parsed lifetime of seeded development tokens.
func (c *Config) DevTokenExpiration() time.Duration {
	return mustDuration(c.JWT.DevTokenExpiration, 24*time.Hour)
}

// MessageWindow returns the parsed message rate limit window.
func (c *Config) MessageWindow() time.Duration {
	return mustDuration(c.RateLimit.MessageWindow, time.Minute)
}

// mustDuration is only safe after validateConfig has run.
func mustDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
