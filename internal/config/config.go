// Package config loads application configuration from the environment, with
// an optional YAML override file for deployments that prefer file-based
// configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the server process.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Auth       AuthConfig       `yaml:"auth"`
	Alerts     AlertsConfig     `yaml:"alerts"`
	Statistics StatisticsConfig `yaml:"statistics"`
	Logging    LoggingConfig    `yaml:"logging"`
	CORS       CORSConfig       `yaml:"cors"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST,default=0.0.0.0" yaml:"host"`
	Port            int           `env:"SERVER_PORT,default=8080" yaml:"port"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT,default=15s" yaml:"read_timeout"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT,default=30s" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT,default=10s" yaml:"shutdown_timeout"`
}

// DatabaseConfig selects and tunes the persistence backend. An empty DSN
// selects the in-memory store.
type DatabaseConfig struct {
	Driver          string        `env:"DB_DRIVER,default=postgres" yaml:"driver"`
	DSN             string        `env:"DB_DSN" yaml:"dsn"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=20" yaml:"max_open_conns"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=5" yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m" yaml:"conn_max_lifetime"`
}

// RedisConfig enables the distributed rate limiter when Addr is set.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" yaml:"addr"`
	Password string `env:"REDIS_PASSWORD" yaml:"password"`
	DB       int    `env:"REDIS_DB,default=0" yaml:"db"`
}

// AuthConfig controls token issuance and verification.
type AuthConfig struct {
	JWTSecret     string        `env:"AUTH_JWT_SECRET" yaml:"jwt_secret"`
	TokenLifetime time.Duration `env:"AUTH_TOKEN_LIFETIME,default=24h" yaml:"token_lifetime"`
	Issuer        string        `env:"AUTH_ISSUER,default=huntboard" yaml:"issuer"`
}

// AlertsConfig controls the appointment alert scanner.
type AlertsConfig struct {
	ScanInterval     time.Duration `env:"ALERTS_SCAN_INTERVAL,default=1m" yaml:"scan_interval"`
	EmailThreshold   time.Duration `env:"ALERTS_EMAIL_THRESHOLD,default=30m" yaml:"email_threshold"`
	BrowserThreshold time.Duration `env:"ALERTS_BROWSER_THRESHOLD,default=15m" yaml:"browser_threshold"`
	EmailEndpoint    string        `env:"ALERTS_EMAIL_ENDPOINT" yaml:"email_endpoint"`
	EmailAPIKey      string        `env:"ALERTS_EMAIL_API_KEY" yaml:"email_api_key"`
}

// StatisticsConfig controls the statistics aggregation job.
type StatisticsConfig struct {
	Schedule string `env:"STATS_SCHEDULE,default=@every 1h" yaml:"schedule"`
}

// LoggingConfig mirrors pkg/logger.LoggingConfig.
type LoggingConfig struct {
	Level      string `env:"LOG_LEVEL,default=info" yaml:"level"`
	Format     string `env:"LOG_FORMAT,default=text" yaml:"format"`
	Output     string `env:"LOG_OUTPUT,default=stdout" yaml:"output"`
	FilePrefix string `env:"LOG_FILE_PREFIX" yaml:"file_prefix"`
}

// CORSConfig lists allowed browser origins.
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS,default=*" yaml:"allowed_origins"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present. If CONFIG_FILE points at a YAML
// file, its values override the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Alerts.EmailThreshold <= 0 {
		return fmt.Errorf("alerts email threshold must be positive")
	}
	if c.Auth.JWTSecret == "" {
		// Tokens signed with an empty secret would verify trivially.
		return fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	return nil
}
