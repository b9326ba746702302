package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Environment string `yaml:"environment"`
	ServerPort  int    `yaml:"serverPort"`

	DatabaseDriver string `yaml:"databaseDriver"` // sqlite or postgres
	DatabaseDSN    string `yaml:"databaseDSN"`

	JWTSecret   string        `yaml:"jwtSecret"`
	JWTIssuer   string        `yaml:"jwtIssuer"`
	JWTAudience string        `yaml:"jwtAudience"`
	TokenTTL    time.Duration `yaml:"tokenTTL"`

	SnapshotTTL time.Duration `yaml:"snapshotTTL"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"` // auto, text or json

	RedisURL     string `yaml:"redisURL"`
	OTLPEndpoint string `yaml:"otlpEndpoint"`

	CORSAllowedOrigins []string `yaml:"corsAllowedOrigins"`

	Assistant AssistantConfig `yaml:"assistant"`
}

// AssistantConfig configures the generative assistant
type AssistantConfig struct {
	APIKey   string        `yaml:"apiKey"`
	Model    string        `yaml:"model"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Environment:        "development",
		ServerPort:         8008,
		DatabaseDriver:     "sqlite",
		DatabaseDSN:        "okr-tracker.db",
		JWTSecret:          "development-insecure-secret-change-me",
		JWTIssuer:          "okr-tracker-api",
		JWTAudience:        "okr-tracker-clients",
		TokenTTL:           24 * time.Hour,
		SnapshotTTL:        30 * time.Second,
		LogLevel:           "info",
		LogFormat:          "auto",
		CORSAllowedOrigins: []string{"*"},
		Assistant: AssistantConfig{
			Model:    "gemini-2.0-flash",
			Endpoint: "https://generativelanguage.googleapis.com/v1beta",
			Timeout:  20 * time.Second,
		},
	}
}

// Load reads the optional YAML file named by OKR_CONFIG_FILE and then applies
// environment variables on top of it
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("OKR_CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(buf, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Environment = getEnv("ENVIRONMENT", c.Environment)

	port, err := strconv.Atoi(getEnv("SERVER_PORT", strconv.Itoa(c.ServerPort)))
	if err != nil {
		return fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	c.ServerPort = port

	c.DatabaseDriver = strings.ToLower(getEnv("DATABASE_DRIVER", c.DatabaseDriver))
	c.DatabaseDSN = getEnv("DATABASE_DSN", c.DatabaseDSN)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTIssuer = getEnv("JWT_ISSUER", c.JWTIssuer)
	c.JWTAudience = getEnv("JWT_AUDIENCE", c.JWTAudience)
	if c.TokenTTL, err = getDuration("TOKEN_TTL", c.TokenTTL); err != nil {
		return err
	}
	if c.SnapshotTTL, err = getDuration("SNAPSHOT_TTL", c.SnapshotTTL); err != nil {
		return err
	}

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTLPEndpoint)
	c.CORSAllowedOrigins = parseCSVEnv("CORS_ALLOWED_ORIGINS", c.CORSAllowedOrigins)

	c.Assistant.APIKey = getEnv("ASSISTANT_API_KEY", c.Assistant.APIKey)
	c.Assistant.Model = getEnv("ASSISTANT_MODEL", c.Assistant.Model)
	c.Assistant.Endpoint = getEnv("ASSISTANT_ENDPOINT", c.Assistant.Endpoint)
	if c.Assistant.Timeout, err = getDuration("ASSISTANT_TIMEOUT", c.Assistant.Timeout); err != nil {
		return err
	}
	return nil
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	var errs []error
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("server port out of range: %d", c.ServerPort))
	}
	if c.DatabaseDriver != "sqlite" && c.DatabaseDriver != "postgres" {
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.DatabaseDriver))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database DSN is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT secret is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token TTL must be positive"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseCSVEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
