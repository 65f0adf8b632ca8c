package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Slack       SlackConfig       `yaml:"slack"`
	Queue       QueueConfig       `yaml:"queue"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Database    DatabaseConfig    `yaml:"database"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ServerConfig struct {
	Port              int           `yaml:"port"`
	ReadTimeout       time.Duration `yaml:"readTimeout"`
	WriteTimeout      time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdownTimeout"`
	MetricsPort       int           `yaml:"metricsPort"`
	RequestsPerMinute int           `yaml:"requestsPerMinute"`
}

type SlackConfig struct {
	// DomainName is the public host this service is reached on; the OAuth
	// redirect URI is derived from it.
	DomainName    string        `yaml:"domainName"`
	ClientID      string        `yaml:"clientId"`
	ClientSecret  string        `yaml:"clientSecret"`
	SigningSecret string        `yaml:"signingSecret"`
	APITimeout    time.Duration `yaml:"apiTimeout"`
	// ResponseTimeout bounds the POST to an interaction's callback URL.
	// Slack expects the round trip to finish within a few seconds.
	ResponseTimeout time.Duration `yaml:"responseTimeout"`
}

type QueueConfig struct {
	URL     string `yaml:"url"`
	Stream  string `yaml:"stream"`
	Subject string `yaml:"subject"`
}

type CredentialsConfig struct {
	// ParameterPrefix namespaces stored token rows:
	// {prefix}/SlackOAuthToken-{clientId}.
	ParameterPrefix string `yaml:"parameterPrefix"`
}

type DatabaseConfig struct {
	SQLite SQLiteConfig `yaml:"sqlite"`
}

type SQLiteConfig struct {
	Path              string `yaml:"path"`
	MaxOpenConns      int    `yaml:"maxOpenConns"`
	PragmaJournalMode string `yaml:"pragmaJournalMode"`
	PragmaBusyTimeout int    `yaml:"pragmaBusyTimeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a YAML config file, expands ${VAR} references from the
// environment, and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              8080,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			ShutdownTimeout:   15 * time.Second,
			MetricsPort:       9090,
			RequestsPerMinute: 120,
		},
		Slack: SlackConfig{
			APITimeout:      10 * time.Second,
			ResponseTimeout: 3 * time.Second,
		},
		Queue: QueueConfig{
			URL:     "nats://localhost:4222",
			Stream:  "TRIAGE",
			Subject: "triage.responses",
		},
		Credentials: CredentialsConfig{
			ParameterPrefix: "/triage-bot",
		},
		Database: DatabaseConfig{
			SQLite: SQLiteConfig{
				Path:              "/data/triage-bot.db",
				MaxOpenConns:      1,
				PragmaJournalMode: "wal",
				PragmaBusyTimeout: 5000,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// expandEnvVars replaces ${VAR} patterns with environment variable values.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		return "${" + key + "}"
	})
}
