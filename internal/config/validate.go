package config

import (
	"fmt"
	"strings"
)

// Validate checks the config for errors, collecting all of them.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}

	if cfg.Slack.DomainName == "" {
		errs = append(errs, "slack.domainName is required")
	}
	if cfg.Slack.ClientID == "" {
		errs = append(errs, "slack.clientId is required")
	}
	if cfg.Slack.ClientSecret == "" {
		errs = append(errs, "slack.clientSecret is required")
	}
	if cfg.Slack.ResponseTimeout <= 0 {
		errs = append(errs, "slack.responseTimeout must be positive")
	}

	if cfg.Queue.URL == "" {
		errs = append(errs, "queue.url is required")
	}
	if cfg.Queue.Stream == "" {
		errs = append(errs, "queue.stream is required")
	}
	if cfg.Queue.Subject == "" {
		errs = append(errs, "queue.subject is required")
	}

	if cfg.Database.SQLite.Path == "" {
		errs = append(errs, "database.sqlite.path is required")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if cfg.Logging.Level != "" && !validLevels[cfg.Logging.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be debug, info, warn, or error (got %q)", cfg.Logging.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
