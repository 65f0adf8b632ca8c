package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mozilla/triage-bot/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

const minimalConfig = `
slack:
  domainName: triage.example.com
  clientId: "1234.5678"
  clientSecret: shhh
`

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d", cfg.Server.Port)
	}
	if cfg.Slack.ResponseTimeout != 3*time.Second {
		t.Errorf("slack.responseTimeout = %v", cfg.Slack.ResponseTimeout)
	}
	if cfg.Queue.Stream != "TRIAGE" || cfg.Queue.Subject != "triage.responses" {
		t.Errorf("queue defaults = %+v", cfg.Queue)
	}
	if cfg.Credentials.ParameterPrefix != "/triage-bot" {
		t.Errorf("credentials.parameterPrefix = %s", cfg.Credentials.ParameterPrefix)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging defaults = %+v", cfg.Logging)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_SLACK_SECRET", "from-env")
	cfg, err := config.Load(writeConfig(t, `
slack:
  domainName: triage.example.com
  clientId: "1234.5678"
  clientSecret: ${TEST_SLACK_SECRET}
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Slack.ClientSecret != "from-env" {
		t.Errorf("clientSecret = %s", cfg.Slack.ClientSecret)
	}
}

func TestLoad_UnsetEnvVarLeftIntact(t *testing.T) {
	_, err := config.Load(writeConfig(t, `
slack:
  domainName: triage.example.com
  clientId: "1234.5678"
  clientSecret: ${DEFINITELY_NOT_SET_ANYWHERE}
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// The literal ${...} survives so the operator can see what was missed.
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.Port = 0
	cfg.Queue.URL = ""
	cfg.Logging.Level = "verbose"

	err := config.Validate(cfg)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	msg := err.Error()
	for _, want := range []string{
		"server.port",
		"slack.domainName is required",
		"slack.clientId is required",
		"slack.clientSecret is required",
		"queue.url is required",
		"logging.level",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("validation error missing %q in:\n%s", want, msg)
		}
	}
}

func TestValidate_AcceptsCompleteConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Slack.DomainName = "triage.example.com"
	cfg.Slack.ClientID = "1234.5678"
	cfg.Slack.ClientSecret = "shhh"
	if err := config.Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
