// Package nats implements the downstream-queue port using NATS JetStream.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mozilla/triage-bot/internal/domain/model"
)

// Config holds queue connection configuration.
type Config struct {
	URL     string
	Stream  string
	Subject string
}

// Publisher hands normalized triage responses to JetStream for asynchronous
// pickup by the alerting system.
type Publisher struct {
	nc       *nats.Conn
	js       jetstream.JetStream
	subject  string
	location string
}

// Connect establishes the NATS connection and ensures the response stream
// exists.
func Connect(ctx context.Context, cfg Config) (*Publisher, error) {
	nc, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.Stream,
		Subjects: []string{cfg.Subject},
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream stream create: %w", err)
	}

	slog.Info("nats connected", "url", cfg.URL, "stream", cfg.Stream, "subject", cfg.Subject)
	return &Publisher{
		nc:       nc,
		js:       js,
		subject:  cfg.Subject,
		location: fmt.Sprintf("%s/%s", cfg.URL, cfg.Subject),
	}, nil
}

// responseRecord is the wire format the alerting system consumes.
type responseRecord struct {
	Identifier string       `json:"identifier"`
	User       responseUser `json:"user"`
	SlackName  string       `json:"slack_name,omitempty"`
	Confidence string       `json:"identityConfidence"`
	Response   string       `json:"response"`
}

type responseUser struct {
	Email string `json:"email"`
	Slack string `json:"slack"`
}

// PublishResponse serializes the event and publishes it, returning the
// queue-assigned message id (stream name and sequence).
func (p *Publisher) PublishResponse(ctx context.Context, ev model.TriageEvent) (string, error) {
	record := responseRecord{
		Identifier: ev.Identifier,
		User:       responseUser{Email: ev.Email, Slack: ev.SlackUserID},
		SlackName:  ev.SlackName,
		Confidence: string(ev.Confidence),
		Response:   string(ev.Choice),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encoding response record: %w", err)
	}

	ack, err := p.js.Publish(ctx, p.subject, data)
	if err != nil {
		return "", fmt.Errorf("nats publish %s: %w", p.subject, err)
	}
	return fmt.Sprintf("%s/%d", ack.Stream, ack.Sequence), nil
}

// QueueLocation returns the configured downstream queue location for the
// control-plane discovery query.
func (p *Publisher) QueueLocation() string { return p.location }

// HealthCheck reports whether the NATS connection is up.
func (p *Publisher) HealthCheck(ctx context.Context) error {
	if !p.nc.IsConnected() {
		return fmt.Errorf("nats connection is %s", p.nc.Status())
	}
	return nil
}

// Close shuts down the NATS connection.
func (p *Publisher) Close() error {
	p.nc.Close()
	return nil
}
