package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mozilla/triage-bot/internal/domain/model"
	"github.com/mozilla/triage-bot/internal/domain/port/outbound"
)

// Triage runs the outbound half of the relay: resolve the recipient's Slack
// identity, compose the interactive message, send it as a direct message.
// Each call is an independent, strictly sequential invocation.
type Triage struct {
	directory outbound.Directory
	messenger outbound.Messenger
	logger    *slog.Logger
}

// NewTriage creates the triage service.
func NewTriage(directory outbound.Directory, messenger outbound.Messenger, logger *slog.Logger) *Triage {
	return &Triage{
		directory: directory,
		messenger: messenger,
		logger:    logger,
	}
}

// HandleAlert relays one alert to its recipient. A resolution failure is
// surfaced rather than silently dropping the alert; delivery failures carry
// the transport-vs-rejected distinction from the Slack adapter.
func (t *Triage) HandleAlert(ctx context.Context, req model.AlertRequest) (outbound.DeliveryReceipt, error) {
	if req.Email == "" {
		return outbound.DeliveryReceipt{}, fmt.Errorf("alert %s has no recipient email", req.Identifier)
	}

	rcpt, err := t.directory.LookupByEmail(ctx, req.Email)
	if err != nil {
		return outbound.DeliveryReceipt{}, err
	}

	receipt, err := t.messenger.SendTriageRequest(ctx, req, rcpt)
	if err != nil {
		return outbound.DeliveryReceipt{}, err
	}

	t.logger.Info("triage message delivered",
		"identifier", req.Identifier,
		"alert", req.Alert,
		"recipient", rcpt.ID,
		"channel", receipt.Channel,
	)
	return receipt, nil
}
