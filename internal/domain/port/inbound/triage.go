package inbound

import (
	"context"

	"github.com/mozilla/triage-bot/internal/domain/model"
	"github.com/mozilla/triage-bot/internal/domain/port/outbound"
)

// TriagePort accepts inbound alerts and runs the outbound pipeline:
// resolve recipient, compose the interactive message, deliver it.
type TriagePort interface {
	HandleAlert(ctx context.Context, req model.AlertRequest) (outbound.DeliveryReceipt, error)
}
