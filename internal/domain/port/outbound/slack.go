package outbound

import (
	"context"

	"github.com/mozilla/triage-bot/internal/domain/model"
)

// Directory maps an email address to a messaging-platform identity.
type Directory interface {
	LookupByEmail(ctx context.Context, email string) (model.RecipientIdentity, error)
}

// DeliveryReceipt identifies a delivered triage message.
type DeliveryReceipt struct {
	Channel   string `json:"channel"`
	Timestamp string `json:"ts"`
}

// Messenger posts an interactive triage message to a direct conversation
// with the resolved recipient.
type Messenger interface {
	SendTriageRequest(ctx context.Context, req model.AlertRequest, rcpt model.RecipientIdentity) (DeliveryReceipt, error)
}
