package outbound

import (
	"context"

	"github.com/mozilla/triage-bot/internal/domain/model"
)

// EventPublisher hands a recipient's answer to the downstream durable queue
// and returns the queue-assigned message id.
type EventPublisher interface {
	PublishResponse(ctx context.Context, ev model.TriageEvent) (messageID string, err error)
	QueueLocation() string
}
