package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	slackapi "github.com/slack-go/slack"

	outslack "github.com/mozilla/triage-bot/internal/adapter/outbound/slack"
	"github.com/mozilla/triage-bot/internal/adapter/outbound/slack/template"
	"github.com/mozilla/triage-bot/internal/domain/model"
	"github.com/mozilla/triage-bot/internal/domain/port/outbound"
)

// interactionEnvelope is the slice of the Slack interaction payload the
// relay cares about. The echoed message is decoded through echoedMessage so
// only allow-listed fields survive the round trip.
type interactionEnvelope struct {
	Type        string                `json:"type"`
	User        slackapi.User         `json:"user"`
	ResponseURL string                `json:"response_url"`
	Actions     []slackapi.BlockAction `json:"actions"`
	Message     EchoedMessage         `json:"message"`
}

// EchoedMessage is the original message as echoed back by Slack, filtered to
// the fields that are safe to send back in the replacement request: text,
// blocks, attachments, thread_ts, and the formatting flag.
type EchoedMessage struct {
	Text        string                `json:"text,omitempty"`
	Blocks      slackapi.Blocks       `json:"blocks,omitempty"`
	Attachments []slackapi.Attachment `json:"attachments,omitempty"`
	ThreadTS    string                `json:"thread_ts,omitempty"`
	Mrkdwn      bool                  `json:"mrkdwn,omitempty"`
}

// Interaction is one decoded button click: the embedded decision payload,
// the responding user, the single-use callback URL, and the filtered
// original message.
type Interaction struct {
	Payload     model.DecisionPayload
	UserID      string
	CallbackURL string
	Message     EchoedMessage
}

// DecodeInteraction parses a raw interaction payload. Payload types other
// than block_actions yield ErrUnsupportedInteraction; a chosen action with
// no value is a MalformedActionError; an undecodable value propagates as a
// PayloadDecodeError since it means the composer and this decoder have
// drifted apart. A block_actions payload with no actions decodes to nil.
func DecodeInteraction(raw []byte) (*Interaction, error) {
	var env interactionEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("parsing interaction payload: %w", err)
	}

	if env.Type != string(slackapi.InteractionTypeBlockActions) {
		return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedInteraction, env.Type)
	}

	if len(env.Actions) == 0 {
		return nil, nil
	}

	// Slack sends one action per click; only the first is meaningful.
	action := env.Actions[0]
	if action.Value == "" {
		return nil, &model.MalformedActionError{ActionID: action.ActionID}
	}

	payload, err := model.DecodeDecisionPayload(action.Value)
	if err != nil {
		return nil, err
	}

	return &Interaction{
		Payload:     payload,
		UserID:      env.User.ID,
		CallbackURL: env.ResponseURL,
		Message:     env.Message,
	}, nil
}

// Responder publishes the replacement message to the interaction's callback
// URL.
type Responder interface {
	Respond(ctx context.Context, callbackURL string, msg outslack.ReplacementMessage) error
}

// InteractionPipeline runs the inbound half of the relay per decoded click:
// forward the normalized answer to the downstream queue, then compose and
// publish the user-visible acknowledgment. The queue leg is best-effort and
// never blocks the acknowledgment.
type InteractionPipeline struct {
	publisher outbound.EventPublisher
	responder Responder
	logger    *slog.Logger
}

// NewInteractionPipeline creates the pipeline.
func NewInteractionPipeline(publisher outbound.EventPublisher, responder Responder, logger *slog.Logger) *InteractionPipeline {
	return &InteractionPipeline{
		publisher: publisher,
		responder: responder,
		logger:    logger,
	}
}

// Process decodes and handles one raw interaction payload. The returned
// error is for the caller's log; the HTTP surface acknowledges with 200
// regardless, as Slack requires a prompt acknowledgment whatever the
// internal outcome.
func (p *InteractionPipeline) Process(ctx context.Context, raw []byte) error {
	interaction, err := DecodeInteraction(raw)
	if err != nil {
		if errors.Is(err, model.ErrUnsupportedInteraction) {
			p.logger.Warn("ignoring interaction", "error", err)
			return nil
		}
		return err
	}
	if interaction == nil {
		return nil
	}

	event := model.TriageEvent{
		Identifier:  interaction.Payload.Identifier,
		Email:       interaction.Payload.Email,
		SlackUserID: interaction.UserID,
		SlackName:   interaction.Payload.SlackName,
		Confidence:  interaction.Payload.Confidence,
		Choice:      interaction.Payload.Choice,
	}

	if messageID, err := p.publisher.PublishResponse(ctx, event); err != nil {
		// Best-effort telemetry: the recipient still gets their
		// acknowledgment even when the queue is down.
		p.logger.Error("queue publish failed",
			"identifier", event.Identifier,
			"choice", event.Choice,
			"error", err,
		)
	} else {
		p.logger.Debug("response forwarded",
			"identifier", event.Identifier,
			"messageId", messageID,
		)
	}

	msg := outslack.ReplacementMessage{
		Text:            interaction.Message.Text,
		Blocks:          template.UpsertResponse(interaction.Message.Blocks, interaction.Payload.Choice),
		Attachments:     interaction.Message.Attachments,
		ThreadTimestamp: interaction.Message.ThreadTS,
		Mrkdwn:          interaction.Message.Mrkdwn,
		ReplaceOriginal: true,
	}
	return p.responder.Respond(ctx, interaction.CallbackURL, msg)
}
