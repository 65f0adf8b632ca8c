package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	slackapi "github.com/slack-go/slack"

	"github.com/mozilla/triage-bot/internal/domain/model"
)

// ReplacementMessage is the JSON document posted to an interaction's
// callback URL. Its fields are exactly the allow-list of fields we are
// willing to echo back from the original message, plus the replace flag;
// anything platform-internal Slack included in the interaction payload never
// makes it into this struct.
type ReplacementMessage struct {
	Text            string               `json:"text,omitempty"`
	Blocks          slackapi.Blocks      `json:"blocks,omitempty"`
	Attachments     []slackapi.Attachment `json:"attachments,omitempty"`
	ThreadTimestamp string               `json:"thread_ts,omitempty"`
	Mrkdwn          bool                 `json:"mrkdwn,omitempty"`
	ReplaceOriginal bool                 `json:"replace_original"`
}

// Responder posts replacement messages to per-interaction callback URLs.
// One attempt only: the round trip has to finish inside Slack's response
// window, so the client timeout is the whole budget.
type Responder struct {
	http   *http.Client
	logger *slog.Logger
}

// NewResponder creates a Responder with the given publish timeout.
func NewResponder(timeout time.Duration, logger *slog.Logger) *Responder {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Responder{
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Respond POSTs the replacement message to the callback URL. Transport
// failures, timeouts, and non-2xx statuses all surface as a PublishError;
// the caller maps it to failure without retrying.
func (r *Responder) Respond(ctx context.Context, callbackURL string, msg ReplacementMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding replacement message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, callbackURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		pubErr := &model.PublishError{Destination: callbackURL, Err: err}
		r.logger.Error("callback publish failed",
			"destination", callbackURL,
			"payload", string(body),
			"error", err,
		)
		return pubErr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		pubErr := &model.PublishError{
			Destination: callbackURL,
			StatusCode:  resp.StatusCode,
			Body:        string(respBody),
		}
		r.logger.Error("callback publish rejected",
			"destination", callbackURL,
			"payload", string(body),
			"status", resp.StatusCode,
			"body", string(respBody),
		)
		return pubErr
	}
	return nil
}
