// Package slack implements the Slack-facing outbound ports: directory
// lookup, direct-message delivery, OAuth code exchange, and the callback-URL
// responder.
package slack

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	slackapi "github.com/slack-go/slack"

	"github.com/mozilla/triage-bot/internal/adapter/outbound/slack/template"
	"github.com/mozilla/triage-bot/internal/domain/model"
	"github.com/mozilla/triage-bot/internal/domain/port/outbound"
)

// Config holds Slack client configuration.
type Config struct {
	// DomainName is the public host this service is reached on; it anchors
	// the OAuth redirect URI.
	DomainName   string
	ClientID     string
	ClientSecret string
	// APITimeout bounds every Slack Web API call.
	APITimeout time.Duration
}

// Client implements outbound.Directory and outbound.Messenger against the
// Slack Web API. The access token is fetched through the credential cache on
// every call, so a freshly provisioned token takes effect without a restart.
type Client struct {
	cfg    Config
	tokens outbound.TokenSource
	http   *http.Client
}

// NewClient creates a Slack client backed by the given token source.
func NewClient(cfg Config, tokens outbound.TokenSource) *Client {
	timeout := cfg.APITimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:    cfg,
		tokens: tokens,
		http:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) api(ctx context.Context) (*slackapi.Client, error) {
	token, err := c.tokens.Token(ctx, c.cfg.ClientID)
	if err != nil {
		return nil, err
	}
	return slackapi.New(token, slackapi.OptionHTTPClient(c.http)), nil
}

// LookupByEmail resolves an email address to a Slack user identity via
// users.lookupByEmail. Any failure, including users_not_found, is a
// ResolutionError: the caller must surface it, not drop the alert.
func (c *Client) LookupByEmail(ctx context.Context, email string) (model.RecipientIdentity, error) {
	api, err := c.api(ctx)
	if err != nil {
		return model.RecipientIdentity{}, err
	}

	user, err := api.GetUserByEmailContext(ctx, email)
	if err != nil {
		return model.RecipientIdentity{}, &model.ResolutionError{Email: email, Err: err}
	}
	return model.RecipientIdentity{ID: user.ID, Name: user.Name}, nil
}

// SendTriageRequest opens an IM conversation with the recipient and posts
// the interactive triage message into it.
func (c *Client) SendTriageRequest(ctx context.Context, req model.AlertRequest, rcpt model.RecipientIdentity) (outbound.DeliveryReceipt, error) {
	api, err := c.api(ctx)
	if err != nil {
		return outbound.DeliveryReceipt{}, err
	}

	blocks, err := template.BuildTriageBlocks(req, rcpt)
	if err != nil {
		return outbound.DeliveryReceipt{}, err
	}

	channel, _, _, err := api.OpenConversationContext(ctx, &slackapi.OpenConversationParameters{
		Users: []string{rcpt.ID},
	})
	if err != nil {
		return outbound.DeliveryReceipt{}, classify("conversations.open", err)
	}

	_, ts, err := api.PostMessageContext(ctx, channel.ID,
		slackapi.MsgOptionBlocks(blocks...),
		slackapi.MsgOptionText(req.Summary, false),
	)
	if err != nil {
		return outbound.DeliveryReceipt{}, classify("chat.postMessage", err)
	}

	return outbound.DeliveryReceipt{Channel: channel.ID, Timestamp: ts}, nil
}

// classify splits a Slack call failure into transport (request never
// completed, or HTTP-level rejection) and application-level ok:false.
func classify(op string, err error) *model.DeliveryError {
	kind := model.FailureRejected

	var statusErr slackapi.StatusCodeError
	var urlErr *url.Error
	switch {
	case errors.As(err, &statusErr),
		errors.As(err, &urlErr),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		kind = model.FailureTransport
	}

	return &model.DeliveryError{Kind: kind, Op: op, Err: err}
}
