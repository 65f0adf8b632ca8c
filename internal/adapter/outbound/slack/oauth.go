package slack

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	slackapi "github.com/slack-go/slack"
)

// oauthScopes are the bot scopes the relay needs. users:read must be
// requested together with users:read.email or Slack rejects the request
// with "Invalid permissions requested".
var oauthScopes = []string{
	"chat:write",
	"users:read",
	"users:read.email",
	"im:write",
}

func (c *Client) redirectURI() string {
	return fmt.Sprintf("https://%s/redirect_uri", c.cfg.DomainName)
}

// AuthorizeURL builds the Slack OAuth v2 authorize URL the /authorize
// endpoint redirects to.
func (c *Client) AuthorizeURL() string {
	q := url.Values{}
	q.Set("redirect_uri", c.redirectURI())
	q.Set("client_id", c.cfg.ClientID)
	q.Set("scope", strings.Join(oauthScopes, " "))
	return "https://slack.com/oauth/v2/authorize?" + q.Encode()
}

// ExchangeCode trades an OAuth authorization code for an access token via
// oauth.v2.access.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	resp, err := slackapi.GetOAuthV2ResponseContext(ctx, c.http,
		c.cfg.ClientID, c.cfg.ClientSecret, code, c.redirectURI())
	if err != nil {
		return "", fmt.Errorf("oauth.v2.access exchange: %w", err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("oauth.v2.access returned no access token")
	}
	return resp.AccessToken, nil
}
