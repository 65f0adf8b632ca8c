package slack_test

import (
	"net/url"
	"testing"

	slackadapter "github.com/mozilla/triage-bot/internal/adapter/outbound/slack"
)

func TestAuthorizeURL(t *testing.T) {
	client := slackadapter.NewClient(slackadapter.Config{
		DomainName: "triage.example.com",
		ClientID:   "1234.5678",
	}, nil)

	raw := client.AuthorizeURL()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parsing authorize url %q: %v", raw, err)
	}

	if u.Scheme != "https" || u.Host != "slack.com" || u.Path != "/oauth/v2/authorize" {
		t.Errorf("authorize endpoint = %s://%s%s", u.Scheme, u.Host, u.Path)
	}

	q := u.Query()
	if got := q.Get("client_id"); got != "1234.5678" {
		t.Errorf("client_id = %s", got)
	}
	if got := q.Get("redirect_uri"); got != "https://triage.example.com/redirect_uri" {
		t.Errorf("redirect_uri = %s", got)
	}
	if got := q.Get("scope"); got != "chat:write users:read users:read.email im:write" {
		t.Errorf("scope = %s", got)
	}
}
