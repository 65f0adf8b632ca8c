package outbound

import "context"

// TokenStore persists Slack OAuth access tokens keyed by client id, with
// overwrite-on-write semantics.
type TokenStore interface {
	Put(ctx context.Context, clientID, accessToken string) error
	Get(ctx context.Context, clientID string) (string, error)
}

// TokenSource yields the current access token for a client id. The cache
// implementation fronts a TokenStore with single-flight population.
type TokenSource interface {
	Token(ctx context.Context, clientID string) (string, error)
}
