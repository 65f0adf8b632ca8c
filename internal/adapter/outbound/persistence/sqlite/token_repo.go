package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mozilla/triage-bot/internal/domain/model"
)

// ErrTokenNotFound marks a lookup for a client id with no stored token.
var ErrTokenNotFound = errors.New("no stored token")

// TokenRepo implements outbound.TokenStore using SQLite. Rows are keyed the
// same way the upstream parameter store was: {prefix}/SlackOAuthToken-{clientID}.
type TokenRepo struct {
	db     *sql.DB
	prefix string
}

// NewTokenRepo creates a TokenRepo backed by the given store.
func NewTokenRepo(store *Store, prefix string) *TokenRepo {
	return &TokenRepo{db: store.DB, prefix: prefix}
}

func (r *TokenRepo) parameterName(clientID string) string {
	return fmt.Sprintf("%s/SlackOAuthToken-%s", r.prefix, clientID)
}

// Put stores the access token for a client id, overwriting any previous one.
func (r *TokenRepo) Put(ctx context.Context, clientID, accessToken string) error {
	const q = `INSERT INTO oauth_tokens (name, access_token)
		VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET
			access_token=excluded.access_token,
			updated_at=CURRENT_TIMESTAMP`

	if _, err := r.db.ExecContext(ctx, q, r.parameterName(clientID), accessToken); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	return nil
}

// Get fetches the stored access token for a client id.
func (r *TokenRepo) Get(ctx context.Context, clientID string) (string, error) {
	const q = `SELECT access_token FROM oauth_tokens WHERE name = ?`

	var token string
	err := r.db.QueryRowContext(ctx, q, r.parameterName(clientID)).Scan(&token)
	if err == sql.ErrNoRows {
		return "", &model.CredentialError{ClientID: clientID, Err: ErrTokenNotFound}
	}
	if err != nil {
		return "", &model.CredentialError{ClientID: clientID, Err: err}
	}
	return token, nil
}
