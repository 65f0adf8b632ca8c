package middleware

import (
	"net/http"

	slackapi "github.com/slack-go/slack"
)

// SlackSignature verifies the v0 request signature Slack attaches to
// interaction callbacks. A middleware built with an empty secret passes
// requests through untouched, which keeps local development working without
// a configured app.
func SlackSignature(signingSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if signingSecret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, ok := RawBody(r)
			if !ok {
				http.Error(w, "request body not available for signature verification", http.StatusInternalServerError)
				return
			}

			verifier, err := slackapi.NewSecretsVerifier(r.Header, signingSecret)
			if err != nil {
				http.Error(w, "missing or malformed slack signature", http.StatusUnauthorized)
				return
			}
			if _, err := verifier.Write(body); err != nil {
				http.Error(w, "signature verification failed", http.StatusInternalServerError)
				return
			}
			if err := verifier.Ensure(); err != nil {
				http.Error(w, "invalid slack signature", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
