package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mozilla/triage-bot/internal/domain/model"
	"github.com/mozilla/triage-bot/internal/domain/port/inbound"
	"github.com/mozilla/triage-bot/internal/domain/port/outbound"
	"github.com/mozilla/triage-bot/pkg/apierror"
)

// OAuthProvider covers the two OAuth operations the HTTP surface needs.
type OAuthProvider interface {
	AuthorizeURL() string
	ExchangeCode(ctx context.Context, code string) (string, error)
}

// Handler owns the HTTP endpoints. Errors from handlers are logged
// server-side; the bodies returned to callers are fixed strings that leak
// nothing about internal failures.
type Handler struct {
	triage    inbound.TriagePort
	pipeline  *InteractionPipeline
	oauth     OAuthProvider
	tokens    outbound.TokenStore
	clientID  string
	publisher outbound.EventPublisher
	logger    *slog.Logger
}

// NewHandler creates the Handler.
func NewHandler(
	triage inbound.TriagePort,
	pipeline *InteractionPipeline,
	oauth OAuthProvider,
	tokens outbound.TokenStore,
	clientID string,
	publisher outbound.EventPublisher,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		triage:    triage,
		pipeline:  pipeline,
		oauth:     oauth,
		tokens:    tokens,
		clientID:  clientID,
		publisher: publisher,
		logger:    logger,
	}
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// handleTest answers the reverse proxy's smoke test.
func (h *Handler) handleTest(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "API request received")
}

// handleError serves a fixed 400 for demonstrating error propagation through
// the proxy layers.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusBadRequest,
		"Since you requested the /error API endpoint I'll go ahead and serve back a 400")
}

// handleAuthorize redirects the browser to Slack's OAuth authorize page.
func (h *Handler) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Location", h.oauth.AuthorizeURL())
	w.Header().Set("Cache-Control", "max-age=0")
	writeText(w, http.StatusFound, "Redirecting to identity provider")
}

// handleRedirectURI finishes the OAuth flow: exchanges the code for an
// access token and stores it. An error parameter from Slack, a failed
// exchange, and a failed store all surface as the same 400 body.
func (h *Handler) handleRedirectURI(w http.ResponseWriter, r *http.Request) {
	const failureBody = "Unable to provision and store an OAuth access token"

	query := r.URL.Query()
	if errParam := query.Get("error"); errParam != "" {
		h.logger.Error("redirect_uri error", "error", errParam)
		writeText(w, http.StatusBadRequest, failureBody)
		return
	}

	token, err := h.oauth.ExchangeCode(r.Context(), query.Get("code"))
	if err != nil {
		h.logger.Error("oauth code exchange failed", "error", err)
		writeText(w, http.StatusBadRequest, failureBody)
		return
	}

	if err := h.tokens.Put(r.Context(), h.clientID, token); err != nil {
		h.logger.Error("storing oauth token failed", "error", err)
		writeText(w, http.StatusBadRequest, failureBody)
		return
	}

	writeText(w, http.StatusOK,
		"Success : OAuth access token has been provisioned and stored")
}

// handleInteractive processes Slack interactive component callbacks. The
// body is form-encoded with one or more JSON documents under "payload".
// Whatever happens per payload, Slack gets its 200 promptly.
func (h *Handler) handleInteractive(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.Error("parsing interactive form body failed", "error", err)
		writeText(w, http.StatusOK, "Acknowledged")
		return
	}

	for _, raw := range r.PostForm["payload"] {
		if err := h.pipeline.Process(r.Context(), []byte(raw)); err != nil {
			h.logger.Error("interaction processing failed", "error", err)
		}
	}
	writeText(w, http.StatusOK, "Acknowledged")
}

// handleOptionsLoad is a stub for external_select option loading.
func (h *Handler) handleOptionsLoad(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "Acknowledged")
}

// intakeRequest is the direct-invocation input: either a control-plane
// action or an alert record.
type intakeRequest struct {
	Action             string `json:"action,omitempty"`
	Identifier         string `json:"identifier"`
	Alert              string `json:"alert"`
	Summary            string `json:"summary"`
	User               string `json:"user"`
	IdentityConfidence string `json:"identityConfidence"`
}

// handleAlert is the alert intake. Domain failures come back inside the JSON
// result payload rather than as HTTP errors, mirroring a direct invocation
// surface where the caller inspects the result.
func (h *Handler) handleAlert(w http.ResponseWriter, r *http.Request) {
	var req intakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apierror.BadRequest("invalid intake payload"))
		return
	}

	if req.Action == "discover-queue-url" {
		writeJSON(w, http.StatusOK, map[string]string{
			"queueUrl": h.publisher.QueueLocation(),
		})
		return
	}

	alert := model.AlertRequest{
		Identifier: req.Identifier,
		Alert:      req.Alert,
		Summary:    req.Summary,
		Email:      req.User,
		Confidence: model.ParseConfidence(req.IdentityConfidence),
	}

	receipt, err := h.triage.HandleAlert(r.Context(), alert)
	if err != nil {
		h.logger.Error("alert intake failed",
			"identifier", req.Identifier,
			"error", err,
		)
		writeJSON(w, http.StatusOK, intakeFailure(err))
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// intakeFailure shapes a domain error into the intake result payload.
func intakeFailure(err error) *apierror.Error {
	var resErr *model.ResolutionError
	var delErr *model.DeliveryError
	var credErr *model.CredentialError
	switch {
	case errors.As(err, &resErr):
		return apierror.WithDetail(http.StatusBadGateway, "recipient resolution failed", resErr.Error())
	case errors.As(err, &delErr):
		return apierror.WithDetail(http.StatusBadGateway, "message delivery failed", delErr.Error())
	case errors.As(err, &credErr):
		return apierror.WithDetail(http.StatusBadGateway, "credential unavailable", credErr.Error())
	default:
		return apierror.WithDetail(http.StatusInternalServerError, "alert intake failed", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
