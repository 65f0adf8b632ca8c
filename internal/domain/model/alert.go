package model

// ConfidenceLevel is the upstream alerting system's certainty that the alert's
// subject is the person we are about to message.
type ConfidenceLevel string

const (
	ConfidenceHigh     ConfidenceLevel = "high"
	ConfidenceModerate ConfidenceLevel = "moderate"
	ConfidenceLow      ConfidenceLevel = "low"
	ConfidenceLowest   ConfidenceLevel = "lowest"
	ConfidenceUnknown  ConfidenceLevel = "unknown"
)

// ParseConfidence maps the upstream identityConfidence value to a
// ConfidenceLevel, defaulting to unknown for anything unrecognized.
func ParseConfidence(s string) ConfidenceLevel {
	switch ConfidenceLevel(s) {
	case ConfidenceHigh, ConfidenceModerate, ConfidenceLow, ConfidenceLowest:
		return ConfidenceLevel(s)
	}
	return ConfidenceUnknown
}

// OffersWrongUser reports whether the confidence is weak enough that the
// recipient should be offered a "you've got the wrong person" answer.
func (c ConfidenceLevel) OffersWrongUser() bool {
	switch c {
	case ConfidenceModerate, ConfidenceLow, ConfidenceLowest:
		return true
	}
	return false
}

// AlertRequest is one inbound security alert to relay to a human. Immutable;
// created per intake call and discarded once the message is delivered.
type AlertRequest struct {
	Identifier string          `json:"identifier"`
	Alert      string          `json:"alert"`
	Summary    string          `json:"summary"`
	Email      string          `json:"user"`
	Confidence ConfidenceLevel `json:"identityConfidence"`
}

// RecipientIdentity is the messaging-platform identity resolved from an
// AlertRequest's email. Resolved once per request, never cached.
type RecipientIdentity struct {
	ID   string
	Name string
}
