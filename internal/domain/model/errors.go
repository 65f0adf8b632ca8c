package model

import (
	"errors"
	"fmt"
)

// FailureKind distinguishes a Slack call that never completed from one the
// API completed and rejected (ok:false). Callers respond differently to each.
type FailureKind string

const (
	FailureTransport FailureKind = "transport"
	FailureRejected  FailureKind = "rejected"
)

// ErrUnsupportedInteraction marks an interaction payload of a type the relay
// does not handle. Logged and ignored, never fatal.
var ErrUnsupportedInteraction = errors.New("unsupported interaction type")

// ResolutionError means the recipient's email could not be mapped to a Slack
// identity. Non-retryable within the request; the alert must fail loudly
// rather than be dropped.
type ResolutionError struct {
	Email string
	Err   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving slack user for %s: %v", e.Email, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// DeliveryError means posting the triage message to Slack failed, either in
// transport or as an application-level rejection.
type DeliveryError struct {
	Kind FailureKind
	Op   string
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("slack %s failed (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// PublishError means the single-attempt POST of the replacement message to
// the interaction's callback URL failed. No retry is permitted: the round
// trip must finish inside Slack's short response window.
type PublishError struct {
	Destination string
	StatusCode  int
	Body        string
	Err         error
}

func (e *PublishError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("publishing response to %s: status %d: %s", e.Destination, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("publishing response to %s: %v", e.Destination, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// MalformedActionError means a block action arrived without a value field.
type MalformedActionError struct {
	ActionID string
}

func (e *MalformedActionError) Error() string {
	return fmt.Sprintf("action %q has no value", e.ActionID)
}

// PayloadDecodeError means a button value was present but not valid
// DecisionPayload JSON: the composer and decoder have drifted out of sync.
type PayloadDecodeError struct {
	Value string
	Err   error
}

func (e *PayloadDecodeError) Error() string {
	return fmt.Sprintf("decoding button value %q: %v", e.Value, e.Err)
}

func (e *PayloadDecodeError) Unwrap() error { return e.Err }

// CredentialError means the OAuth access token for a client id is missing or
// unreadable. Propagated as-is; this service never auto-refreshes tokens.
type CredentialError struct {
	ClientID string
	Err      error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("access token for client %s: %v", e.ClientID, e.Err)
}

func (e *CredentialError) Unwrap() error { return e.Err }
