package model

import "encoding/json"

// Choice is the answer a recipient picks on the triage message.
type Choice string

const (
	ChoiceYes       Choice = "yes"
	ChoiceNo        Choice = "no"
	ChoiceWrongUser Choice = "wronguser"
	ChoiceNotSure   Choice = "notsure"
)

// DecisionPayload is the state embedded verbatim in every action button's
// value and carried round-trip through the recipient's Slack client. It is
// the only state the relay keeps between sending a message and receiving the
// click; there is no server-side session.
//
// Payloads attached to buttons of one message are identical except Choice.
type DecisionPayload struct {
	Identifier string          `json:"identifier"`
	Email      string          `json:"email"`
	SlackName  string          `json:"slack_name"`
	Alert      string          `json:"alert"`
	Confidence ConfidenceLevel `json:"identity_confidence"`
	Choice     Choice          `json:"response"`
}

// WithChoice returns a copy of the payload tagged with the given choice.
func (p DecisionPayload) WithChoice(c Choice) DecisionPayload {
	p.Choice = c
	return p
}

// Encode serializes the payload to its button-value wire form.
func (p DecisionPayload) Encode() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeDecisionPayload parses a button value back into a DecisionPayload.
// A failure here means the composer and the decoder have drifted apart and
// must be surfaced, never swallowed.
func DecodeDecisionPayload(value string) (DecisionPayload, error) {
	var p DecisionPayload
	if err := json.Unmarshal([]byte(value), &p); err != nil {
		return DecisionPayload{}, &PayloadDecodeError{Value: value, Err: err}
	}
	return p, nil
}

// TriageEvent is the normalized record of a recipient's answer, handed to the
// downstream queue for asynchronous pickup by the alerting system.
type TriageEvent struct {
	Identifier  string
	Email       string
	SlackUserID string
	SlackName   string
	Confidence  ConfidenceLevel
	Choice      Choice
}
