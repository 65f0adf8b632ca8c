package model_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/mozilla/triage-bot/internal/domain/model"
)

func TestParseConfidence(t *testing.T) {
	cases := map[string]model.ConfidenceLevel{
		"high":     model.ConfidenceHigh,
		"moderate": model.ConfidenceModerate,
		"low":      model.ConfidenceLow,
		"lowest":   model.ConfidenceLowest,
		"unknown":  model.ConfidenceUnknown,
		"":         model.ConfidenceUnknown,
		"bogus":    model.ConfidenceUnknown,
	}
	for input, want := range cases {
		if got := model.ParseConfidence(input); got != want {
			t.Errorf("ParseConfidence(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestOffersWrongUser(t *testing.T) {
	weak := []model.ConfidenceLevel{model.ConfidenceModerate, model.ConfidenceLow, model.ConfidenceLowest}
	for _, c := range weak {
		if !c.OffersWrongUser() {
			t.Errorf("%v should offer the wronguser choice", c)
		}
	}
	strong := []model.ConfidenceLevel{model.ConfidenceHigh, model.ConfidenceUnknown}
	for _, c := range strong {
		if c.OffersWrongUser() {
			t.Errorf("%v should not offer the wronguser choice", c)
		}
	}
}

func TestDecisionPayload_RoundTrip(t *testing.T) {
	payload := model.DecisionPayload{
		Identifier: "9Zo900abcde",
		Email:      "jdoe@example.com",
		SlackName:  "jdoe",
		Alert:      "duo_bypass_generated",
		Confidence: model.ConfidenceModerate,
	}

	encoded, err := payload.WithChoice(model.ChoiceWrongUser).Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := model.DecodeDecisionPayload(encoded)
	if err != nil {
		t.Fatalf("DecodeDecisionPayload: %v", err)
	}

	want := payload.WithChoice(model.ChoiceWrongUser)
	if decoded != want {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, want)
	}
}

func TestDecisionPayload_WireKeys(t *testing.T) {
	encoded, err := model.DecisionPayload{
		Identifier: "id-1",
		Email:      "a@b.c",
		SlackName:  "ab",
		Alert:      "test_alert",
		Confidence: model.ConfidenceHigh,
		Choice:     model.ChoiceYes,
	}.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	for _, key := range []string{`"identifier"`, `"email"`, `"slack_name"`, `"alert"`, `"identity_confidence"`, `"response"`} {
		if !strings.Contains(encoded, key) {
			t.Errorf("encoded payload missing wire key %s: %s", key, encoded)
		}
	}
}

func TestDecodeDecisionPayload_Invalid(t *testing.T) {
	_, err := model.DecodeDecisionPayload("{not json")
	if err == nil {
		t.Fatal("expected decode error")
	}
	var decodeErr *model.PayloadDecodeError
	if !errors.As(err, &decodeErr) {
		t.Errorf("expected PayloadDecodeError, got %T", err)
	}
}
