package template_test

import (
	"strings"
	"testing"

	slackapi "github.com/slack-go/slack"

	"github.com/mozilla/triage-bot/internal/adapter/outbound/slack/template"
	"github.com/mozilla/triage-bot/internal/domain/model"
)

func originalBlocks(t *testing.T) slackapi.Blocks {
	t.Helper()
	blocks, err := template.BuildTriageBlocks(buildRequest(model.ConfidenceModerate), recipient)
	if err != nil {
		t.Fatalf("BuildTriageBlocks: %v", err)
	}
	return slackapi.Blocks{BlockSet: blocks}
}

func responseBlocks(t *testing.T, blocks slackapi.Blocks) []*slackapi.SectionBlock {
	t.Helper()
	var found []*slackapi.SectionBlock
	for _, b := range blocks.BlockSet {
		if s, ok := b.(*slackapi.SectionBlock); ok && s.BlockID == template.BlockIDResponse {
			found = append(found, s)
		}
	}
	return found
}

func TestUpsertResponse_AppendsOnFirstAnswer(t *testing.T) {
	original := originalBlocks(t)
	updated := template.UpsertResponse(original, model.ChoiceYes)

	if len(updated.BlockSet) != len(original.BlockSet)+1 {
		t.Fatalf("expected one appended block, got %d -> %d", len(original.BlockSet), len(updated.BlockSet))
	}

	found := responseBlocks(t, updated)
	if len(found) != 1 {
		t.Fatalf("expected exactly one response block, got %d", len(found))
	}
	if found[0].Text.Text != template.AcknowledgmentText(model.ChoiceYes) {
		t.Errorf("response text = %q", found[0].Text.Text)
	}
	if strings.HasPrefix(found[0].Text.Text, "You've changed your mind") {
		t.Error("first answer must not carry the changed-mind prefix")
	}
}

func TestUpsertResponse_SecondAnswerReplacesInPlace(t *testing.T) {
	original := originalBlocks(t)
	once := template.UpsertResponse(original, model.ChoiceYes)
	twice := template.UpsertResponse(once, model.ChoiceNo)

	if len(twice.BlockSet) != len(once.BlockSet) {
		t.Fatalf("second answer must not grow the block list: %d -> %d", len(once.BlockSet), len(twice.BlockSet))
	}

	found := responseBlocks(t, twice)
	if len(found) != 1 {
		t.Fatalf("expected exactly one response block, got %d", len(found))
	}

	want := "You've changed your mind, no problem. " + template.AcknowledgmentText(model.ChoiceNo)
	if found[0].Text.Text != want {
		t.Errorf("revised response = %q, want %q", found[0].Text.Text, want)
	}

	// Position is stable: the response block stays at the same ordinal.
	lastOnce := once.BlockSet[len(once.BlockSet)-1]
	lastTwice := twice.BlockSet[len(twice.BlockSet)-1]
	if blockIDOf(lastOnce) != template.BlockIDResponse || blockIDOf(lastTwice) != template.BlockIDResponse {
		t.Error("response block moved between applications")
	}
}

func TestUpsertResponse_DoesNotMutateInput(t *testing.T) {
	original := originalBlocks(t)
	before := len(original.BlockSet)

	_ = template.UpsertResponse(original, model.ChoiceNotSure)

	if len(original.BlockSet) != before {
		t.Errorf("input blocks mutated: %d -> %d", before, len(original.BlockSet))
	}
	if len(responseBlocks(t, original)) != 0 {
		t.Error("input blocks gained a response block")
	}
}

func TestAcknowledgmentText_UnknownChoiceFallsBack(t *testing.T) {
	got := template.AcknowledgmentText(model.Choice("shrug"))
	if !strings.Contains(got, "internal error") {
		t.Errorf("unknown choice should map to the internal-error text, got %q", got)
	}
}

func TestAcknowledgmentText_KnownChoices(t *testing.T) {
	cases := map[model.Choice]string{
		model.ChoiceYes:       "thanks for letting us know",
		model.ChoiceNo:        "contact you to follow up",
		model.ChoiceWrongUser: "contact the right user",
		model.ChoiceNotSure:   "No problem",
	}
	for choice, fragment := range cases {
		if got := template.AcknowledgmentText(choice); !strings.Contains(got, fragment) {
			t.Errorf("AcknowledgmentText(%v) = %q, want fragment %q", choice, got, fragment)
		}
	}
}

func blockIDOf(b slackapi.Block) string {
	if s, ok := b.(*slackapi.SectionBlock); ok {
		return s.BlockID
	}
	return ""
}
