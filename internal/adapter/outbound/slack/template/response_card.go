package template

import (
	slackapi "github.com/slack-go/slack"

	"github.com/mozilla/triage-bot/internal/domain/model"
)

// changedMindPrefix marks a revised answer: the recipient already answered
// once and the message already carries a response block.
const changedMindPrefix = "You've changed your mind, no problem. "

// AcknowledgmentText maps a recipient's choice to the canonical reply text.
// An unrecognized choice gets the internal-error text rather than failing:
// by the time we are composing a reply the click has already happened.
func AcknowledgmentText(choice model.Choice) string {
	switch choice {
	case model.ChoiceYes:
		return ":heavy_check_mark: Understood, thanks for letting us know."
	case model.ChoiceNo:
		return ":open_mouth: Got it, thank you. Someone from the security team " +
			"will contact you to follow up on this."
	case model.ChoiceWrongUser:
		return ":flushed: Oh, sorry about that. Someone from the security team " +
			"will look into this and contact the right user. Sorry to bother you."
	case model.ChoiceNotSure:
		return ":ok_hand: No problem. Someone from the security team will " +
			"contact you to follow up on this."
	}
	return ":heavy_multiplication_x: Hmm, I had some kind of internal error. " +
		"Would you contact the security team to let them know that I'm unwell?"
}

// UpsertResponse merges the acknowledgment for a choice into the original
// message's block list. If a response block is already present it is replaced
// in place at the same position, with the changed-mind prefix signalling a
// revised answer; otherwise a new response block is appended. The result
// never holds more than one response block.
func UpsertResponse(blocks slackapi.Blocks, choice model.Choice) slackapi.Blocks {
	text := AcknowledgmentText(choice)
	if hasResponseBlock(blocks) {
		text = changedMindPrefix + text
	}

	response := slackapi.NewSectionBlock(
		slackapi.NewTextBlockObject(slackapi.MarkdownType, text, false, false),
		nil, nil,
		slackapi.SectionBlockOptionBlockID(BlockIDResponse),
	)

	out := make([]slackapi.Block, len(blocks.BlockSet))
	copy(out, blocks.BlockSet)
	for i, b := range out {
		if blockID(b) == BlockIDResponse {
			out[i] = response
			return slackapi.Blocks{BlockSet: out}
		}
	}
	return slackapi.Blocks{BlockSet: append(out, response)}
}

func hasResponseBlock(blocks slackapi.Blocks) bool {
	for _, b := range blocks.BlockSet {
		if blockID(b) == BlockIDResponse {
			return true
		}
	}
	return false
}

// blockID pulls the block_id out of the block variants a triage message can
// contain.
func blockID(b slackapi.Block) string {
	switch v := b.(type) {
	case *slackapi.SectionBlock:
		return v.BlockID
	case *slackapi.ActionBlock:
		return v.BlockID
	case *slackapi.ContextBlock:
		return v.BlockID
	case *slackapi.DividerBlock:
		return v.BlockID
	default:
		return ""
	}
}
