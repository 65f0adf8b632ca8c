package template

import (
	"fmt"

	slackapi "github.com/slack-go/slack"

	"github.com/mozilla/triage-bot/internal/domain/model"
)

const (
	BlockIDQuestion = "triage-bot-question"
	BlockIDAnswer   = "triage-bot-answer"
	BlockIDResponse = "triage-bot-response"

	ActionIDYes       = "triage-bot-yes"
	ActionIDNo        = "triage-bot-no"
	ActionIDWrongUser = "triage-bot-wronguser"
	ActionIDNotSure   = "triage-bot-notsure"
)

// BuildTriageBlocks constructs the interactive triage message for an alert.
// Button order is fixed: yes, no, wronguser (only when confidence is weak
// enough), notsure. Every button value carries the full DecisionPayload
// tagged with that button's choice, so the click alone reconstructs the
// whole request.
func BuildTriageBlocks(req model.AlertRequest, rcpt model.RecipientIdentity) ([]slackapi.Block, error) {
	payload := model.DecisionPayload{
		Identifier: req.Identifier,
		Email:      req.Email,
		SlackName:  rcpt.Name,
		Alert:      req.Alert,
		Confidence: req.Confidence,
	}

	question := slackapi.NewSectionBlock(
		slackapi.NewTextBlockObject(slackapi.MarkdownType,
			fmt.Sprintf("%s\nWas this action taken by you (%s)?", req.Summary, req.Email),
			false, false),
		nil, nil,
		slackapi.SectionBlockOptionBlockID(BlockIDQuestion),
	)

	yesValue, err := payload.WithChoice(model.ChoiceYes).Encode()
	if err != nil {
		return nil, fmt.Errorf("encoding yes payload: %w", err)
	}
	yesBtn := slackapi.NewButtonBlockElement(ActionIDYes, yesValue,
		slackapi.NewTextBlockObject(slackapi.PlainTextType, "Yes, I did that", false, false))
	yesBtn.Style = slackapi.StylePrimary

	noValue, err := payload.WithChoice(model.ChoiceNo).Encode()
	if err != nil {
		return nil, fmt.Errorf("encoding no payload: %w", err)
	}
	noBtn := slackapi.NewButtonBlockElement(ActionIDNo, noValue,
		slackapi.NewTextBlockObject(slackapi.PlainTextType, "No, I didn't do that!", false, false))
	noBtn.Style = slackapi.StyleDanger
	noBtn.Confirm = slackapi.NewConfirmationBlockObject(
		slackapi.NewTextBlockObject(slackapi.PlainTextType, "Are you sure?", false, false),
		slackapi.NewTextBlockObject(slackapi.MarkdownType,
			"Are you sure that you didn't take that action? If you're sure then "+
				"someone in the security team will contact you to follow up.",
			false, false),
		slackapi.NewTextBlockObject(slackapi.PlainTextType, "Ya, I didn't take that action", false, false),
		slackapi.NewTextBlockObject(slackapi.PlainTextType, "Oh, nevermind, I did do that", false, false),
	)

	elements := []slackapi.BlockElement{yesBtn, noBtn}

	if req.Confidence.OffersWrongUser() {
		wrongValue, err := payload.WithChoice(model.ChoiceWrongUser).Encode()
		if err != nil {
			return nil, fmt.Errorf("encoding wronguser payload: %w", err)
		}
		wrongBtn := slackapi.NewButtonBlockElement(ActionIDWrongUser, wrongValue,
			slackapi.NewTextBlockObject(slackapi.PlainTextType, "You've got the wrong person", false, false))
		wrongBtn.Confirm = slackapi.NewConfirmationBlockObject(
			slackapi.NewTextBlockObject(slackapi.PlainTextType, "Are you sure?", false, false),
			slackapi.NewTextBlockObject(slackapi.MarkdownType,
				fmt.Sprintf("Are you sure that %s isn't you and we've sent this alert to the wrong user?", req.Email),
				false, false),
			slackapi.NewTextBlockObject(slackapi.PlainTextType, "Ya, that's not me", false, false),
			slackapi.NewTextBlockObject(slackapi.PlainTextType, "Oh, actually that is me", false, false),
		)
		elements = append(elements, wrongBtn)
	}

	notSureValue, err := payload.WithChoice(model.ChoiceNotSure).Encode()
	if err != nil {
		return nil, fmt.Errorf("encoding notsure payload: %w", err)
	}
	notSureBtn := slackapi.NewButtonBlockElement(ActionIDNotSure, notSureValue,
		slackapi.NewTextBlockObject(slackapi.PlainTextType, "Hmm... I'm not sure", false, false))
	elements = append(elements, notSureBtn)

	return []slackapi.Block{
		question,
		slackapi.NewActionBlock(BlockIDAnswer, elements...),
	}, nil
}
