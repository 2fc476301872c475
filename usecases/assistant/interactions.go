package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/samber/mo"
	"github.com/slack-go/slack"

	"slackassistant/clients"
	"slackassistant/core"
	"slackassistant/models"
)

var randomNumberChoices = []string{"5", "10", "20"}

// HandleBlockAction opens the random numbers modal from the greeting button
func (u *AssistantUseCase) HandleBlockAction(ctx context.Context, event models.AssistantEvent, utils AssistantUtilities) error {
	if event.Action == nil || event.Action.ActionID != ActionGenerateRandomNumbers {
		log.Printf("⚠️ Ignoring unknown block action in thread %s", event.ThreadTS)
		return nil
	}
	if event.Action.TriggerID == "" || event.ChannelID == "" || event.ThreadTS == "" {
		return fmt.Errorf("block action is missing trigger_id, channel or thread: %w", core.ErrInvalidPayload)
	}

	view, err := randomNumbersModal(models.ThreadRef{ChannelID: event.ChannelID, ThreadTS: event.ThreadTS})
	if err != nil {
		return err
	}
	if err := u.slackClient.OpenView(ctx, event.Action.TriggerID, view); err != nil {
		return fmt.Errorf("failed to open random numbers modal: %w", err)
	}
	return nil
}

// HandleViewSubmission posts the chosen count into the originating thread. The metadata on that
// message is what HandleBotMessage picks up to produce the numbers.
func (u *AssistantUseCase) HandleViewSubmission(ctx context.Context, event models.AssistantEvent, utils AssistantUtilities) error {
	if event.View == nil || event.View.CallbackID != CallbackConfigureRandomNumbers {
		log.Printf("⚠️ Ignoring unknown view submission")
		return nil
	}

	ref, err := models.ParseThreadRef(event.View.PrivateMetadata)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidPayload, err)
	}

	raw, ok := event.View.Value(RandomNumbersBlockID, RandomNumbersActionID)
	if !ok {
		return fmt.Errorf("view submission has no selected count: %w", core.ErrInvalidPayload)
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count < 1 || count > maxRandomNumbers {
		return fmt.Errorf("invalid random numbers count %q: %w", raw, core.ErrInvalidPayload)
	}

	_, err = u.slackClient.PostMessage(ctx, ref.ChannelID, clients.SlackMessageParams{
		Text:     fmt.Sprintf("%d random numbers, one moment!", count),
		ThreadTS: mo.Some(ref.ThreadTS),
		Metadata: mo.Some(models.MessageMetadata{
			EventType:    MetadataGenerateRandomNumbers,
			EventPayload: map[string]any{RandomNumbersPayloadKey: count},
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to post random numbers request: %w", err)
	}
	return nil
}

func plainText(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, false, false)
}

func randomNumbersModal(ref models.ThreadRef) (slack.ModalViewRequest, error) {
	privateMetadata, err := json.Marshal(ref)
	if err != nil {
		return slack.ModalViewRequest{}, fmt.Errorf("failed to encode thread reference: %w", err)
	}

	options := make([]*slack.OptionBlockObject, 0, len(randomNumberChoices))
	for _, choice := range randomNumberChoices {
		options = append(options, slack.NewOptionBlockObject(choice, plainText(choice), nil))
	}
	selectElement := slack.NewOptionsSelectBlockElement(
		slack.OptTypeStatic,
		plainText("How many random numbers should I generate?"),
		RandomNumbersActionID,
		options...,
	)
	selectElement.InitialOption = options[0]

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      CallbackConfigureRandomNumbers,
		Title:           plainText("My Assistant"),
		Submit:          plainText("Submit"),
		Close:           plainText("Cancel"),
		PrivateMetadata: string(privateMetadata),
		Blocks: slack.Blocks{
			BlockSet: []slack.Block{
				slack.NewInputBlock(RandomNumbersBlockID, plainText("How many random numbers?"), nil, selectElement),
			},
		},
	}, nil
}
