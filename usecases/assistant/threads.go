package assistant

import (
	"context"
	"fmt"
	"log"

	"github.com/slack-go/slack"

	"slackassistant/clients"
	"slackassistant/models"
)

// HandleThreadStarted greets the user and offers the random numbers button
func (u *AssistantUseCase) HandleThreadStarted(ctx context.Context, event models.AssistantEvent, utils AssistantUtilities) error {
	if err := utils.Say(ctx, clients.SlackMessageParams{
		Text:   GreetingText,
		Blocks: greetingBlocks(),
	}); err != nil {
		return fmt.Errorf("failed to send greeting: %w", err)
	}

	if len(u.suggestedPrompts) == 0 {
		return nil
	}
	if err := utils.SetSuggestedPrompts(ctx, SuggestedPromptsTitle, u.suggestedPrompts); err != nil {
		return fmt.Errorf("failed to set suggested prompts: %w", err)
	}
	return nil
}

// HandleThreadContextChanged only records the channel the user is now looking at
func (u *AssistantUseCase) HandleThreadContextChanged(ctx context.Context, event models.AssistantEvent, utils AssistantUtilities) error {
	log.Printf("🔄 Assistant thread %s context changed (user: %s)", event.ThreadTS, event.UserID)
	return nil
}

func greetingBlocks() []slack.Block {
	button := slack.NewButtonBlockElement(
		ActionGenerateRandomNumbers,
		"1",
		slack.NewTextBlockObject(slack.PlainTextType, GenerateRandomNumbersText, false, false),
	)

	return []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, GreetingText, false, false), nil, nil),
		slack.NewActionBlock("", button),
	}
}
