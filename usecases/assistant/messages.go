package assistant

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"slackassistant/core"
	"slackassistant/models"
)

const (
	randomNumbersStatus   = "Generating a list of random numbers..."
	maxRandomNumbers      = 100
	randomNumbersRangeMin = 1
	randomNumbersRangeMax = 100
)

// HandleUserMessage runs the first matching route, or the completion pipeline when none matches
func (u *AssistantUseCase) HandleUserMessage(ctx context.Context, event models.AssistantEvent, utils AssistantUtilities) error {
	if route, ok := u.matchRoute(event); ok {
		log.Printf("🔀 Message in thread %s matched route %s", event.ThreadTS, route.Name)
		return route.Handle(ctx, event, utils)
	}
	return u.respondWithCompletion(ctx, event, utils)
}

func (u *AssistantUseCase) respondWithCompletion(ctx context.Context, event models.AssistantEvent, utils AssistantUtilities) error {
	if err := utils.SetStatus(ctx, TypingStatus); err != nil {
		return err
	}

	if !u.completionService.IsConfigured() {
		log.Printf("⚠️ Completion provider is not configured, sending fallback reply")
		return utils.Say(ctx, Text(NotConfiguredReply))
	}

	history, err := u.slackClient.GetThreadReplies(ctx, event.ChannelID, event.ThreadTS)
	if err != nil {
		return fmt.Errorf("failed to fetch thread replies: %w", err)
	}

	reply, err := u.completionService.GenerateReply(ctx, history)
	if err != nil {
		if core.IsNotConfiguredError(err) {
			return utils.Say(ctx, Text(NotConfiguredReply))
		}
		return fmt.Errorf("failed to generate reply: %w", err)
	}

	return utils.Say(ctx, Text(reply))
}

// HandleBotMessage reacts to the bot's own messages only when they carry a known metadata tag;
// everything else is ignored so the bot never answers itself in a loop
func (u *AssistantUseCase) HandleBotMessage(ctx context.Context, event models.AssistantEvent, utils AssistantUtilities) error {
	if event.Metadata == nil || event.Metadata.EventType != MetadataGenerateRandomNumbers {
		return nil
	}

	count, ok := event.Metadata.IntValue(RandomNumbersPayloadKey)
	if !ok || count < 1 || count > maxRandomNumbers {
		return fmt.Errorf("random numbers count must be between 1 and %d: %w", maxRandomNumbers, core.ErrInvalidPayload)
	}

	if err := utils.SetStatus(ctx, randomNumbersStatus); err != nil {
		return err
	}
	if err := sleepContext(ctx, u.randomNumbersDelay); err != nil {
		return fmt.Errorf("random numbers generation interrupted: %w", err)
	}

	numbers, err := uniqueRandomInts(count, randomNumbersRangeMin, randomNumbersRangeMax, u.intN)
	if err != nil {
		return err
	}
	return utils.Say(ctx, Text("Here you go: "+joinInts(numbers)))
}

// HandleAppMention points users mentioning the bot in a channel to the assistant DM
func (u *AssistantUseCase) HandleAppMention(ctx context.Context, event models.AssistantEvent, utils AssistantUtilities) error {
	return utils.Say(ctx, Text(AppMentionReply))
}

func joinInts(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
