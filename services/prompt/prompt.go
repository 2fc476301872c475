package prompt

import (
	"strings"

	"slackassistant/models"
)

// TokenEstimator returns the estimated token cost of one message's content
type TokenEstimator func(content string) int

// BuildPrompt turns a raw Slack thread into a chat completion prompt.
//
// The thread-start placeholder and empty messages are dropped, bot messages become
// assistant turns and everything else user turns. The system instruction is always the
// single first entry, and assistant turns preceding the first user turn (the opening
// greeting) are never replayed.
func BuildPrompt(raw []models.ThreadMessage, systemInstruction string) []models.PromptMessage {
	messages := make([]models.PromptMessage, 0, len(raw)+1)
	messages = append(messages, models.PromptMessage{
		Role:    models.PromptRoleSystem,
		Content: systemInstruction,
	})

	for _, msg := range raw {
		if msg.SubType == models.SubtypeAssistantAppThread {
			continue
		}
		if strings.TrimSpace(msg.Text) == "" {
			continue
		}

		role := models.PromptRoleUser
		if msg.IsBot() {
			role = models.PromptRoleAssistant
		}
		messages = append(messages, models.PromptMessage{
			Role:    role,
			Content: msg.Text,
		})
	}

	return dropLeadingAssistant(messages)
}

// Trim drops the oldest non-system entries until the prompt fits budget tokens.
// The system entry and the newest entry are always kept, so a prompt may remain over
// budget when those two alone exceed it.
func Trim(messages []models.PromptMessage, budget int, estimate TokenEstimator) []models.PromptMessage {
	if len(messages) == 0 {
		return messages
	}

	total := 0
	for _, msg := range messages {
		total += estimate(msg.Content)
	}

	system := messages[0]
	rest := messages[1:]
	for total > budget && len(rest) > 1 {
		total -= estimate(rest[0].Content)
		rest = rest[1:]
	}

	trimmed := make([]models.PromptMessage, 0, len(rest)+1)
	trimmed = append(trimmed, system)
	trimmed = append(trimmed, rest...)
	return dropLeadingAssistant(trimmed)
}

// dropLeadingAssistant removes assistant entries directly after the system entry
func dropLeadingAssistant(messages []models.PromptMessage) []models.PromptMessage {
	firstKept := 1
	for firstKept < len(messages) && messages[firstKept].Role == models.PromptRoleAssistant {
		firstKept++
	}
	if firstKept == 1 {
		return messages
	}
	return append(messages[:1], messages[firstKept:]...)
}
