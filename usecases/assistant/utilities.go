package assistant

import (
	"context"
	"fmt"

	"github.com/samber/mo"

	"slackassistant/clients"
	"slackassistant/core"
	"slackassistant/models"
)

// AssistantUtilities bundles the Slack side channels available to one handler invocation.
// Every function is bound to the channel and thread of the event being handled.
type AssistantUtilities struct {
	Say                 func(ctx context.Context, params clients.SlackMessageParams) error
	SetStatus           func(ctx context.Context, status string) error
	SetTitle            func(ctx context.Context, title string) error
	SetSuggestedPrompts func(ctx context.Context, title string, prompts []models.SuggestedPrompt) error
}

// Text builds plain message params
func Text(text string) clients.SlackMessageParams {
	return clients.SlackMessageParams{Text: text}
}

// NewUtilities scopes the Slack client to a single channel and thread.
// An empty threadTS posts top-level messages and turns the thread-only calls into errors.
func (u *AssistantUseCase) NewUtilities(channelID, threadTS string) AssistantUtilities {
	requireThread := func(op string) error {
		if threadTS == "" {
			return fmt.Errorf("cannot %s outside an assistant thread: %w", op, core.ErrNoThread)
		}
		return nil
	}

	return AssistantUtilities{
		Say: func(ctx context.Context, params clients.SlackMessageParams) error {
			if threadTS != "" && !params.ThreadTS.IsPresent() {
				params.ThreadTS = mo.Some(threadTS)
			}
			if _, err := u.slackClient.PostMessage(ctx, channelID, params); err != nil {
				return fmt.Errorf("failed to post message to %s: %w", channelID, err)
			}
			return nil
		},
		SetStatus: func(ctx context.Context, status string) error {
			if err := requireThread("set status"); err != nil {
				return err
			}
			if err := u.slackClient.SetAssistantStatus(ctx, channelID, threadTS, status); err != nil {
				return fmt.Errorf("failed to set assistant status: %w", err)
			}
			return nil
		},
		SetTitle: func(ctx context.Context, title string) error {
			if err := requireThread("set title"); err != nil {
				return err
			}
			if err := u.slackClient.SetAssistantTitle(ctx, channelID, threadTS, title); err != nil {
				return fmt.Errorf("failed to set assistant title: %w", err)
			}
			return nil
		},
		SetSuggestedPrompts: func(ctx context.Context, title string, prompts []models.SuggestedPrompt) error {
			if err := requireThread("set suggested prompts"); err != nil {
				return err
			}
			if err := u.slackClient.SetAssistantSuggestedPrompts(ctx, channelID, threadTS, title, prompts); err != nil {
				return fmt.Errorf("failed to set suggested prompts: %w", err)
			}
			return nil
		},
	}
}
