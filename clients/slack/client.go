package slack

import (
	"context"

	"github.com/slack-go/slack"

	"slackassistant/clients"
	"slackassistant/models"
)

// repliesPageSize is the conversations.replies page size
const repliesPageSize = 200

// SlackClient implements the clients.SlackClient interface using the slack-go/slack SDK
type SlackClient struct {
	*slack.Client
}

// NewSlackClient creates a new Slack client with the provided bot token
func NewSlackClient(botToken string, options ...slack.Option) clients.SlackClient {
	return &SlackClient{
		Client: slack.New(botToken, options...),
	}
}

// AuthTest verifies the bot token and returns information about the bot
func (c *SlackClient) AuthTest(ctx context.Context) (*clients.SlackAuthTestResponse, error) {
	response, err := c.Client.AuthTestContext(ctx)
	if err != nil {
		return nil, err
	}

	return &clients.SlackAuthTestResponse{
		UserID: response.UserID,
		BotID:  response.BotID,
		TeamID: response.TeamID,
	}, nil
}

// PostMessage sends a message to a Slack channel or thread
func (c *SlackClient) PostMessage(
	ctx context.Context,
	channelID string,
	params clients.SlackMessageParams,
) (*clients.SlackPostMessageResponse, error) {
	var sdkOptions []slack.MsgOption
	if params.Text != "" {
		sdkOptions = append(sdkOptions, slack.MsgOptionText(params.Text, false))
	}
	if len(params.Blocks) > 0 {
		sdkOptions = append(sdkOptions, slack.MsgOptionBlocks(params.Blocks...))
	}
	if threadTS, ok := params.ThreadTS.Get(); ok && threadTS != "" {
		sdkOptions = append(sdkOptions, slack.MsgOptionTS(threadTS))
	}
	if metadata, ok := params.Metadata.Get(); ok {
		sdkOptions = append(sdkOptions, slack.MsgOptionMetadata(slack.SlackMetadata{
			EventType:    metadata.EventType,
			EventPayload: metadata.EventPayload,
		}))
	}

	channel, timestamp, err := c.Client.PostMessageContext(ctx, channelID, sdkOptions...)
	if err != nil {
		return nil, err
	}

	return &clients.SlackPostMessageResponse{
		Channel:   channel,
		Timestamp: timestamp,
	}, nil
}

// GetThreadReplies fetches every message of a thread, root first
func (c *SlackClient) GetThreadReplies(ctx context.Context, channelID, threadTS string) ([]models.ThreadMessage, error) {
	var messages []models.ThreadMessage
	cursor := ""
	for {
		replies, hasMore, nextCursor, err := c.Client.GetConversationRepliesContext(ctx, &slack.GetConversationRepliesParameters{
			ChannelID:          channelID,
			Timestamp:          threadTS,
			Cursor:             cursor,
			Limit:              repliesPageSize,
			IncludeAllMetadata: true,
		})
		if err != nil {
			return nil, err
		}

		for _, reply := range replies {
			messages = append(messages, toThreadMessage(reply))
		}

		if !hasMore || nextCursor == "" {
			return messages, nil
		}
		cursor = nextCursor
	}
}

// OpenView opens a modal for the given interaction trigger
func (c *SlackClient) OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	_, err := c.Client.OpenViewContext(ctx, triggerID, view)
	return err
}

// SetAssistantStatus sets the "is typing"-style status of an assistant thread
func (c *SlackClient) SetAssistantStatus(ctx context.Context, channelID, threadTS, status string) error {
	return c.Client.SetAssistantThreadsStatusContext(ctx, slack.AssistantThreadsSetStatusParameters{
		ChannelID: channelID,
		ThreadTS:  threadTS,
		Status:    status,
	})
}

// SetAssistantTitle sets the title of an assistant thread
func (c *SlackClient) SetAssistantTitle(ctx context.Context, channelID, threadTS, title string) error {
	return c.Client.SetAssistantThreadsTitleContext(ctx, slack.AssistantThreadsSetTitleParameters{
		ChannelID: channelID,
		ThreadTS:  threadTS,
		Title:     title,
	})
}

// SetAssistantSuggestedPrompts sets the suggested prompt buttons of an assistant thread
func (c *SlackClient) SetAssistantSuggestedPrompts(
	ctx context.Context,
	channelID, threadTS, title string,
	prompts []models.SuggestedPrompt,
) error {
	sdkPrompts := make([]slack.AssistantThreadsPrompt, 0, len(prompts))
	for _, prompt := range prompts {
		sdkPrompts = append(sdkPrompts, slack.AssistantThreadsPrompt{
			Title:   prompt.Title,
			Message: prompt.Message,
		})
	}

	return c.Client.SetAssistantThreadsSuggestedPromptsContext(ctx, slack.AssistantThreadsSetSuggestedPromptsParameters{
		ChannelID: channelID,
		ThreadTS:  threadTS,
		Title:     title,
		Prompts:   sdkPrompts,
	})
}

func toThreadMessage(msg slack.Message) models.ThreadMessage {
	authorKind := models.AuthorKindHuman
	if msg.BotID != "" || msg.SubType == models.SubtypeBotMessage {
		authorKind = models.AuthorKindBot
	}

	threadMessage := models.ThreadMessage{
		TS:         msg.Timestamp,
		AuthorKind: authorKind,
		UserID:     msg.User,
		Text:       msg.Text,
		SubType:    msg.SubType,
	}
	if msg.Metadata.EventType != "" {
		threadMessage.Metadata = &models.MessageMetadata{
			EventType:    msg.Metadata.EventType,
			EventPayload: msg.Metadata.EventPayload,
		}
	}
	return threadMessage
}
