package models

const (
	// SubtypeAssistantAppThread marks the synthetic root message Slack creates when an assistant thread starts
	SubtypeAssistantAppThread = "assistant_app_thread"
	SubtypeBotMessage         = "bot_message"
)

type AuthorKind string

const (
	AuthorKindHuman AuthorKind = "human"
	AuthorKindBot   AuthorKind = "bot"
)

// ThreadMessage is one message of a Slack thread as returned by conversations.replies
type ThreadMessage struct {
	TS         string
	AuthorKind AuthorKind
	UserID     string
	Text       string
	SubType    string
	Metadata   *MessageMetadata
}

// IsBot reports whether the message was authored by a bot
func (m ThreadMessage) IsBot() bool {
	return m.AuthorKind == AuthorKindBot
}

type PromptRole string

const (
	PromptRoleSystem    PromptRole = "system"
	PromptRoleUser      PromptRole = "user"
	PromptRoleAssistant PromptRole = "assistant"
)

// PromptMessage is a role-tagged chat completion message
type PromptMessage struct {
	Role    PromptRole `json:"role"`
	Content string     `json:"content"`
}
