package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type EventKind string

const (
	EventKindThreadStarted        EventKind = "thread_started"
	EventKindThreadContextChanged EventKind = "thread_context_changed"
	EventKindUserMessage          EventKind = "user_message"
	EventKindBotMessage           EventKind = "bot_message"
	EventKindAppMention           EventKind = "app_mention"
	EventKindChannelMessage       EventKind = "channel_message"
	EventKindBlockAction          EventKind = "block_action"
	EventKindViewSubmission       EventKind = "view_submission"
)

// Slack inner event types handled by the bot
const (
	SlackEventTypeMessage                       = "message"
	SlackEventTypeAppMention                    = "app_mention"
	SlackEventTypeAssistantThreadStarted        = "assistant_thread_started"
	SlackEventTypeAssistantThreadContextChanged = "assistant_thread_context_changed"
)

// SlackEvent is the inner "event" object of an Events API callback
type SlackEvent struct {
	Type            string                `json:"type"`
	SubType         string                `json:"subtype,omitempty"`
	Channel         string                `json:"channel,omitempty"`
	ChannelType     string                `json:"channel_type,omitempty"`
	User            string                `json:"user,omitempty"`
	BotID           string                `json:"bot_id,omitempty"`
	Text            string                `json:"text,omitempty"`
	TS              string                `json:"ts,omitempty"`
	ThreadTS        string                `json:"thread_ts,omitempty"`
	Metadata        *MessageMetadata      `json:"metadata,omitempty"`
	AssistantThread *SlackAssistantThread `json:"assistant_thread,omitempty"`
}

// SlackAssistantThread is the payload of assistant_thread_started/context_changed events
type SlackAssistantThread struct {
	UserID    string                `json:"user_id"`
	ChannelID string                `json:"channel_id"`
	ThreadTS  string                `json:"thread_ts"`
	Context   SlackAssistantContext `json:"context"`
}

type SlackAssistantContext struct {
	ChannelID    string `json:"channel_id,omitempty"`
	TeamID       string `json:"team_id,omitempty"`
	EnterpriseID string `json:"enterprise_id,omitempty"`
}

// MessageMetadata is Slack message metadata attached to posted messages
type MessageMetadata struct {
	EventType    string         `json:"event_type"`
	EventPayload map[string]any `json:"event_payload,omitempty"`
}

// IntValue reads an integer field from the metadata payload
func (m *MessageMetadata) IntValue(key string) (int, bool) {
	if m == nil || m.EventPayload == nil {
		return 0, false
	}
	switch v := m.EventPayload[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	default:
		return 0, false
	}
}

// AssistantEvent is the normalized event handed to registered handlers
type AssistantEvent struct {
	ID        string
	Kind      EventKind
	EventID   string
	ChannelID string
	ThreadTS  string
	MessageTS string
	UserID    string
	Text      string
	Metadata  *MessageMetadata
	Action    *BlockAction
	View      *ViewSubmission
}

// BlockAction is a single block_actions interaction
type BlockAction struct {
	ActionID  string
	Value     string
	TriggerID string
}

// ViewSubmission is a view_submission interaction with the selected values flattened
// to block_id -> action_id -> value
type ViewSubmission struct {
	CallbackID      string
	PrivateMetadata string
	Values          map[string]map[string]string
}

// Value returns the submitted value for a block/action pair
func (v *ViewSubmission) Value(blockID, actionID string) (string, bool) {
	if v == nil {
		return "", false
	}
	actions, ok := v.Values[blockID]
	if !ok {
		return "", false
	}
	value, ok := actions[actionID]
	return value, ok && value != ""
}

// ThreadRef identifies a thread; it round-trips through modal private_metadata
type ThreadRef struct {
	ChannelID string `json:"channel_id"`
	ThreadTS  string `json:"thread_ts"`
}

// ParseThreadRef decodes a ThreadRef from modal private_metadata
func ParseThreadRef(raw string) (ThreadRef, error) {
	var ref ThreadRef
	if err := json.Unmarshal([]byte(raw), &ref); err != nil {
		return ThreadRef{}, fmt.Errorf("failed to decode thread reference: %w", err)
	}
	if ref.ChannelID == "" || ref.ThreadTS == "" {
		return ThreadRef{}, fmt.Errorf("thread reference is missing channel_id or thread_ts")
	}
	return ref, nil
}

// SuggestedPrompt is a prompt button shown at the top of an assistant thread
type SuggestedPrompt struct {
	Title   string
	Message string
}
