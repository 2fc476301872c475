package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/slack-go/slack/slackevents"

	"slackassistant/core"
	"slackassistant/middleware"
	"slackassistant/models"
	"slackassistant/services"
)

const (
	channelTypeIM           = "im"
	messageSubtypeFileShare = "file_share"
)

type SlackEventsHandler struct {
	verifier        slackRequestVerifier
	dispatcher      EventDispatcher
	processedEvents services.ProcessedEventsService
	pool            TaskSubmitter
	alerts          *middleware.ErrorAlertMiddleware
	eventTimeout    time.Duration
}

func NewSlackEventsHandler(
	signingSecret string,
	dispatcher EventDispatcher,
	processedEvents services.ProcessedEventsService,
	pool TaskSubmitter,
	alerts *middleware.ErrorAlertMiddleware,
	eventTimeout time.Duration,
) *SlackEventsHandler {
	return &SlackEventsHandler{
		verifier:        slackRequestVerifier{signingSecret: signingSecret},
		dispatcher:      dispatcher,
		processedEvents: processedEvents,
		pool:            pool,
		alerts:          alerts,
		eventTimeout:    eventTimeout,
	}
}

func (h *SlackEventsHandler) HandleSlackEvent(w http.ResponseWriter, r *http.Request) {
	log.Printf("📨 Slack event received from %s", r.RemoteAddr)

	body, err := h.verifier.readVerifiedBody(r)
	if err != nil {
		log.Printf("❌ Rejecting Slack event: %v", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var envelope slackevents.EventsAPICallbackEvent
	if err := json.Unmarshal(body, &envelope); err != nil {
		log.Printf("❌ Failed to parse JSON body: %v", err)
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}

	switch envelope.Type {
	case slackevents.URLVerification:
		h.handleURLVerification(w, body)
		return
	case slackevents.CallbackEvent:
	default:
		log.Printf("📋 Non-event callback received: %s", envelope.Type)
		w.WriteHeader(http.StatusOK)
		return
	}

	if envelope.InnerEvent == nil {
		log.Printf("❌ Event callback %s has no inner event", envelope.EventID)
		http.Error(w, "event not found", http.StatusBadRequest)
		return
	}

	var inner models.SlackEvent
	if err := json.Unmarshal(*envelope.InnerEvent, &inner); err != nil {
		log.Printf("❌ Failed to parse inner event of %s: %v", envelope.EventID, err)
		http.Error(w, "failed to parse event", http.StatusBadRequest)
		return
	}

	event, ok := ClassifyEvent(inner)
	if !ok {
		log.Printf("📋 Ignoring unsupported Slack event type: %s", inner.Type)
		w.WriteHeader(http.StatusOK)
		return
	}
	event.ID = core.NewID("evt")
	event.EventID = envelope.EventID

	firstTime, err := h.processedEvents.MarkProcessed(r.Context(), envelope.EventID)
	if err != nil {
		// Answering twice beats not answering at all
		log.Printf("⚠️ Could not de-duplicate event %s, processing anyway: %v", envelope.EventID, err)
		firstTime = true
	}
	w.WriteHeader(http.StatusOK)
	if !firstTime {
		return
	}

	log.Printf("📞 Dispatching %s event %s (slack event %s, retry %s)",
		event.Kind, event.ID, envelope.EventID, r.Header.Get("X-Slack-Retry-Num"))
	dispatchAsync(h.pool, h.alerts, h.dispatcher, h.eventTimeout, event)
}

func (h *SlackEventsHandler) handleURLVerification(w http.ResponseWriter, body []byte) {
	log.Printf("🔐 Slack URL verification challenge received")

	var challenge slackevents.ChallengeResponse
	if err := json.Unmarshal(body, &challenge); err != nil || challenge.Challenge == "" {
		log.Printf("❌ Challenge not found in verification request")
		http.Error(w, "challenge not found", http.StatusBadRequest)
		return
	}

	log.Printf("✅ Responding to Slack URL verification challenge")
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte(challenge.Challenge)); err != nil {
		log.Printf("❌ Failed to write challenge response: %v", err)
	}
}

// ClassifyEvent maps a Slack inner event onto the event kinds the registry understands.
// Messages in an assistant DM thread are split into user and bot turns; any other
// message is a plain channel message.
func ClassifyEvent(inner models.SlackEvent) (models.AssistantEvent, bool) {
	switch inner.Type {
	case models.SlackEventTypeAssistantThreadStarted, models.SlackEventTypeAssistantThreadContextChanged:
		if inner.AssistantThread == nil {
			return models.AssistantEvent{}, false
		}
		kind := models.EventKindThreadStarted
		if inner.Type == models.SlackEventTypeAssistantThreadContextChanged {
			kind = models.EventKindThreadContextChanged
		}
		return models.AssistantEvent{
			Kind:      kind,
			ChannelID: inner.AssistantThread.ChannelID,
			ThreadTS:  inner.AssistantThread.ThreadTS,
			UserID:    inner.AssistantThread.UserID,
		}, true

	case models.SlackEventTypeAppMention:
		return models.AssistantEvent{
			Kind:      models.EventKindAppMention,
			ChannelID: inner.Channel,
			ThreadTS:  inner.ThreadTS,
			MessageTS: inner.TS,
			UserID:    inner.User,
			Text:      inner.Text,
		}, true

	case models.SlackEventTypeMessage:
		event := models.AssistantEvent{
			Kind:      models.EventKindChannelMessage,
			ChannelID: inner.Channel,
			ThreadTS:  inner.ThreadTS,
			MessageTS: inner.TS,
			UserID:    inner.User,
			Text:      inner.Text,
			Metadata:  inner.Metadata,
		}

		inAssistantThread := inner.ChannelType == channelTypeIM && inner.ThreadTS != ""
		switch {
		case !inAssistantThread:
		case inner.BotID != "" || inner.SubType == models.SubtypeBotMessage:
			event.Kind = models.EventKindBotMessage
		case inner.SubType == "" || inner.SubType == messageSubtypeFileShare:
			event.Kind = models.EventKindUserMessage
		}
		return event, true

	default:
		return models.AssistantEvent{}, false
	}
}

func (h *SlackEventsHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering Slack webhook endpoints")

	router.HandleFunc("/slack/events", h.HandleSlackEvent).Methods("POST")
	log.Printf("✅ POST /slack/events endpoint registered")
}
