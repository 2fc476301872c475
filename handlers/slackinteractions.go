package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"
	"github.com/slack-go/slack"

	"slackassistant/core"
	"slackassistant/middleware"
	"slackassistant/models"
)

type SlackInteractionsHandler struct {
	verifier     slackRequestVerifier
	dispatcher   EventDispatcher
	pool         TaskSubmitter
	alerts       *middleware.ErrorAlertMiddleware
	eventTimeout time.Duration
}

func NewSlackInteractionsHandler(
	signingSecret string,
	dispatcher EventDispatcher,
	pool TaskSubmitter,
	alerts *middleware.ErrorAlertMiddleware,
	eventTimeout time.Duration,
) *SlackInteractionsHandler {
	return &SlackInteractionsHandler{
		verifier:     slackRequestVerifier{signingSecret: signingSecret},
		dispatcher:   dispatcher,
		pool:         pool,
		alerts:       alerts,
		eventTimeout: eventTimeout,
	}
}

func (h *SlackInteractionsHandler) HandleInteraction(w http.ResponseWriter, r *http.Request) {
	body, err := h.verifier.readVerifiedBody(r)
	if err != nil {
		log.Printf("❌ Rejecting Slack interaction: %v", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	form, err := url.ParseQuery(string(body))
	if err != nil || form.Get("payload") == "" {
		log.Printf("❌ Slack interaction has no payload")
		http.Error(w, "payload not found", http.StatusBadRequest)
		return
	}

	var callback slack.InteractionCallback
	if err := json.Unmarshal([]byte(form.Get("payload")), &callback); err != nil {
		log.Printf("❌ Failed to parse interaction payload: %v", err)
		http.Error(w, "failed to parse payload", http.StatusBadRequest)
		return
	}

	events := InteractionEvents(callback)
	w.WriteHeader(http.StatusOK)

	for _, event := range events {
		event.ID = core.NewID("evt")
		log.Printf("🖱️ Dispatching %s interaction %s", event.Kind, event.ID)
		dispatchAsync(h.pool, h.alerts, h.dispatcher, h.eventTimeout, event)
	}
}

// InteractionEvents converts an interaction payload into registry events, one per block action
func InteractionEvents(callback slack.InteractionCallback) []models.AssistantEvent {
	switch callback.Type {
	case slack.InteractionTypeBlockActions:
		channelID := callback.Channel.ID
		if channelID == "" {
			channelID = callback.Container.ChannelID
		}
		threadTS := callback.Message.ThreadTimestamp
		if threadTS == "" {
			threadTS = callback.Container.ThreadTs
		}
		if threadTS == "" {
			threadTS = callback.Message.Timestamp
		}

		events := make([]models.AssistantEvent, 0, len(callback.ActionCallback.BlockActions))
		for _, action := range callback.ActionCallback.BlockActions {
			events = append(events, models.AssistantEvent{
				Kind:      models.EventKindBlockAction,
				ChannelID: channelID,
				ThreadTS:  threadTS,
				MessageTS: callback.Message.Timestamp,
				UserID:    callback.User.ID,
				Action: &models.BlockAction{
					ActionID:  action.ActionID,
					Value:     action.Value,
					TriggerID: callback.TriggerID,
				},
			})
		}
		return events

	case slack.InteractionTypeViewSubmission:
		event := models.AssistantEvent{
			Kind:   models.EventKindViewSubmission,
			UserID: callback.User.ID,
			View: &models.ViewSubmission{
				CallbackID:      callback.View.CallbackID,
				PrivateMetadata: callback.View.PrivateMetadata,
				Values:          flattenViewState(callback.View.State),
			},
		}
		if ref, err := models.ParseThreadRef(callback.View.PrivateMetadata); err == nil {
			event.ChannelID = ref.ChannelID
			event.ThreadTS = ref.ThreadTS
		}
		return []models.AssistantEvent{event}

	default:
		log.Printf("📋 Ignoring unsupported interaction type: %s", callback.Type)
		return nil
	}
}

func flattenViewState(state *slack.ViewState) map[string]map[string]string {
	values := make(map[string]map[string]string)
	if state == nil {
		return values
	}

	for blockID, actions := range state.Values {
		values[blockID] = make(map[string]string, len(actions))
		for actionID, action := range actions {
			value := action.SelectedOption.Value
			if value == "" {
				value = action.Value
			}
			values[blockID][actionID] = value
		}
	}
	return values
}

func (h *SlackInteractionsHandler) SetupEndpoints(router *mux.Router) {
	router.HandleFunc("/slack/interactions", h.HandleInteraction).Methods("POST")
	log.Printf("✅ POST /slack/interactions endpoint registered")
}
