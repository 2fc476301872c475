package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/slack-go/slack"

	"slackassistant/middleware"
	"slackassistant/models"
)

// maxSlackBodyBytes bounds inbound webhook bodies
const maxSlackBodyBytes = 1 << 20

// EventDispatcher runs the handler registered for a normalized event
type EventDispatcher interface {
	Dispatch(ctx context.Context, event models.AssistantEvent) error
}

// TaskSubmitter queues work after the HTTP request has been acknowledged
type TaskSubmitter interface {
	Submit(task func())
}

// slackRequestVerifier checks Slack request signatures. An empty signing secret disables
// verification, which is only acceptable for local development.
type slackRequestVerifier struct {
	signingSecret string
}

func (v slackRequestVerifier) readVerifiedBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSlackBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	if v.signingSecret == "" {
		return body, nil
	}

	verifier, err := slack.NewSecretsVerifier(r.Header, v.signingSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create secrets verifier: %w", err)
	}
	if _, err := verifier.Write(body); err != nil {
		return nil, fmt.Errorf("failed to hash request body: %w", err)
	}
	if err := verifier.Ensure(); err != nil {
		return nil, fmt.Errorf("signature verification failed: %w", err)
	}

	return body, nil
}

// dispatchAsync hands the event to the worker pool with its own deadline, detached from the
// request context which ends as soon as Slack is acked
func dispatchAsync(
	pool TaskSubmitter,
	alerts *middleware.ErrorAlertMiddleware,
	dispatcher EventDispatcher,
	timeout time.Duration,
	event models.AssistantEvent,
) {
	pool.Submit(alerts.WrapEventTask(string(event.Kind), func() error {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := dispatcher.Dispatch(ctx, event); err != nil {
			log.Printf("❌ Event %s (%s) failed: %v", event.ID, event.Kind, err)
			return err
		}
		return nil
	}))
}
