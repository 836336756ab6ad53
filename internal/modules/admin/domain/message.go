package domain

import (
	"strconv"
	"strings"
	"time"
)

// Message is the envelope pushed to websocket views.
type Message struct {
	Topic     string            `json:"topic"`
	Entity    string            `json:"entity"`
	Action    string            `json:"action"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Data      any               `json:"data,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// BuildStateMessage wraps a view snapshot for delivery.
func BuildStateMessage(state ViewState, at time.Time) *Message {
	return &Message{
		Topic:  TopicViewState,
		Entity: ViewEntity,
		Action: ActionState,
		Metadata: map[string]string{
			"phase":   string(state.Phase),
			"version": strconv.FormatUint(state.Version, 10),
		},
		Data:      state,
		Timestamp: at.UTC(),
	}
}

// BuildRedirectMessage tells the view to navigate away to target.
func BuildRedirectMessage(target string, at time.Time) *Message {
	return &Message{
		Topic:     TopicViewRedirect,
		Entity:    ViewEntity,
		Action:    ActionRedirect,
		Metadata:  map[string]string{"location": strings.TrimSpace(target)},
		Timestamp: at.UTC(),
	}
}

// BuildErrorMessage reports a rejected command without touching view state.
func BuildErrorMessage(action, reason string, at time.Time) *Message {
	metadata := map[string]string{"action": strings.TrimSpace(action)}
	if trimmed := strings.TrimSpace(reason); trimmed != "" {
		metadata["reason"] = trimmed
	}
	return &Message{
		Topic:     TopicSystemError,
		Entity:    SystemEntity,
		Action:    ActionError,
		Metadata:  metadata,
		Timestamp: at.UTC(),
	}
}

// BuildChangeMessage announces an upstream change to connected views.
func BuildChangeMessage(event ChangeEvent, at time.Time) *Message {
	metadata := map[string]string{}
	if event.ResourceID > 0 {
		metadata["resourceId"] = strconv.FormatInt(event.ResourceID, 10)
	}
	return &Message{
		Topic:     ChangedTopic(event.Collection, event.Action),
		Entity:    string(event.Collection),
		Action:    event.Action,
		Metadata:  metadata,
		Timestamp: at.UTC(),
	}
}
