package handler

import (
	"context"
	"log/slog"
	"strings"

	"resortAdmin/internal/modules/admin/application/port"
	"resortAdmin/internal/modules/admin/application/usecase"
	"resortAdmin/internal/modules/admin/domain"
)

// CollectionChangedHandler forwards booking/payment change events from one broker
// topic to the connected views and makes them re-fetch what they show.
type CollectionChangedHandler struct {
	collection     domain.Collection
	brokerTopic    string
	allowedActions map[string]struct{}
	broadcastUC    *usecase.BroadcastUseCase
	views          *usecase.ViewRegistry
}

func NewCollectionChangedHandler(collection domain.Collection, brokerTopic string, allowedActions []string, broadcastUC *usecase.BroadcastUseCase, views *usecase.ViewRegistry) *CollectionChangedHandler {
	actionSet := make(map[string]struct{}, len(allowedActions))
	for _, a := range allowedActions {
		if v := strings.TrimSpace(strings.ToLower(a)); v != "" {
			actionSet[v] = struct{}{}
		}
	}
	return &CollectionChangedHandler{
		collection:     collection,
		brokerTopic:    strings.TrimSpace(brokerTopic),
		allowedActions: actionSet,
		broadcastUC:    broadcastUC,
		views:          views,
	}
}

func (h *CollectionChangedHandler) Topic() string { return h.brokerTopic }

func (h *CollectionChangedHandler) Handle(ctx context.Context, event *domain.ChangeEvent) error {
	if event == nil {
		return nil
	}
	action := strings.ToLower(strings.TrimSpace(event.Action))
	if len(h.allowedActions) > 0 {
		if _, ok := h.allowedActions[action]; !ok {
			return nil
		}
	}
	if event.Collection == "" {
		event.Collection = h.collection
	}
	if event.Collection != h.collection {
		slog.Debug("collection-changed event for other collection", slog.String("topic", h.brokerTopic), slog.String("collection", string(event.Collection)))
		return nil
	}
	event.Action = action

	slog.Info("collection-changed refresh", slog.String("collection", string(event.Collection)), slog.String("action", event.Action), slog.Int64("resourceId", event.ResourceID))
	h.broadcastUC.Execute(ctx, *event)
	if h.views != nil {
		h.views.Refresh(ctx, *event)
	}
	return nil
}

var _ port.TopicHandler = (*CollectionChangedHandler)(nil)
