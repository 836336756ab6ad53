package infrastructure

import (
	"context"
	"strings"
	"sync"

	"resortAdmin/internal/modules/admin/application/port"
	"resortAdmin/internal/modules/admin/domain"
)

// HandlerRegistry routes consumed change events to the handler registered for their broker topic.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string]port.TopicHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string]port.TopicHandler)}
}

func (r *HandlerRegistry) Register(h port.TopicHandler) {
	if h == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[strings.TrimSpace(h.Topic())] = h
}

// Topics lists the broker topics with a registered handler.
func (r *HandlerRegistry) Topics() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	topics := make([]string, 0, len(r.handlers))
	for topic := range r.handlers {
		topics = append(topics, topic)
	}
	return topics
}

func (r *HandlerRegistry) Dispatch(ctx context.Context, event *domain.ChangeEvent) error {
	if event == nil {
		return nil
	}
	r.mu.RLock()
	handler, ok := r.handlers[event.Topic]
	r.mu.RUnlock()
	if ok {
		return handler.Handle(ctx, event)
	}
	return nil
}
