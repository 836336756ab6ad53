package port

import (
	"context"

	"resortAdmin/internal/modules/admin/domain"
)

// Broadcaster sends a message to every connected websocket view.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg *domain.Message)
}

// TopicHandler handles change events consumed from one broker topic.
type TopicHandler interface {
	Topic() string
	Handle(ctx context.Context, event *domain.ChangeEvent) error
}
