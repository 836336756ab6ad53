package broker

import (
	"context"
	"log/slog"
	"strings"

	"resortAdmin/internal/modules/admin/domain"
	"resortAdmin/internal/modules/admin/infrastructure"
)

// StartKafkaConsumers launches one consumer per topic. Consumers stop when ctx is cancelled.
func StartKafkaConsumers(
	ctx context.Context,
	registry *infrastructure.HandlerRegistry,
	brokers []string,
	groupID string,
	topics []string,
) {
	if len(brokers) == 0 {
		slog.Info("kafka brokers not configured, live refresh disabled")
		return
	}
	for _, topic := range topics {
		tp := strings.TrimSpace(topic)
		if tp == "" {
			continue
		}
		go func() {
			consumer := NewKafkaConsumer(brokers, groupID, tp)
			if err := consumer.Consume(ctx, func(event *domain.ChangeEvent) error {
				return registry.Dispatch(ctx, event)
			}); err != nil && ctx.Err() == nil {
				slog.Error("kafka consumer stopped", slog.String("topic", tp), slog.Any("error", err))
			}
		}()
	}
}
