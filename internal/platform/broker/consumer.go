package broker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"resortAdmin/internal/modules/admin/domain"
)

type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewKafkaConsumer(brokers []string, groupID string, topic string) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}),
	}
}

// Consume reads until ctx is cancelled, handing every decoded event to handler.
func (c *KafkaConsumer) Consume(ctx context.Context, handler func(*domain.ChangeEvent) error) error {
	defer c.reader.Close()
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			slog.Warn("kafka read error", slog.Any("error", err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}
		event := decodeEvent(m)
		slog.Info("kafka message consumed",
			slog.String("topic", m.Topic),
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
			slog.String("collection", string(event.Collection)),
			slog.String("action", event.Action),
			slog.Int64("resourceId", event.ResourceID),
		)
		if err := handler(event); err != nil {
			slog.Warn("kafka handler error", slog.Any("error", err))
		}
	}
}

type rawEvent struct {
	Entity     string          `json:"entity"`
	Action     string          `json:"action"`
	ResourceID json.RawMessage `json:"resourceId"`
}

// decodeEvent never fails: an undecodable payload still yields an event whose
// collection and action are inferred from the topic name.
func decodeEvent(m kafka.Message) *domain.ChangeEvent {
	event := &domain.ChangeEvent{Topic: m.Topic}
	topicEntity, topicAction := inferEntityActionFromTopic(m.Topic)

	var raw rawEvent
	if err := json.Unmarshal(m.Value, &raw); err != nil {
		event.Collection = collectionFromEntity(topicEntity)
		event.Action = topicAction
		return event
	}

	event.Collection = collectionFromEntity(firstNonEmpty(raw.Entity, topicEntity))
	event.Action = strings.ToLower(firstNonEmpty(raw.Action, topicAction, "unknown"))
	event.ResourceID = parseResourceID(raw.ResourceID)
	return event
}

func collectionFromEntity(entity string) domain.Collection {
	collection, _ := domain.ParseCollection(entity)
	return collection
}

func parseResourceID(raw json.RawMessage) int64 {
	value := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if value == "" || value == "null" {
		return 0
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func inferEntityActionFromTopic(topic string) (string, string) {
	parts := strings.Split(topic, ".")
	if len(parts) >= 2 {
		entity := strings.TrimSpace(parts[len(parts)-2])
		action := strings.TrimSpace(parts[len(parts)-1])
		if entity != "" && action != "" {
			return entity, action
		}
	}
	if entity := normalizeTopic(topic); entity != "" {
		return entity, "unknown"
	}
	return "", "unknown"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func normalizeTopic(topic string) string {
	if idx := strings.LastIndex(topic, "."); idx >= 0 {
		topic = topic[idx+1:]
	}
	return strings.TrimSpace(topic)
}
