package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"resortAdmin/internal/modules/admin/domain"
)

// Command is an inbound websocket frame sent by an admin view.
type Command struct {
	Action  string          `json:"action"`
	Topic   string          `json:"topic,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (c Command) actionKey() string {
	return normalizeAction(c.Action)
}

type CommandHandler func(ctx context.Context, client *Client, cmd Command)

type registeredCommand struct {
	handler CommandHandler
	async   bool
}

// CommandProcessor routes view commands. Async handlers run on their own
// goroutine so a slow fetch never blocks the read loop.
type CommandProcessor struct {
	hub          *Hub
	mu           sync.RWMutex
	handlers     map[string]registeredCommand
	fallback     CommandHandler
	asyncTimeout time.Duration
}

func NewCommandProcessor(hub *Hub, fallback CommandHandler) *CommandProcessor {
	processor := &CommandProcessor{
		hub:          hub,
		handlers:     make(map[string]registeredCommand),
		fallback:     fallback,
		asyncTimeout: 10 * time.Second,
	}
	processor.Register("subscribe", processor.handleSubscribe)
	processor.Register("unsubscribe", processor.handleUnsubscribe)
	processor.Register("ping", processor.handlePing)
	return processor
}

// SetAsyncTimeout bounds each async handler run.
func (p *CommandProcessor) SetAsyncTimeout(timeout time.Duration) {
	if timeout > 0 {
		p.asyncTimeout = timeout
	}
}

func (p *CommandProcessor) Register(action string, handler CommandHandler) {
	p.register(action, handler, false)
}

func (p *CommandProcessor) RegisterAsync(action string, handler CommandHandler) {
	p.register(action, handler, true)
}

func (p *CommandProcessor) register(action string, handler CommandHandler, async bool) {
	if handler == nil {
		return
	}
	key := normalizeAction(action)
	if key == "" {
		return
	}
	p.mu.Lock()
	p.handlers[key] = registeredCommand{handler: handler, async: async}
	p.mu.Unlock()
}

func (p *CommandProcessor) Process(client *Client, cmd Command) {
	if client == nil {
		return
	}

	action := cmd.actionKey()
	if action == "" {
		return
	}

	p.mu.RLock()
	entry, ok := p.handlers[action]
	p.mu.RUnlock()

	if ok && !entry.async {
		entry.handler(client.Context(), client, cmd)
		return
	}

	handler := entry.handler
	if !ok {
		if p.fallback == nil {
			slog.Debug("ws command ignored", slog.String("viewId", client.viewID), slog.String("action", action))
			client.SendDomainMessage(domain.BuildErrorMessage(action, "unknown action", time.Now()))
			return
		}
		handler = p.fallback
	}

	ctx, cancel := context.WithTimeout(client.Context(), p.asyncTimeout)
	go func() {
		defer cancel()
		handler(ctx, client, cmd)
	}()
}

func (p *CommandProcessor) handleSubscribe(_ context.Context, client *Client, cmd Command) {
	topic := strings.TrimSpace(cmd.Topic)
	if topic == "" || p.hub == nil {
		slog.Debug("ws subscribe ignored empty topic", slog.String("viewId", client.viewID))
		return
	}
	p.hub.subscribe(client, topic)
	slog.Debug("ws subscribe", slog.String("viewId", client.viewID), slog.String("topic", topic))
}

func (p *CommandProcessor) handleUnsubscribe(_ context.Context, client *Client, cmd Command) {
	topic := strings.TrimSpace(cmd.Topic)
	if topic == "" || p.hub == nil {
		return
	}
	p.hub.unsubscribe(client, topic)
}

func (p *CommandProcessor) handlePing(_ context.Context, client *Client, _ Command) {
	ack := domain.Message{
		Topic:     domain.TopicSystemPong,
		Entity:    domain.SystemEntity,
		Action:    domain.ActionPong,
		Timestamp: time.Now().UTC(),
	}
	client.SendDomainMessage(&ack)
}

func normalizeAction(action string) string {
	return strings.ToLower(strings.TrimSpace(action))
}
