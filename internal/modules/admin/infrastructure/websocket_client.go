package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"resortAdmin/internal/modules/admin/application/port"
	"resortAdmin/internal/modules/admin/domain"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	readLimit  = 1 << 16
)

type outbound struct {
	data       []byte
	closeAfter bool
}

// Client is one admin view attached over a websocket. It renders view state
// snapshots and performs redirects for the dashboard bound to it.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan outbound
	viewID     string
	sessionID  string
	commands   *CommandProcessor
	subscribed map[string]struct{}

	ctx    context.Context
	cancel context.CancelFunc

	sendMu      sync.Mutex
	closed      bool
	lastVersion uint64
	closeOnce   sync.Once
	closeHooks  []func(*Client)
	hookMu      sync.Mutex
	now         func() time.Time
}

// NewClient creates a websocket view with a bounded outgoing buffer.
func NewClient(hub *Hub, conn *websocket.Conn, viewID, sessionID string, buf int, fallback CommandHandler) *Client {
	if buf <= 0 {
		buf = 16
	}
	ctx, cancel := context.WithCancel(context.Background())
	client := &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan outbound, buf),
		viewID:     strings.TrimSpace(viewID),
		sessionID:  strings.TrimSpace(sessionID),
		subscribed: make(map[string]struct{}),
		ctx:        ctx,
		cancel:     cancel,
		now:        time.Now,
	}
	client.commands = NewCommandProcessor(hub, fallback)
	return client
}

func (c *Client) ViewID() string { return c.viewID }

// Context is cancelled when the view disconnects.
func (c *Client) Context() context.Context { return c.ctx }

// Commands exposes the processor so callers can register view actions.
func (c *Client) Commands() *CommandProcessor { return c.commands }

// Render pushes a view snapshot. Snapshots older than the last one sent are dropped.
func (c *Client) Render(state domain.ViewState) {
	c.sendMu.Lock()
	if state.Version <= c.lastVersion && c.lastVersion != 0 {
		c.sendMu.Unlock()
		slog.Debug("ws stale view state dropped", slog.String("viewId", c.viewID), slog.Uint64("version", state.Version), slog.Uint64("last", c.lastVersion))
		return
	}
	c.lastVersion = state.Version
	c.sendMu.Unlock()
	c.SendDomainMessage(domain.BuildStateMessage(state, c.now()))
}

// Redirect sends the navigation target and closes the view once it is written.
func (c *Client) Redirect(target string) {
	data, err := json.Marshal(domain.BuildRedirectMessage(target, c.now()))
	if err != nil {
		slog.Error("websocket marshal error", slog.Any("error", err))
		return
	}
	slog.Info("ws view redirect", slog.String("viewId", c.viewID), slog.String("location", target))
	if !c.enqueue(outbound{data: data, closeAfter: true}) {
		go c.hub.detachClient(c)
	}
}

func (c *Client) SendDomainMessage(msg *domain.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("websocket marshal error", slog.Any("error", err))
		return
	}
	if !c.enqueue(outbound{data: data}) {
		slog.Warn("websocket send buffer full", slog.String("viewId", c.viewID), slog.String("sessionId", c.sessionID))
		go c.hub.detachClient(c)
	}
}

func (c *Client) enqueue(msg outbound) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.cancel()
		c.sendMu.Lock()
		c.closed = true
		close(c.send)
		c.sendMu.Unlock()
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.invokeCloseHooks()
	})
}

// AddCloseHook registers a callback executed once when the view closes.
func (c *Client) AddCloseHook(fn func(*Client)) {
	if fn == nil {
		return
	}
	c.hookMu.Lock()
	c.closeHooks = append(c.closeHooks, fn)
	c.hookMu.Unlock()
}

func (c *Client) invokeCloseHooks() {
	c.hookMu.Lock()
	hooks := append([]func(*Client){}, c.closeHooks...)
	c.closeHooks = nil
	c.hookMu.Unlock()

	for _, hook := range hooks {
		func(h func(*Client)) {
			defer func() {
				if r := recover(); r != nil {
					slog.Warn("ws close hook panic", slog.Any("error", r))
				}
			}()
			h(c)
		}(hook)
	}
}

func (c *Client) WritePump() {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	defer c.hub.detachClient(c)

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg.data); err != nil {
				slog.Warn("websocket write error", slog.String("viewId", c.viewID), slog.Any("error", err))
				return
			}
			if msg.closeAfter {
				_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "redirect"), time.Now().Add(writeWait))
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				slog.Warn("websocket ping error", slog.String("viewId", c.viewID), slog.Any("error", err))
				return
			}
		}
	}
}

func (c *Client) ReadPump() {
	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	defer c.hub.detachClient(c)
	for {
		var cmd Command
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("websocket read error", slog.String("viewId", c.viewID), slog.Any("error", err))
			}
			return
		}
		c.processCommand(cmd)
	}
}

func (c *Client) processCommand(cmd Command) {
	if c.commands == nil {
		return
	}
	c.commands.Process(c, cmd)
}

var (
	_ port.ViewRenderer = (*Client)(nil)
	_ port.Navigator    = (*Client)(nil)
)
