package transport

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/random"

	"resortAdmin/internal/modules/admin/application/usecase"
	"resortAdmin/internal/modules/admin/domain"
	"resortAdmin/internal/modules/admin/infrastructure"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Websocket serves /admin/ws. Each connection is one view activation: the
// session is checked once, a missing token is answered with a redirect frame,
// and the view then drives its dashboard with commands.
func (h *AdminHandler) Websocket(c echo.Context) error {
	provider, sessionID := h.tokenProvider(c.Request())

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error("ws upgrade failed", slog.String("ip", c.RealIP()), slog.Any("error", err))
		return err
	}

	viewID := random.String(16, random.Alphanumeric)
	client := infrastructure.NewClient(h.hub, conn, viewID, sessionID, 16, nil)
	client.Commands().SetAsyncTimeout(h.commandTimeout)
	dashboard := usecase.NewDashboard(provider, h.fetcher, client, client, h.loginPath)
	registerViewCommands(client, dashboard)

	client.AddCloseHook(func(*infrastructure.Client) {
		h.views.Detach(viewID)
		slog.Debug("ws view closed", slog.String("viewId", viewID))
	})
	h.hub.AttachClient(client, splitTopics(c.QueryParam("topics")))

	go client.WritePump()
	go client.ReadPump()

	client.SendDomainMessage(&domain.Message{
		Topic:     domain.TopicSystemConnected,
		Entity:    domain.SystemEntity,
		Action:    domain.ActionConnected,
		Metadata:  map[string]string{"viewId": viewID},
		Timestamp: time.Now().UTC(),
	})

	if dashboard.CheckSession(client.Context()) != domain.PhaseAuthenticated {
		slog.Info("ws view redirected on connect", slog.String("viewId", viewID), slog.String("ip", c.RealIP()))
		return nil
	}
	h.views.Attach(viewID, dashboard)
	slog.Info("ws view connected", slog.String("viewId", viewID), slog.String("sessionId", sessionID), slog.String("ip", c.RealIP()))

	go loadInitialPages(client.Context(), dashboard)
	return nil
}

func splitTopics(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	topics := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			topics = append(topics, trimmed)
		}
	}
	return topics
}
