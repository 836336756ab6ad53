package transport

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"resortAdmin/internal/modules/admin/application/usecase"
	"resortAdmin/internal/modules/admin/domain"
	"resortAdmin/internal/shared/auth"
)

// ListCollection serves GET /admin/api/:collection?page=N.
func (h *AdminHandler) ListCollection(c echo.Context) error {
	collection, ok := domain.ParseCollection(c.Param("collection"))
	if !ok {
		return h.respondError(c, fmt.Errorf("%w: %q", usecase.ErrUnknownCollection, c.Param("collection")))
	}
	page, err := parsePage(c.QueryParam("page"))
	if err != nil {
		return h.respondError(c, err)
	}

	ctx := c.Request().Context()
	dashboard, navigator := h.newRequestDashboard(c.Request())
	if dashboard.CheckSession(ctx) != domain.PhaseAuthenticated {
		return h.respond(c, dashboard, navigator, usecase.ErrRedirected)
	}
	h.logRequest(c, "list", string(collection), strconv.Itoa(page))
	return h.respond(c, dashboard, navigator, dashboard.FetchPage(ctx, collection, page))
}

// ShowRecord serves GET /admin/api/:collection/:id.
func (h *AdminHandler) ShowRecord(c echo.Context) error {
	kind, ok := domain.ParseDetailKind(c.Param("collection"))
	if !ok {
		return h.respondError(c, fmt.Errorf("%w: %q", usecase.ErrUnknownDetailKind, c.Param("collection")))
	}
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		return h.respondError(c, fmt.Errorf("%w: %q", usecase.ErrInvalidID, c.Param("id")))
	}

	ctx := c.Request().Context()
	dashboard, navigator := h.newRequestDashboard(c.Request())
	if dashboard.CheckSession(ctx) != domain.PhaseAuthenticated {
		return h.respond(c, dashboard, navigator, usecase.ErrRedirected)
	}
	h.logRequest(c, "detail", string(kind), strconv.FormatInt(id, 10))
	return h.respond(c, dashboard, navigator, dashboard.OpenDetail(ctx, kind, id))
}

func (h *AdminHandler) respondError(c echo.Context, err error) error {
	info, writeErr := h.errors.JSON(c, err)
	slog.Warn("admin api rejected", slog.String("path", c.Path()), slog.Int("status", info.Status), slog.Any("error", err))
	return writeErr
}

func (h *AdminHandler) logRequest(c echo.Context, operation, target, value string) {
	token := auth.ExtractToken(c.Request(), "token")
	admin := "session"
	if token != "" {
		admin = auth.Describe(token)
	}
	slog.Info("admin api request",
		slog.String("operation", operation),
		slog.String("target", target),
		slog.String("value", value),
		slog.String("admin", admin),
		slog.String("ip", c.RealIP()),
		slog.String("requestId", c.Response().Header().Get(echo.HeaderXRequestID)),
	)
}

// parsePage treats a missing page as 1. Values below 1 are clamped by the page request.
func parsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errInvalidPage, raw)
	}
	if page < 1 {
		page = 1
	}
	return page, nil
}
