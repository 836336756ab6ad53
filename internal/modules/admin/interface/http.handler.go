package transport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"resortAdmin/internal/modules/admin/application/port"
	"resortAdmin/internal/modules/admin/application/usecase"
	"resortAdmin/internal/modules/admin/domain"
	"resortAdmin/internal/modules/admin/infrastructure"
	"resortAdmin/internal/shared/auth"
	"resortAdmin/internal/shared/httputil"
)

var errInvalidPage = errors.New("invalid page")

// Dependencies wires the admin console routes.
type Dependencies struct {
	Hub        *infrastructure.Hub
	Views      *usecase.ViewRegistry
	Fetcher    port.AdminFetcher
	Sessions   port.SessionStore
	CookieName string
	TokenKey   string
	LoginPath  string
	// CommandTimeout bounds each websocket command. Zero keeps the processor default.
	CommandTimeout time.Duration
}

type AdminHandler struct {
	hub            *infrastructure.Hub
	views          *usecase.ViewRegistry
	fetcher        port.AdminFetcher
	sessions       port.SessionStore
	cookieName     string
	tokenKey       string
	loginPath      string
	commandTimeout time.Duration
	errors         *httputil.ErrorMapper
}

func NewAdminHandler(deps Dependencies) *AdminHandler {
	loginPath := strings.TrimSpace(deps.LoginPath)
	if loginPath == "" {
		loginPath = usecase.DefaultLoginPath
	}
	views := deps.Views
	if views == nil {
		views = usecase.NewViewRegistry()
	}
	return &AdminHandler{
		hub:            deps.Hub,
		views:          views,
		fetcher:        deps.Fetcher,
		sessions:       deps.Sessions,
		cookieName:     strings.TrimSpace(deps.CookieName),
		tokenKey:       strings.TrimSpace(deps.TokenKey),
		loginPath:      loginPath,
		commandTimeout: deps.CommandTimeout,
		errors: httputil.NewErrorMapper().
			WithMapping(usecase.ErrUnknownCollection, http.StatusNotFound, "unknown collection").
			WithMapping(usecase.ErrUnknownDetailKind, http.StatusNotFound, "unknown detail kind").
			WithMapping(usecase.ErrInvalidID, http.StatusBadRequest, "invalid id").
			WithMapping(errInvalidPage, http.StatusBadRequest, "invalid page").
			WithMapping(usecase.ErrLastPage, http.StatusConflict, "no next page").
			WithMapping(usecase.ErrNotAuthenticated, http.StatusUnauthorized, "not authenticated"),
	}
}

// RegisterRoutes mounts the console under /admin.
func (h *AdminHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/admin", h.Dashboard)
	e.GET("/admin/api/:collection", h.ListCollection)
	e.GET("/admin/api/:collection/:id", h.ShowRecord)
	if h.hub != nil {
		e.GET("/admin/ws", h.Websocket)
	}
}

type redirectResponse struct {
	Redirect string `json:"redirect"`
}

// requestNavigator records the redirect target for a one-shot HTTP activation.
type requestNavigator struct {
	target string
}

func (n *requestNavigator) Redirect(target string) { n.target = target }

func (n *requestNavigator) location(fallback string) string {
	if n.target != "" {
		return n.target
	}
	return fallback
}

// tokenProvider resolves where this request's session token lives: an explicit
// bearer/query token wins, otherwise the session cookie selects a stored token.
func (h *AdminHandler) tokenProvider(r *http.Request) (port.SessionTokenProvider, string) {
	if token := auth.ExtractToken(r, "token"); token != "" {
		return infrastructure.StaticTokenProvider(token), ""
	}
	sid := auth.ExtractSessionID(r, h.cookieName)
	if sid == "" || h.sessions == nil {
		return infrastructure.StaticTokenProvider(""), sid
	}
	return infrastructure.NewStoreTokenProvider(h.sessions, infrastructure.SessionKey(sid, h.tokenKey)), sid
}

func (h *AdminHandler) newRequestDashboard(r *http.Request) (*usecase.Dashboard, *requestNavigator) {
	provider, _ := h.tokenProvider(r)
	navigator := &requestNavigator{}
	return usecase.NewDashboard(provider, h.fetcher, navigator, nil, h.loginPath), navigator
}

// Dashboard guards the console entry point and loads the first page of every collection.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	dashboard, navigator := h.newRequestDashboard(c.Request())
	if dashboard.CheckSession(ctx) != domain.PhaseAuthenticated {
		slog.Info("admin guard redirect", slog.String("ip", c.RealIP()), slog.String("location", navigator.location(h.loginPath)))
		return c.Redirect(http.StatusSeeOther, navigator.location(h.loginPath))
	}

	loadInitialPages(ctx, dashboard)
	if dashboard.Phase() == domain.PhaseRedirecting {
		return c.Redirect(http.StatusSeeOther, navigator.location(h.loginPath))
	}
	return c.JSON(http.StatusOK, dashboard.State())
}

// loadInitialPages fetches page 1 of every collection concurrently. Failures
// are already recorded in the view state; a redirect cancels the other fetch.
func loadInitialPages(ctx context.Context, dashboard *usecase.Dashboard) {
	group, groupCtx := errgroup.WithContext(ctx)
	for _, collection := range domain.Collections {
		group.Go(func() error {
			err := dashboard.FetchPage(groupCtx, collection, 1)
			if errors.Is(err, usecase.ErrRedirected) {
				return err
			}
			if err != nil {
				slog.Debug("initial page load failed", slog.String("collection", string(collection)), slog.Any("error", err))
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		slog.Info("initial page load stopped", slog.Any("error", err))
	}
}

func (h *AdminHandler) respond(c echo.Context, dashboard *usecase.Dashboard, navigator *requestNavigator, err error) error {
	state := dashboard.State()
	if state.Phase == domain.PhaseRedirecting || errors.Is(err, usecase.ErrRedirected) {
		return c.JSON(http.StatusUnauthorized, redirectResponse{Redirect: navigator.location(h.loginPath)})
	}
	if err == nil {
		return c.JSON(http.StatusOK, state)
	}
	var fetchErr *usecase.FetchError
	if errors.As(err, &fetchErr) {
		return c.JSON(fetchStatus(fetchErr), state)
	}
	_, writeErr := h.errors.JSON(c, err)
	return writeErr
}

// fetchStatus mirrors upstream client errors and reports everything else as a bad gateway.
func fetchStatus(err *usecase.FetchError) int {
	var reqErr *domain.RequestError
	if errors.As(err, &reqErr) && reqErr.Status >= http.StatusBadRequest && reqErr.Status < http.StatusInternalServerError {
		return reqErr.Status
	}
	return http.StatusBadGateway
}
