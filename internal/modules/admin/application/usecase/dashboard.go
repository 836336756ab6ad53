package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"resortAdmin/internal/modules/admin/application/port"
	"resortAdmin/internal/modules/admin/domain"
)

// DefaultLoginPath is where unauthenticated views are sent.
const DefaultLoginPath = "/admin/login"

var (
	ErrNotAuthenticated  = errors.New("session not authenticated")
	ErrRedirected        = errors.New("session redirected to login")
	ErrSuperseded        = errors.New("response superseded by a newer request")
	ErrLastPage          = errors.New("no next page")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrUnknownDetailKind = errors.New("unknown detail kind")
	ErrInvalidID         = errors.New("invalid record id")
)

// FetchError is returned when a fetch failed with a displayable message.
// The same message is stored as the view-level error.
type FetchError struct {
	Operation string
	Message   string
	Err       error
}

func (e *FetchError) Error() string { return e.Message }

func (e *FetchError) Unwrap() error { return e.Err }

// Dashboard guards one admin view activation behind the stored session token
// and mediates every read the view makes against the admin API.
//
// Each result slot (one list per collection, one detail record) carries a
// request sequence; a response is applied only when its sequence is still the
// latest issued for that slot.
type Dashboard struct {
	sessions  port.SessionTokenProvider
	fetcher   port.AdminFetcher
	navigator port.Navigator
	renderer  port.ViewRenderer
	loginPath string

	checkOnce sync.Once

	mu          sync.Mutex
	token       string
	state       domain.ViewState
	errorSource string
	listSeq     map[domain.Collection]uint64
	detailSeq   uint64
}

// fetchMode separates requests the admin asked for from refreshes triggered by
// upstream changes. A refresh never clears what is on screen before its
// response arrives, and never replaces an error raised by another slot.
type fetchMode int

const (
	userFetch fetchMode = iota
	refreshFetch
)

// NewDashboard builds the data client for one view activation. navigator and renderer may be nil.
func NewDashboard(sessions port.SessionTokenProvider, fetcher port.AdminFetcher, navigator port.Navigator, renderer port.ViewRenderer, loginPath string) *Dashboard {
	loginPath = strings.TrimSpace(loginPath)
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}
	return &Dashboard{
		sessions:  sessions,
		fetcher:   fetcher,
		navigator: navigator,
		renderer:  renderer,
		loginPath: loginPath,
		state:     domain.NewViewState(),
		listSeq:   make(map[domain.Collection]uint64, len(domain.Collections)),
	}
}

// CheckSession reads the session token once per activation. Without a token the
// view is redirected to the login path and no fetch will ever be issued.
func (d *Dashboard) CheckSession(ctx context.Context) domain.SessionPhase {
	d.checkOnce.Do(func() {
		var (
			token string
			ok    bool
		)
		if d.sessions != nil {
			token, ok = d.sessions.Token(ctx)
		}
		token = strings.TrimSpace(token)

		d.mu.Lock()
		if !ok || token == "" {
			d.beginRedirectLocked()
			d.mu.Unlock()
			slog.Info("dashboard session missing, redirecting", slog.String("location", d.loginPath))
			d.navigate()
			return
		}
		d.token = token
		d.state.Phase = domain.PhaseAuthenticated
		snapshot := d.snapshotLocked()
		d.mu.Unlock()
		slog.Debug("dashboard session authenticated", slog.Int("tokenLen", len(token)))
		d.render(snapshot)
	})
	return d.Phase()
}

// Phase returns the current guard state.
func (d *Dashboard) Phase() domain.SessionPhase {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.Phase
}

// State returns a snapshot of the view state.
func (d *Dashboard) State() domain.ViewState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.Clone()
}

// FetchPage loads one page of a collection, replacing the visible rows on success.
func (d *Dashboard) FetchPage(ctx context.Context, collection domain.Collection, page int) error {
	return d.fetchPage(ctx, userFetch, collection, page)
}

func (d *Dashboard) fetchPage(ctx context.Context, mode fetchMode, collection domain.Collection, page int) error {
	switch collection {
	case domain.CollectionBookings:
		return fetchList(ctx, d, mode, collection, page, d.fetcher.FetchBookings, func(s *domain.ViewState) *domain.ListState[domain.BookingRow] {
			return &s.Bookings
		})
	case domain.CollectionPayments:
		return fetchList(ctx, d, mode, collection, page, d.fetcher.FetchPayments, func(s *domain.ViewState) *domain.ListState[domain.PaymentRow] {
			return &s.Payments
		})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
}

// NextPage loads the page after the current one when the last response reported more rows.
func (d *Dashboard) NextPage(ctx context.Context, collection domain.Collection) error {
	d.mu.Lock()
	page, loaded := d.state.ListPage(collection)
	hasMore := d.state.ListHasMore(collection)
	d.mu.Unlock()
	if loaded && !hasMore {
		return ErrLastPage
	}
	return d.FetchPage(ctx, collection, domain.PageRequest{Page: page, Limit: domain.PageSize}.Next().Page)
}

// PreviousPage loads the page before the current one. On page 1 it does nothing.
func (d *Dashboard) PreviousPage(ctx context.Context, collection domain.Collection) error {
	d.mu.Lock()
	page, _ := d.state.ListPage(collection)
	d.mu.Unlock()
	if page <= 1 {
		return nil
	}
	return d.FetchPage(ctx, collection, domain.PageRequest{Page: page, Limit: domain.PageSize}.Previous().Page)
}

// OpenDetail selects a record and loads its detail. Any previously held detail
// of either kind is cleared before the request is issued.
func (d *Dashboard) OpenDetail(ctx context.Context, kind domain.DetailKind, id int64) error {
	return d.openDetail(ctx, userFetch, kind, id)
}

func (d *Dashboard) openDetail(ctx context.Context, mode fetchMode, kind domain.DetailKind, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	selection := domain.Selection{Kind: kind, ID: id}
	switch kind {
	case domain.DetailBooking:
		return fetchDetail(ctx, d, mode, selection, d.fetcher.FetchBooking, func(s *domain.ViewState, record *domain.BookingDetail) {
			s.BookingDetail = record
		})
	case domain.DetailPayment:
		return fetchDetail(ctx, d, mode, selection, d.fetcher.FetchPayment, func(s *domain.ViewState, record *domain.PaymentDetail) {
			s.PaymentDetail = record
		})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDetailKind, kind)
	}
}

// CloseDetail clears the selection; an in-flight detail fetch will be discarded.
func (d *Dashboard) CloseDetail() {
	d.mu.Lock()
	if d.state.Phase != domain.PhaseAuthenticated {
		d.mu.Unlock()
		return
	}
	d.detailSeq++
	d.state.Selection = nil
	d.state.BookingDetail = nil
	d.state.PaymentDetail = nil
	d.state.DetailLoading = false
	snapshot := d.snapshotLocked()
	d.mu.Unlock()
	d.render(snapshot)
}

// Refresh re-fetches whatever the view currently shows that the event touches:
// the current page of the changed collection if it was loaded, and the open
// detail if it is the changed record. Slots with a request already in flight
// are left to that request.
func (d *Dashboard) Refresh(ctx context.Context, event domain.ChangeEvent) error {
	d.mu.Lock()
	if d.state.Phase != domain.PhaseAuthenticated {
		d.mu.Unlock()
		return nil
	}
	page, loaded := d.state.ListPage(event.Collection)
	loaded = loaded && !d.state.ListLoading(event.Collection)
	var selection *domain.Selection
	if d.state.Selection != nil && !d.state.DetailLoading && event.Affects(*d.state.Selection) {
		current := *d.state.Selection
		selection = &current
	}
	d.mu.Unlock()

	var errs []error
	if loaded {
		if err := d.fetchPage(ctx, refreshFetch, event.Collection, page); err != nil && !errors.Is(err, ErrSuperseded) {
			errs = append(errs, err)
		}
	}
	if selection != nil {
		if err := d.openDetail(ctx, refreshFetch, selection.Kind, selection.ID); err != nil && !errors.Is(err, ErrSuperseded) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func fetchList[T any](
	ctx context.Context,
	d *Dashboard,
	mode fetchMode,
	collection domain.Collection,
	page int,
	fetch func(context.Context, string, domain.PageRequest) (*domain.Page[T], error),
	slot func(*domain.ViewState) *domain.ListState[T],
) error {
	request := domain.NewPageRequest(page)

	d.mu.Lock()
	if err := d.requireAuthenticatedLocked(); err != nil {
		d.mu.Unlock()
		return err
	}
	d.listSeq[collection]++
	seq := d.listSeq[collection]
	token := d.token
	source := string(collection) + ".list"
	list := slot(&d.state)
	var snapshot domain.ViewState
	if mode == userFetch {
		list.Page = request.Page
		list.Loading = true
		d.clearErrorLocked()
		snapshot = d.snapshotLocked()
	}
	d.mu.Unlock()
	if mode == userFetch {
		d.render(snapshot)
	}

	slog.Debug("dashboard list fetch start", slog.String("collection", string(collection)), slog.Int("page", request.Page), slog.Uint64("seq", seq))
	result, err := fetch(ctx, token, request)

	d.mu.Lock()
	if d.state.Phase != domain.PhaseAuthenticated {
		d.mu.Unlock()
		return ErrRedirected
	}
	var classification domain.Classification
	if err != nil {
		classification = domain.ClassifyFailure(err, collection.FallbackMessage())
		if classification.Redirect {
			d.beginRedirectLocked()
			d.mu.Unlock()
			slog.Warn("dashboard list unauthorized, redirecting", slog.String("collection", string(collection)), slog.Int("page", request.Page))
			d.navigate()
			return ErrRedirected
		}
	}
	if d.listSeq[collection] != seq {
		d.mu.Unlock()
		slog.Debug("dashboard list response superseded", slog.String("collection", string(collection)), slog.Int("page", request.Page), slog.Uint64("seq", seq))
		return ErrSuperseded
	}

	list = slot(&d.state)
	list.Loading = false
	if err != nil {
		d.setErrorLocked(mode, source, classification.Message)
		snapshot = d.snapshotLocked()
		d.mu.Unlock()
		slog.Warn("dashboard list fetch failed", slog.String("collection", string(collection)), slog.Int("page", request.Page), slog.Bool("refresh", mode == refreshFetch), slog.String("rule", classification.Rule), slog.Any("error", err))
		d.render(snapshot)
		return &FetchError{Operation: source, Message: classification.Message, Err: err}
	}

	if result == nil {
		result = &domain.Page[T]{}
	}
	list.Rows = append(make([]T, 0, len(result.Items)), result.Items...)
	list.Total = result.Total
	list.HasMore = domain.HasMore(request.Page, request.Limit, result.Total)
	list.Loaded = true
	if mode == refreshFetch && d.errorSource == source {
		d.clearErrorLocked()
	}
	snapshot = d.snapshotLocked()
	d.mu.Unlock()

	slog.Info("dashboard list loaded", slog.String("collection", string(collection)), slog.Int("page", request.Page), slog.Int("rows", len(result.Items)), slog.Int("total", result.Total))
	d.render(snapshot)
	return nil
}

func fetchDetail[T any](
	ctx context.Context,
	d *Dashboard,
	mode fetchMode,
	selection domain.Selection,
	fetch func(context.Context, string, int64) (*T, error),
	assign func(*domain.ViewState, *T),
) error {
	d.mu.Lock()
	if err := d.requireAuthenticatedLocked(); err != nil {
		d.mu.Unlock()
		return err
	}
	d.detailSeq++
	seq := d.detailSeq
	token := d.token
	source := string(selection.Kind) + ".detail"
	var snapshot domain.ViewState
	if mode == userFetch {
		current := selection
		d.state.Selection = &current
		d.state.BookingDetail = nil
		d.state.PaymentDetail = nil
		d.state.DetailLoading = true
		snapshot = d.snapshotLocked()
	}
	d.mu.Unlock()
	if mode == userFetch {
		d.render(snapshot)
	}

	slog.Debug("dashboard detail fetch start", slog.String("kind", string(selection.Kind)), slog.Int64("id", selection.ID), slog.Uint64("seq", seq))
	record, err := fetch(ctx, token, selection.ID)

	d.mu.Lock()
	if d.state.Phase != domain.PhaseAuthenticated {
		d.mu.Unlock()
		return ErrRedirected
	}
	var classification domain.Classification
	if err != nil {
		classification = domain.ClassifyFailure(err, selection.Kind.FallbackMessage())
		if classification.Redirect {
			d.beginRedirectLocked()
			d.mu.Unlock()
			slog.Warn("dashboard detail unauthorized, redirecting", slog.String("kind", string(selection.Kind)), slog.Int64("id", selection.ID))
			d.navigate()
			return ErrRedirected
		}
	}
	if d.detailSeq != seq || d.state.Selection == nil || *d.state.Selection != selection {
		d.mu.Unlock()
		slog.Debug("dashboard detail response superseded", slog.String("kind", string(selection.Kind)), slog.Int64("id", selection.ID), slog.Uint64("seq", seq))
		return ErrSuperseded
	}

	d.state.DetailLoading = false
	if err != nil {
		d.setErrorLocked(mode, source, classification.Message)
		snapshot = d.snapshotLocked()
		d.mu.Unlock()
		slog.Warn("dashboard detail fetch failed", slog.String("kind", string(selection.Kind)), slog.Int64("id", selection.ID), slog.Bool("refresh", mode == refreshFetch), slog.String("rule", classification.Rule), slog.Any("error", err))
		d.render(snapshot)
		return &FetchError{Operation: source, Message: classification.Message, Err: err}
	}

	assign(&d.state, record)
	if mode == refreshFetch && d.errorSource == source {
		d.clearErrorLocked()
	}
	snapshot = d.snapshotLocked()
	d.mu.Unlock()

	slog.Info("dashboard detail loaded", slog.String("kind", string(selection.Kind)), slog.Int64("id", selection.ID))
	d.render(snapshot)
	return nil
}

// setErrorLocked records a failure banner. A refresh only replaces an empty
// banner or one raised by the same slot.
func (d *Dashboard) setErrorLocked(mode fetchMode, source, message string) {
	if mode == refreshFetch && d.state.Error != "" && d.errorSource != source {
		return
	}
	d.state.Error = message
	d.errorSource = source
}

func (d *Dashboard) clearErrorLocked() {
	d.state.Error = ""
	d.errorSource = ""
}

func (d *Dashboard) requireAuthenticatedLocked() error {
	switch d.state.Phase {
	case domain.PhaseAuthenticated:
		return nil
	case domain.PhaseRedirecting:
		return ErrRedirected
	default:
		return ErrNotAuthenticated
	}
}

// beginRedirectLocked moves to the terminal redirect phase. Nothing survives:
// lists, detail, selection and error are reset and every in-flight request is
// invalidated. It returns false when the view was already redirecting.
func (d *Dashboard) beginRedirectLocked() bool {
	if d.state.Phase == domain.PhaseRedirecting {
		return false
	}
	version := d.state.Version
	d.state = domain.NewViewState()
	d.state.Version = version + 1
	d.state.Phase = domain.PhaseRedirecting
	d.state.Redirect = d.loginPath
	d.errorSource = ""
	d.token = ""
	for _, collection := range domain.Collections {
		d.listSeq[collection]++
	}
	d.detailSeq++
	return true
}

func (d *Dashboard) snapshotLocked() domain.ViewState {
	d.state.Version++
	return d.state.Clone()
}

func (d *Dashboard) navigate() {
	if d.navigator != nil {
		d.navigator.Redirect(d.loginPath)
	}
}

func (d *Dashboard) render(state domain.ViewState) {
	if d.renderer != nil {
		d.renderer.Render(state)
	}
}
