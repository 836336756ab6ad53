package usecase

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resortAdmin/internal/modules/admin/domain"
)

func newTestDashboard(token string, fetcher *fakeFetcher) (*Dashboard, *recordingNavigator, *recordingRenderer) {
	navigator := &recordingNavigator{}
	renderer := &recordingRenderer{}
	return NewDashboard(&tokenProvider{token: token}, fetcher, navigator, renderer, ""), navigator, renderer
}

func authenticated(t *testing.T, fetcher *fakeFetcher) (*Dashboard, *recordingNavigator, *recordingRenderer) {
	t.Helper()
	dashboard, navigator, renderer := newTestDashboard("tok", fetcher)
	require.Equal(t, domain.PhaseAuthenticated, dashboard.CheckSession(context.Background()))
	return dashboard, navigator, renderer
}

func waitForCall(t *testing.T, fetcher *fakeFetcher, key string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return slices.Contains(fetcher.callLog(), key)
	}, time.Second, time.Millisecond, "call %s never issued", key)
}

func goFetch(fn func() error) <-chan error {
	done := make(chan error, 1)
	go func() { done <- fn() }()
	return done
}

func TestCheckSessionWithoutTokenRedirects(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	dashboard, navigator, _ := newTestDashboard("", fetcher)
	ctx := context.Background()

	assert.Equal(t, domain.PhaseRedirecting, dashboard.CheckSession(ctx))
	assert.Equal(t, []string{DefaultLoginPath}, navigator.redirects())
	assert.Equal(t, DefaultLoginPath, dashboard.State().Redirect)

	assert.ErrorIs(t, dashboard.FetchPage(ctx, domain.CollectionBookings, 1), ErrRedirected)
	assert.ErrorIs(t, dashboard.OpenDetail(ctx, domain.DetailPayment, 3), ErrRedirected)
	assert.Empty(t, fetcher.callLog())
}

func TestCheckSessionBlankTokenRedirects(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	navigator := &recordingNavigator{}
	dashboard := NewDashboard(&tokenProvider{token: "   "}, fetcher, navigator, nil, "/login")

	assert.Equal(t, domain.PhaseRedirecting, dashboard.CheckSession(context.Background()))
	assert.Equal(t, []string{"/login"}, navigator.redirects())
}

func TestCheckSessionReadsTokenOnce(t *testing.T) {
	t.Parallel()

	provider := &tokenProvider{token: "tok"}
	dashboard := NewDashboard(provider, newFakeFetcher(), nil, nil, "")
	ctx := context.Background()

	assert.Equal(t, domain.PhaseAuthenticated, dashboard.CheckSession(ctx))
	provider.token = ""
	assert.Equal(t, domain.PhaseAuthenticated, dashboard.CheckSession(ctx))
	assert.Equal(t, 1, provider.readCount())
}

func TestFetchBeforeCheckIsRejected(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	dashboard, _, _ := newTestDashboard("tok", fetcher)

	assert.ErrorIs(t, dashboard.FetchPage(context.Background(), domain.CollectionBookings, 1), ErrNotAuthenticated)
	assert.Empty(t, fetcher.callLog())
}

func TestFetchPageSendsTokenAndPageSize(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	fetcher.bookings = func(page int) (*domain.Page[domain.BookingRow], error) { return bookingPage(page, 10, 25), nil }
	dashboard, _, _ := authenticated(t, fetcher)

	require.NoError(t, dashboard.FetchPage(context.Background(), domain.CollectionBookings, 1))
	assert.Equal(t, []string{"bookings:1:10"}, fetcher.callLog())
	assert.Equal(t, []string{"tok"}, fetcher.tokens)

	state := dashboard.State()
	assert.Len(t, state.Bookings.Rows, 10)
	assert.Equal(t, 25, state.Bookings.Total)
	assert.True(t, state.Bookings.HasMore)
	assert.False(t, state.Bookings.Loading)
	assert.True(t, state.Bookings.Loaded)
}

func TestNextPageAdvancesWhileMoreRows(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	fetcher.bookings = func(page int) (*domain.Page[domain.BookingRow], error) {
		count := 10
		if page == 3 {
			count = 5
		}
		return bookingPage(page, count, 25), nil
	}
	dashboard, _, _ := authenticated(t, fetcher)
	ctx := context.Background()

	require.NoError(t, dashboard.FetchPage(ctx, domain.CollectionBookings, 1))
	require.NoError(t, dashboard.NextPage(ctx, domain.CollectionBookings))
	require.NoError(t, dashboard.NextPage(ctx, domain.CollectionBookings))

	state := dashboard.State()
	assert.Equal(t, 3, state.Bookings.Page)
	assert.Len(t, state.Bookings.Rows, 5)
	assert.False(t, state.Bookings.HasMore)

	assert.ErrorIs(t, dashboard.NextPage(ctx, domain.CollectionBookings), ErrLastPage)
	assert.Equal(t, []string{"bookings:1:10", "bookings:2:10", "bookings:3:10"}, fetcher.callLog())
}

func TestPageReplacesRowsInsteadOfAppending(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	fetcher.bookings = func(page int) (*domain.Page[domain.BookingRow], error) { return bookingPage(page, 10, 30), nil }
	dashboard, _, _ := authenticated(t, fetcher)
	ctx := context.Background()

	require.NoError(t, dashboard.FetchPage(ctx, domain.CollectionBookings, 1))
	require.NoError(t, dashboard.FetchPage(ctx, domain.CollectionBookings, 2))

	assert.Equal(t, []int64{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, bookingIDs(dashboard.State().Bookings.Rows))
}

func TestPreviousPageOnFirstPageDoesNothing(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	dashboard, _, _ := authenticated(t, fetcher)
	ctx := context.Background()

	require.NoError(t, dashboard.PreviousPage(ctx, domain.CollectionPayments))
	assert.Empty(t, fetcher.callLog())

	require.NoError(t, dashboard.FetchPage(ctx, domain.CollectionPayments, 0))
	require.NoError(t, dashboard.FetchPage(ctx, domain.CollectionPayments, 2))
	require.NoError(t, dashboard.PreviousPage(ctx, domain.CollectionPayments))
	assert.Equal(t, []string{"payments:1:10", "payments:2:10", "payments:1:10"}, fetcher.callLog())
}

func TestUnknownCollectionAndKind(t *testing.T) {
	t.Parallel()

	dashboard, _, _ := authenticated(t, newFakeFetcher())
	ctx := context.Background()

	assert.ErrorIs(t, dashboard.FetchPage(ctx, domain.Collection("rooms"), 1), ErrUnknownCollection)
	assert.ErrorIs(t, dashboard.OpenDetail(ctx, domain.DetailKind("room"), 1), ErrUnknownDetailKind)
	assert.ErrorIs(t, dashboard.OpenDetail(ctx, domain.DetailBooking, 0), ErrInvalidID)
}

func TestListFailureKeepsLastGoodRows(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	fetcher.bookings = func(page int) (*domain.Page[domain.BookingRow], error) {
		if page == 2 {
			return nil, &domain.RequestError{Status: 503, Message: domain.StatusMessage(503)}
		}
		return bookingPage(page, 10, 25), nil
	}
	dashboard, navigator, _ := authenticated(t, fetcher)
	ctx := context.Background()

	require.NoError(t, dashboard.FetchPage(ctx, domain.CollectionBookings, 1))
	err := dashboard.FetchPage(ctx, domain.CollectionBookings, 2)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, domain.MessageServerError, fetchErr.Message)
	assert.Equal(t, "bookings.list", fetchErr.Operation)

	state := dashboard.State()
	assert.Equal(t, domain.MessageServerError, state.Error)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, bookingIDs(state.Bookings.Rows))
	assert.False(t, state.Bookings.Loading)
	assert.Equal(t, domain.PhaseAuthenticated, state.Phase)
	assert.Empty(t, navigator.redirects())

	require.NoError(t, dashboard.FetchPage(ctx, domain.CollectionBookings, 1))
	assert.Empty(t, dashboard.State().Error, "a new list fetch clears the error")
}

func TestListFailureUsesServerDetail(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	fetcher.payments = func(int) (*domain.Page[domain.PaymentRow], error) {
		return nil, &domain.RequestError{Status: 422, Detail: []any{"limit must be at most 100"}}
	}
	dashboard, _, _ := authenticated(t, fetcher)

	err := dashboard.FetchPage(context.Background(), domain.CollectionPayments, 1)
	require.Error(t, err)
	assert.Equal(t, "limit must be at most 100", dashboard.State().Error)
}

func TestSupersededListResponseIsDiscarded(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	fetcher.bookings = func(page int) (*domain.Page[domain.BookingRow], error) { return bookingPage(page, 10, 40), nil }
	fetcher.hold("bookings:2:10")
	fetcher.hold("bookings:3:10")
	dashboard, _, _ := authenticated(t, fetcher)
	ctx := context.Background()

	older := goFetch(func() error { return dashboard.FetchPage(ctx, domain.CollectionBookings, 2) })
	waitForCall(t, fetcher, "bookings:2:10")
	newer := goFetch(func() error { return dashboard.FetchPage(ctx, domain.CollectionBookings, 3) })
	waitForCall(t, fetcher, "bookings:3:10")

	fetcher.release("bookings:2:10")
	assert.ErrorIs(t, <-older, ErrSuperseded)
	state := dashboard.State()
	assert.True(t, state.Bookings.Loading, "only the latest request clears loading")
	assert.Empty(t, state.Bookings.Rows)

	fetcher.release("bookings:3:10")
	require.NoError(t, <-newer)
	state = dashboard.State()
	assert.False(t, state.Bookings.Loading)
	assert.Equal(t, 3, state.Bookings.Page)
	assert.Equal(t, int64(21), state.Bookings.Rows[0].ID)
}

func TestSupersededUnauthorizedStillRedirects(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	fetcher.bookings = func(page int) (*domain.Page[domain.BookingRow], error) {
		if page == 2 {
			return nil, &domain.RequestError{Status: 401}
		}
		return bookingPage(page, 10, 40), nil
	}
	fetcher.hold("bookings:2:10")
	dashboard, navigator, _ := authenticated(t, fetcher)
	ctx := context.Background()

	older := goFetch(func() error { return dashboard.FetchPage(ctx, domain.CollectionBookings, 2) })
	waitForCall(t, fetcher, "bookings:2:10")
	require.NoError(t, dashboard.FetchPage(ctx, domain.CollectionBookings, 3))

	fetcher.release("bookings:2:10")
	assert.ErrorIs(t, <-older, ErrRedirected)
	assert.Equal(t, domain.PhaseRedirecting, dashboard.Phase())
	assert.Equal(t, []string{DefaultLoginPath}, navigator.redirects())
	assert.Empty(t, dashboard.State().Bookings.Rows)
}

func TestCollectionsHaveIndependentSequences(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	fetcher.bookings = func(page int) (*domain.Page[domain.BookingRow], error) { return bookingPage(page, 3, 3), nil }
	fetcher.hold("bookings:1:10")
	dashboard, _, _ := authenticated(t, fetcher)
	ctx := context.Background()

	pending := goFetch(func() error { return dashboard.FetchPage(ctx, domain.CollectionBookings, 1) })
	waitForCall(t, fetcher, "bookings:1:10")
	require.NoError(t, dashboard.FetchPage(ctx, domain.CollectionPayments, 1))

	fetcher.release("bookings:1:10")
	require.NoError(t, <-pending)
	assert.Len(t, dashboard.State().Bookings.Rows, 3)
}

func TestOpenDetailLoadsRecord(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	fetcher.booking = func(id int64) (*domain.BookingDetail, error) {
		return &domain.BookingDetail{BookingRow: domain.BookingRow{ID: id, Status: "confirmed"}, SpecialRequests: "late check-in"}, nil
	}
	dashboard, _, _ := authenticated(t, fetcher)

	require.NoError(t, dashboard.OpenDetail(context.Background(), domain.DetailBooking, 7))

	state := dashboard.State()
	require.NotNil(t, state.Selection)
	assert.Equal(t, domain.Selection{Kind: domain.DetailBooking, ID: 7}, *state.Selection)
	require.NotNil(t, state.BookingDetail)
	assert.Equal(t, "late check-in", state.BookingDetail.SpecialRequests)
	assert.Nil(t, state.PaymentDetail)
	assert.False(t, state.DetailLoading)
}

func TestOpeningPaymentClearsBookingDetail(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	fetcher.hold("payment:4")
	dashboard, _, _ := authenticated(t, fetcher)
	ctx := context.Background()

	require.NoError(t, dashboard.OpenDetail(ctx, domain.DetailBooking, 7))
	require.NotNil(t, dashboard.State().BookingDetail)

	pending := goFetch(func() error { return dashboard.OpenDetail(ctx, domain.DetailPayment, 4) })
	waitForCall(t, fetcher, "payment:4")
	state := dashboard.State()
	assert.Nil(t, state.BookingDetail)
	assert.True(t, state.DetailLoading)

	fetcher.release("payment:4")
	require.NoError(t, <-pending)
	state = dashboard.State()
	assert.Nil(t, state.BookingDetail)
	require.NotNil(t, state.PaymentDetail)
	assert.Equal(t, int64(4), state.PaymentDetail.ID)
}

func TestStaleDetailResponseIsDiscarded(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	fetcher.hold("booking:1")
	dashboard, _, _ := authenticated(t, fetcher)
	ctx := context.Background()

	slow := goFetch(func() error { return dashboard.OpenDetail(ctx, domain.DetailBooking, 1) })
	waitForCall(t, fetcher, "booking:1")
	require.NoError(t, dashboard.OpenDetail(ctx, domain.DetailBooking, 2))

	fetcher.release("booking:1")
	assert.ErrorIs(t, <-slow, ErrSuperseded)

	state := dashboard.State()
	require.NotNil(t, state.BookingDetail)
	assert.Equal(t, int64(2), state.BookingDetail.ID)
	assert.Equal(t, int64(2), state.Selection.ID)
}

func TestCloseDetailDiscardsInFlightResponse(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	fetcher.hold("payment:9")
	dashboard, _, _ := authenticated(t, fetcher)
	ctx := context.Background()

	pending := goFetch(func() error { return dashboard.OpenDetail(ctx, domain.DetailPayment, 9) })
	waitForCall(t, fetcher, "payment:9")
	dashboard.CloseDetail()

	fetcher.release("payment:9")
	assert.ErrorIs(t, <-pending, ErrSuperseded)
	state := dashboard.State()
	assert.Nil(t, state.Selection)
	assert.Nil(t, state.PaymentDetail)
	assert.False(t, state.DetailLoading)
}

func TestForbiddenDetailShowsErrorWithoutRedirect(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	fetcher.booking = func(int64) (*domain.BookingDetail, error) {
		return nil, &domain.RequestError{Status: 403, Message: domain.StatusMessage(403)}
	}
	dashboard, navigator, _ := authenticated(t, fetcher)

	err := dashboard.OpenDetail(context.Background(), domain.DetailBooking, 7)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "booking.detail", fetchErr.Operation)

	state := dashboard.State()
	assert.Equal(t, domain.MessageForbidden, state.Error)
	assert.Equal(t, domain.PhaseAuthenticated, state.Phase)
	assert.Nil(t, state.BookingDetail)
	assert.False(t, state.DetailLoading)
	require.NotNil(t, state.Selection)
	assert.Equal(t, int64(7), state.Selection.ID)
	assert.Empty(t, navigator.redirects())
}

func TestDetailFetchKeepsListError(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	fetcher.payments = func(int) (*domain.Page[domain.PaymentRow], error) {
		return nil, &domain.RequestError{Status: 500}
	}
	dashboard, _, _ := authenticated(t, fetcher)
	ctx := context.Background()

	require.Error(t, dashboard.FetchPage(ctx, domain.CollectionPayments, 1))
	require.NoError(t, dashboard.OpenDetail(ctx, domain.DetailPayment, 1))
	assert.Equal(t, domain.MessageServerError, dashboard.State().Error)
}

func TestUnauthorizedDetailRedirectsAndClearsState(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	fetcher.bookings = func(page int) (*domain.Page[domain.BookingRow], error) { return bookingPage(page, 10, 25), nil }
	fetcher.payment = func(int64) (*domain.PaymentDetail, error) {
		return nil, &domain.RequestError{Status: 401, Detail: "Token expired"}
	}
	dashboard, navigator, renderer := authenticated(t, fetcher)
	ctx := context.Background()

	require.NoError(t, dashboard.FetchPage(ctx, domain.CollectionBookings, 1))
	assert.ErrorIs(t, dashboard.OpenDetail(ctx, domain.DetailPayment, 5), ErrRedirected)

	state := dashboard.State()
	assert.Equal(t, domain.PhaseRedirecting, state.Phase)
	assert.Empty(t, state.Bookings.Rows)
	assert.Nil(t, state.Selection)
	assert.Empty(t, state.Error)
	assert.Equal(t, []string{DefaultLoginPath}, navigator.redirects())

	calls := len(fetcher.callLog())
	assert.ErrorIs(t, dashboard.NextPage(ctx, domain.CollectionBookings), ErrRedirected)
	assert.Len(t, fetcher.callLog(), calls)

	versions := renderer.versions()
	assert.True(t, slices.IsSorted(versions), "versions %v", versions)
}

func TestTransportFailureMessage(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	fetcher.bookings = func(int) (*domain.Page[domain.BookingRow], error) {
		return nil, &domain.RequestError{Err: errors.New("dial tcp: refused"), Message: "The admin API could not be reached."}
	}
	dashboard, _, _ := authenticated(t, fetcher)

	require.Error(t, dashboard.FetchPage(context.Background(), domain.CollectionBookings, 1))
	assert.Equal(t, "The admin API could not be reached.", dashboard.State().Error)
}

func TestRefreshReloadsCurrentPageAndOpenDetail(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	fetcher.bookings = func(page int) (*domain.Page[domain.BookingRow], error) { return bookingPage(page, 10, 25), nil }
	dashboard, _, _ := authenticated(t, fetcher)
	ctx := context.Background()

	require.NoError(t, dashboard.FetchPage(ctx, domain.CollectionBookings, 2))
	require.NoError(t, dashboard.OpenDetail(ctx, domain.DetailBooking, 14))

	err := dashboard.Refresh(ctx, domain.ChangeEvent{Collection: domain.CollectionBookings, Action: domain.ActionUpdated, ResourceID: 14})
	require.NoError(t, err)
	assert.Equal(t, []string{"bookings:2:10", "booking:14", "bookings:2:10", "booking:14"}, fetcher.callLog())
}

func TestRefreshSkipsUnloadedCollections(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	dashboard, _, _ := authenticated(t, fetcher)
	ctx := context.Background()

	require.NoError(t, dashboard.OpenDetail(ctx, domain.DetailBooking, 3))
	require.NoError(t, dashboard.Refresh(ctx, domain.ChangeEvent{Collection: domain.CollectionPayments, ResourceID: 3}))
	assert.Equal(t, []string{"booking:3"}, fetcher.callLog())
}

func TestRefreshIgnoresUnauthenticatedViews(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	dashboard, _, _ := newTestDashboard("tok", fetcher)

	require.NoError(t, dashboard.Refresh(context.Background(), domain.ChangeEvent{Collection: domain.CollectionBookings}))
	assert.Empty(t, fetcher.callLog())
}

func TestRefreshKeepsErrorRaisedByAnotherCollection(t *testing.T) {
	t.Parallel()

	var paymentsDown atomic.Bool
	fetcher := newFakeFetcher()
	fetcher.bookings = func(page int) (*domain.Page[domain.BookingRow], error) {
		if page == 2 {
			return nil, &domain.RequestError{Status: 500}
		}
		return bookingPage(page, 10, 25), nil
	}
	fetcher.payments = func(int) (*domain.Page[domain.PaymentRow], error) {
		if paymentsDown.Load() {
			return nil, &domain.RequestError{Status: 403}
		}
		return &domain.Page[domain.PaymentRow]{Items: []domain.PaymentRow{{ID: 1}}, Total: 1, Page: 1, Limit: domain.PageSize}, nil
	}
	dashboard, _, _ := authenticated(t, fetcher)
	ctx := context.Background()

	require.NoError(t, dashboard.FetchPage(ctx, domain.CollectionPayments, 1))
	require.NoError(t, dashboard.FetchPage(ctx, domain.CollectionBookings, 1))
	require.Error(t, dashboard.FetchPage(ctx, domain.CollectionBookings, 2))
	require.Equal(t, domain.MessageServerError, dashboard.State().Error)

	require.NoError(t, dashboard.Refresh(ctx, domain.ChangeEvent{Collection: domain.CollectionPayments, Action: domain.ActionUpdated}))
	assert.Equal(t, domain.MessageServerError, dashboard.State().Error)

	paymentsDown.Store(true)
	require.Error(t, dashboard.Refresh(ctx, domain.ChangeEvent{Collection: domain.CollectionPayments, Action: domain.ActionUpdated}))
	state := dashboard.State()
	assert.Equal(t, domain.MessageServerError, state.Error)
	assert.Len(t, state.Payments.Rows, 1)
	assert.Equal(t, []string{"payments:1:10", "bookings:1:10", "bookings:2:10", "payments:1:10", "payments:1:10"}, fetcher.callLog())
}

func TestRefreshClearsErrorOfRecoveredCollection(t *testing.T) {
	t.Parallel()

	var bookingsDown atomic.Bool
	bookingsDown.Store(true)
	fetcher := newFakeFetcher()
	fetcher.bookings = func(page int) (*domain.Page[domain.BookingRow], error) {
		if bookingsDown.Load() && page == 2 {
			return nil, &domain.RequestError{Status: 500}
		}
		return bookingPage(page, 10, 25), nil
	}
	dashboard, _, _ := authenticated(t, fetcher)
	ctx := context.Background()

	require.NoError(t, dashboard.FetchPage(ctx, domain.CollectionBookings, 1))
	require.Error(t, dashboard.FetchPage(ctx, domain.CollectionBookings, 2))

	bookingsDown.Store(false)
	require.NoError(t, dashboard.Refresh(ctx, domain.ChangeEvent{Collection: domain.CollectionBookings, Action: domain.ActionCreated}))

	state := dashboard.State()
	assert.Empty(t, state.Error)
	assert.Equal(t, 2, state.Bookings.Page)
	assert.Equal(t, []int64{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, bookingIDs(state.Bookings.Rows))
}

func TestRefreshKeepsDetailWhenUpstreamFails(t *testing.T) {
	t.Parallel()

	var upstreamDown atomic.Bool
	fetcher := newFakeFetcher()
	fetcher.booking = func(id int64) (*domain.BookingDetail, error) {
		if upstreamDown.Load() {
			return nil, &domain.RequestError{Status: 502}
		}
		return &domain.BookingDetail{BookingRow: domain.BookingRow{ID: id, Reference: "BK-7"}}, nil
	}
	dashboard, navigator, _ := authenticated(t, fetcher)
	ctx := context.Background()

	require.NoError(t, dashboard.OpenDetail(ctx, domain.DetailBooking, 7))
	upstreamDown.Store(true)

	err := dashboard.Refresh(ctx, domain.ChangeEvent{Collection: domain.CollectionBookings, Action: domain.ActionUpdated, ResourceID: 7})
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "booking.detail", fetchErr.Operation)

	state := dashboard.State()
	require.NotNil(t, state.BookingDetail)
	assert.Equal(t, "BK-7", state.BookingDetail.Reference)
	require.NotNil(t, state.Selection)
	assert.Equal(t, int64(7), state.Selection.ID)
	assert.False(t, state.DetailLoading)
	assert.Equal(t, domain.MessageServerError, state.Error)
	assert.Empty(t, navigator.redirects())
}

func TestRefreshShowsCurrentDetailWhileInFlight(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	dashboard, _, renderer := authenticated(t, fetcher)
	ctx := context.Background()

	require.NoError(t, dashboard.OpenDetail(ctx, domain.DetailBooking, 7))
	rendered := len(renderer.versions())
	fetcher.hold("booking:7")

	done := goFetch(func() error {
		return dashboard.Refresh(ctx, domain.ChangeEvent{Collection: domain.CollectionBookings, Action: domain.ActionUpdated, ResourceID: 7})
	})
	require.Eventually(t, func() bool { return len(fetcher.callLog()) == 2 }, time.Second, time.Millisecond)

	state := dashboard.State()
	require.NotNil(t, state.BookingDetail)
	assert.False(t, state.DetailLoading)
	assert.Len(t, renderer.versions(), rendered, "refresh renders only its response")

	fetcher.release("booking:7")
	require.NoError(t, <-done)
	assert.Equal(t, int64(7), dashboard.State().BookingDetail.ID)
}

func TestRefreshLeavesInFlightPageToItsRequest(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	fetcher.bookings = func(page int) (*domain.Page[domain.BookingRow], error) { return bookingPage(page, 10, 25), nil }
	dashboard, _, _ := authenticated(t, fetcher)
	ctx := context.Background()

	require.NoError(t, dashboard.FetchPage(ctx, domain.CollectionBookings, 1))
	fetcher.hold("bookings:2:10")
	done := goFetch(func() error { return dashboard.NextPage(ctx, domain.CollectionBookings) })
	waitForCall(t, fetcher, "bookings:2:10")

	require.NoError(t, dashboard.Refresh(ctx, domain.ChangeEvent{Collection: domain.CollectionBookings, Action: domain.ActionCreated}))
	fetcher.release("bookings:2:10")
	require.NoError(t, <-done)

	assert.Equal(t, []string{"bookings:1:10", "bookings:2:10"}, fetcher.callLog())
	assert.False(t, dashboard.State().Bookings.Loading)
}
