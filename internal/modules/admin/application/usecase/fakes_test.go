package usecase

import (
	"context"
	"fmt"
	"sync"

	"resortAdmin/internal/modules/admin/domain"
)

type tokenProvider struct {
	mu    sync.Mutex
	token string
	reads int
}

func (p *tokenProvider) Token(context.Context) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reads++
	return p.token, p.token != ""
}

func (p *tokenProvider) readCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reads
}

type recordingNavigator struct {
	mu      sync.Mutex
	targets []string
}

func (n *recordingNavigator) Redirect(target string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.targets = append(n.targets, target)
}

func (n *recordingNavigator) redirects() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.targets...)
}

type recordingRenderer struct {
	mu     sync.Mutex
	states []domain.ViewState
}

func (r *recordingRenderer) Render(state domain.ViewState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
}

func (r *recordingRenderer) versions() []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	versions := make([]uint64, 0, len(r.states))
	for _, s := range r.states {
		versions = append(versions, s.Version)
	}
	return versions
}

// fakeFetcher records every call. Each response can be held back with gate
// so tests control completion order.
type fakeFetcher struct {
	mu       sync.Mutex
	calls    []string
	tokens   []string
	bookings func(page int) (*domain.Page[domain.BookingRow], error)
	payments func(page int) (*domain.Page[domain.PaymentRow], error)
	booking  func(id int64) (*domain.BookingDetail, error)
	payment  func(id int64) (*domain.PaymentDetail, error)
	gates    map[string]chan struct{}
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{gates: make(map[string]chan struct{})}
}

// hold makes the call identified by key block until release(key).
func (f *fakeFetcher) hold(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gates[key] = make(chan struct{})
}

func (f *fakeFetcher) release(key string) {
	f.mu.Lock()
	gate := f.gates[key]
	f.mu.Unlock()
	close(gate)
}

func (f *fakeFetcher) record(key, token string) {
	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.tokens = append(f.tokens, token)
	gate := f.gates[key]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
}

func (f *fakeFetcher) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeFetcher) FetchBookings(_ context.Context, token string, request domain.PageRequest) (*domain.Page[domain.BookingRow], error) {
	f.record(fmt.Sprintf("bookings:%d:%d", request.Page, request.Limit), token)
	if f.bookings == nil {
		return &domain.Page[domain.BookingRow]{Page: request.Page, Limit: request.Limit}, nil
	}
	return f.bookings(request.Page)
}

func (f *fakeFetcher) FetchPayments(_ context.Context, token string, request domain.PageRequest) (*domain.Page[domain.PaymentRow], error) {
	f.record(fmt.Sprintf("payments:%d:%d", request.Page, request.Limit), token)
	if f.payments == nil {
		return &domain.Page[domain.PaymentRow]{Page: request.Page, Limit: request.Limit}, nil
	}
	return f.payments(request.Page)
}

func (f *fakeFetcher) FetchBooking(_ context.Context, token string, id int64) (*domain.BookingDetail, error) {
	f.record(fmt.Sprintf("booking:%d", id), token)
	if f.booking == nil {
		return &domain.BookingDetail{BookingRow: domain.BookingRow{ID: id}}, nil
	}
	return f.booking(id)
}

func (f *fakeFetcher) FetchPayment(_ context.Context, token string, id int64) (*domain.PaymentDetail, error) {
	f.record(fmt.Sprintf("payment:%d", id), token)
	if f.payment == nil {
		return &domain.PaymentDetail{PaymentRow: domain.PaymentRow{ID: id}}, nil
	}
	return f.payment(id)
}

func bookingPage(page, count, total int) *domain.Page[domain.BookingRow] {
	items := make([]domain.BookingRow, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, domain.BookingRow{ID: int64((page-1)*domain.PageSize + i + 1)})
	}
	return &domain.Page[domain.BookingRow]{Items: items, Total: total, Page: page, Limit: domain.PageSize}
}

func bookingIDs(rows []domain.BookingRow) []int64 {
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids
}
