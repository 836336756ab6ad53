package infrastructure

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"resortAdmin/internal/modules/admin/application/port"
	"resortAdmin/internal/modules/admin/domain"
)

const (
	outcomeOK             = "ok"
	outcomeUnauthorized   = "unauthorized"
	outcomeForbidden      = "forbidden"
	outcomeClientError    = "client_error"
	outcomeServerError    = "server_error"
	outcomeTransportError = "transport_error"
)

// FetchMetrics counts admin API calls by operation and outcome.
type FetchMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewFetchMetrics(registerer prometheus.Registerer) (*FetchMetrics, error) {
	m := &FetchMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resort_admin",
			Name:      "fetch_total",
			Help:      "Admin API fetches by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "resort_admin",
			Name:      "fetch_duration_seconds",
			Help:      "Admin API fetch latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if registerer == nil {
		return m, nil
	}
	if err := registerer.Register(m.requests); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}
		m.requests = already.ExistingCollector.(*prometheus.CounterVec)
	}
	if err := registerer.Register(m.duration); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}
		m.duration = already.ExistingCollector.(*prometheus.HistogramVec)
	}
	return m, nil
}

func (m *FetchMetrics) observe(operation string, started time.Time, err error) {
	m.duration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
	m.requests.WithLabelValues(operation, fetchOutcome(err)).Inc()
}

func fetchOutcome(err error) string {
	if err == nil {
		return outcomeOK
	}
	var reqErr *domain.RequestError
	if !errors.As(err, &reqErr) || reqErr.Status == 0 {
		return outcomeTransportError
	}
	switch {
	case reqErr.Status == http.StatusUnauthorized:
		return outcomeUnauthorized
	case reqErr.Status == http.StatusForbidden:
		return outcomeForbidden
	case reqErr.Status >= 400 && reqErr.Status < 500:
		return outcomeClientError
	default:
		return outcomeServerError
	}
}

// InstrumentedFetcher records metrics around another AdminFetcher.
type InstrumentedFetcher struct {
	next    port.AdminFetcher
	metrics *FetchMetrics
}

func NewInstrumentedFetcher(next port.AdminFetcher, metrics *FetchMetrics) port.AdminFetcher {
	if metrics == nil {
		return next
	}
	return &InstrumentedFetcher{next: next, metrics: metrics}
}

func (f *InstrumentedFetcher) FetchBookings(ctx context.Context, token string, request domain.PageRequest) (*domain.Page[domain.BookingRow], error) {
	started := time.Now()
	page, err := f.next.FetchBookings(ctx, token, request)
	f.metrics.observe("bookings.list", started, err)
	return page, err
}

func (f *InstrumentedFetcher) FetchPayments(ctx context.Context, token string, request domain.PageRequest) (*domain.Page[domain.PaymentRow], error) {
	started := time.Now()
	page, err := f.next.FetchPayments(ctx, token, request)
	f.metrics.observe("payments.list", started, err)
	return page, err
}

func (f *InstrumentedFetcher) FetchBooking(ctx context.Context, token string, id int64) (*domain.BookingDetail, error) {
	started := time.Now()
	record, err := f.next.FetchBooking(ctx, token, id)
	f.metrics.observe("booking.detail", started, err)
	return record, err
}

func (f *InstrumentedFetcher) FetchPayment(ctx context.Context, token string, id int64) (*domain.PaymentDetail, error) {
	started := time.Now()
	record, err := f.next.FetchPayment(ctx, token, id)
	f.metrics.observe("payment.detail", started, err)
	return record, err
}

var _ port.AdminFetcher = (*InstrumentedFetcher)(nil)
