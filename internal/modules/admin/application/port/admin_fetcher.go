package port

import (
	"context"
	"errors"

	"resortAdmin/internal/modules/admin/domain"
)

// ErrCollectionUnsupported is returned when no endpoint is configured for a collection.
var ErrCollectionUnsupported = errors.New("admin collection unsupported")

// AdminFetcher reads admin collections and records from the REST API.
// Failures are reported as *domain.RequestError.
type AdminFetcher interface {
	FetchBookings(ctx context.Context, token string, request domain.PageRequest) (*domain.Page[domain.BookingRow], error)
	FetchPayments(ctx context.Context, token string, request domain.PageRequest) (*domain.Page[domain.PaymentRow], error)
	FetchBooking(ctx context.Context, token string, id int64) (*domain.BookingDetail, error)
	FetchPayment(ctx context.Context, token string, id int64) (*domain.PaymentDetail, error)
}
