package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"resortAdmin/internal/modules/admin/application/port"
	"resortAdmin/internal/modules/admin/domain"
)

// AdminHTTPClient implements port.AdminFetcher against the admin REST API.
type AdminHTTPClient struct {
	rest    *RESTClient
	timeout time.Duration
}

type pathBuilder func(string) (string, error)

type collectionEndpoint struct {
	listPathBuilder   pathBuilder
	detailPathBuilder pathBuilder
}

var collectionEndpoints = map[domain.Collection]collectionEndpoint{
	domain.CollectionBookings: {
		listPathBuilder:   staticPathBuilder("/admin/bookings"),
		detailPathBuilder: resourcePathBuilder("/admin/bookings"),
	},
	domain.CollectionPayments: {
		listPathBuilder:   staticPathBuilder("/admin/payments"),
		detailPathBuilder: resourcePathBuilder("/admin/payments"),
	},
}

func staticPathBuilder(path string) pathBuilder {
	trimmed := strings.TrimSpace(path)
	return func(string) (string, error) {
		if trimmed == "" {
			return "", fmt.Errorf("missing path configuration")
		}
		return trimmed, nil
	}
}

func resourcePathBuilder(base string) pathBuilder {
	trimmed := strings.TrimSpace(base)
	return func(value string) (string, error) {
		identifier := strings.TrimSpace(value)
		if identifier == "" {
			return "", fmt.Errorf("missing resource identifier")
		}
		return strings.TrimRight(trimmed, "/") + "/" + url.PathEscape(identifier), nil
	}
}

func NewAdminHTTPClient(baseURL string, timeout time.Duration, client *http.Client) *AdminHTTPClient {
	return &AdminHTTPClient{rest: NewRESTClient(baseURL, timeout, client), timeout: timeoutOrDefault(timeout)}
}

func (c *AdminHTTPClient) FetchBookings(ctx context.Context, token string, request domain.PageRequest) (*domain.Page[domain.BookingRow], error) {
	return fetchCollectionPage[domain.BookingRow](ctx, c, token, domain.CollectionBookings, request)
}

func (c *AdminHTTPClient) FetchPayments(ctx context.Context, token string, request domain.PageRequest) (*domain.Page[domain.PaymentRow], error) {
	return fetchCollectionPage[domain.PaymentRow](ctx, c, token, domain.CollectionPayments, request)
}

func (c *AdminHTTPClient) FetchBooking(ctx context.Context, token string, id int64) (*domain.BookingDetail, error) {
	return fetchCollectionRecord[domain.BookingDetail](ctx, c, token, domain.CollectionBookings, id)
}

func (c *AdminHTTPClient) FetchPayment(ctx context.Context, token string, id int64) (*domain.PaymentDetail, error) {
	return fetchCollectionRecord[domain.PaymentDetail](ctx, c, token, domain.CollectionPayments, id)
}

func fetchCollectionPage[T any](ctx context.Context, c *AdminHTTPClient, token string, collection domain.Collection, request domain.PageRequest) (*domain.Page[T], error) {
	endpoint, ok := collectionEndpoints[collection]
	if !ok || endpoint.listPathBuilder == nil {
		slog.Warn("admin list collection unsupported", slog.String("collection", string(collection)))
		return nil, &domain.RequestError{Err: port.ErrCollectionUnsupported}
	}
	listPath, err := endpoint.listPathBuilder("")
	if err != nil {
		return nil, &domain.RequestError{Err: err}
	}

	normalized := request.Normalize()
	slog.Info("admin list fetch start", slog.String("collection", string(collection)), slog.Int("page", normalized.Page), slog.Int("limit", normalized.Limit))

	var page domain.Page[T]
	if err := c.getJSON(ctx, token, listPath, normalized.ToURLValues(), &page); err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return &page, nil
}

func fetchCollectionRecord[T any](ctx context.Context, c *AdminHTTPClient, token string, collection domain.Collection, id int64) (*T, error) {
	endpoint, ok := collectionEndpoints[collection]
	if !ok || endpoint.detailPathBuilder == nil {
		slog.Warn("admin detail collection unsupported", slog.String("collection", string(collection)))
		return nil, &domain.RequestError{Err: port.ErrCollectionUnsupported}
	}
	detailPath, err := endpoint.detailPathBuilder(strconv.FormatInt(id, 10))
	if err != nil {
		return nil, &domain.RequestError{Err: err}
	}

	slog.Info("admin detail fetch start", slog.String("collection", string(collection)), slog.Int64("id", id))

	var record T
	if err := c.getJSON(ctx, token, detailPath, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *AdminHTTPClient) getJSON(ctx context.Context, token, path string, query url.Values, target any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := c.rest.NewRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		slog.Error("admin request build failed", slog.String("path", path), slog.Any("error", err))
		return &domain.RequestError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if trimmed := strings.TrimSpace(token); trimmed != "" {
		req.Header.Set("Authorization", "Bearer "+trimmed)
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	slog.Debug("admin request", slog.String("url", req.URL.String()))

	res, err := c.rest.Do(req)
	if err != nil {
		slog.Error("admin request error", slog.String("path", path), slog.Any("error", err))
		return transportError(err)
	}
	defer res.Body.Close()
	slog.Debug("admin response", slog.Int("status", res.StatusCode), slog.String("url", req.URL.String()))

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		reqErr := decodeErrorResponse(res)
		slog.Warn("admin request unexpected status", slog.Int("status", res.StatusCode), slog.String("url", req.URL.String()), slog.Any("detail", reqErr.Detail))
		return reqErr
	}

	if err := json.NewDecoder(res.Body).Decode(target); err != nil {
		slog.Error("admin response decode failed", slog.String("url", req.URL.String()), slog.Any("error", err))
		return &domain.RequestError{Err: fmt.Errorf("decode %s: %w", path, err)}
	}
	return nil
}

var _ port.AdminFetcher = (*AdminHTTPClient)(nil)
