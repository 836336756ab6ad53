package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"resortAdmin/internal/modules/admin/domain"
)

const (
	messageTimeout     = "The server took too long to respond. Please try again."
	messageUnreachable = "Unable to reach the booking service. Check your connection and try again."
	maxErrorBodyBytes  = 4096
)

type errorBody struct {
	Detail any `json:"detail"`
}

// decodeErrorResponse turns a non-2xx response into a RequestError carrying the
// status, the raw transport message and the body's "detail" field if any.
func decodeErrorResponse(res *http.Response) *domain.RequestError {
	reqErr := &domain.RequestError{
		Status:  res.StatusCode,
		Message: domain.StatusMessage(res.StatusCode),
	}
	body, err := io.ReadAll(io.LimitReader(res.Body, maxErrorBodyBytes))
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		return reqErr
	}
	var payload errorBody
	if err := json.Unmarshal(body, &payload); err == nil {
		reqErr.Detail = payload.Detail
	}
	return reqErr
}

// transportError wraps failures that produced no HTTP response. Cancellation
// carries no message so the caller's fallback text is shown.
func transportError(err error) *domain.RequestError {
	switch {
	case errors.Is(err, context.Canceled):
		return &domain.RequestError{Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &domain.RequestError{Message: messageTimeout, Err: err}
	default:
		var timeoutErr interface{ Timeout() bool }
		if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
			return &domain.RequestError{Message: messageTimeout, Err: err}
		}
		return &domain.RequestError{Message: messageUnreachable, Err: err}
	}
}
