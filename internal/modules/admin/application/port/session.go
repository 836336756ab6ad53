package port

import (
	"context"
	"errors"

	"resortAdmin/internal/modules/admin/domain"
)

// ErrSessionStoreUnavailable indicates the backing session storage could not be read.
var ErrSessionStoreUnavailable = errors.New("session store unavailable")

// SessionTokenProvider exposes the stored admin token read-only. ok is false when no token is stored.
type SessionTokenProvider interface {
	Token(ctx context.Context) (token string, ok bool)
}

// SessionStore is the key/value storage written by the login flow.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// Navigator moves the user away from the current view.
type Navigator interface {
	Redirect(target string)
}

// ViewRenderer consumes view snapshots; it is the rendering surface of one activation.
type ViewRenderer interface {
	Render(state domain.ViewState)
}
