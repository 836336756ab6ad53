package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken   = errors.New("missing token")
	ErrMalformedToken = errors.New("malformed token")
)

// Claims are the fields of an admin token used to attribute log lines.
type Claims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Inspect decodes the token's claims WITHOUT verifying its signature. The REST
// API is the only authority on validity; the result is for attribution only.
func Inspect(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return claims, nil
}

// Subject returns the best available identity for log lines, or "" if none.
func (c *Claims) Subject() string {
	if c == nil {
		return ""
	}
	if c.Email != "" {
		return c.Email
	}
	return c.RegisteredClaims.Subject
}

// ExpiredAt reports whether the token's exp claim lies before now.
func (c *Claims) ExpiredAt(now time.Time) bool {
	if c == nil || c.ExpiresAt == nil {
		return false
	}
	return !c.ExpiresAt.Time.After(now)
}

// Describe returns the subject of a token, or "unknown" when it cannot be decoded.
func Describe(token string) string {
	claims, err := Inspect(token)
	if err != nil || claims.Subject() == "" {
		return "unknown"
	}
	return claims.Subject()
}
