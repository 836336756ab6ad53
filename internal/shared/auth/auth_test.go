package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unrelated-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestInspectReadsClaimsWithoutVerifying(t *testing.T) {
	expires := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	token := signedToken(t, Claims{
		Email: "admin@resort.test",
		Roles: []string{"admin"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})

	claims, err := Inspect(token)
	if err != nil {
		t.Fatalf("expected claims, got %v", err)
	}
	if claims.Subject() != "admin@resort.test" {
		t.Fatalf("expected email subject, got %s", claims.Subject())
	}
	if !claims.ExpiredAt(expires) || claims.ExpiredAt(expires.Add(-time.Minute)) {
		t.Fatalf("unexpected expiry evaluation for %v", expires)
	}
	if got := Describe(token); got != "admin@resort.test" {
		t.Fatalf("expected describe to return email, got %s", got)
	}
}

func TestInspectFallsBackToSubject(t *testing.T) {
	token := signedToken(t, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-9"}})
	if got := Describe(token); got != "user-9" {
		t.Fatalf("expected sub claim, got %s", got)
	}
}

func TestInspectErrors(t *testing.T) {
	if _, err := Inspect("  "); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if _, err := Inspect("not-a-jwt"); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
	if got := Describe("not-a-jwt"); got != "unknown" {
		t.Fatalf("expected unknown, got %s", got)
	}
	var nilClaims *Claims
	if nilClaims.Subject() != "" || nilClaims.ExpiredAt(time.Now()) {
		t.Fatalf("nil claims should be empty and unexpired")
	}
}

func TestExtractToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/admin?token=query-token", nil)
	if got := ExtractToken(r, ""); got != "query-token" {
		t.Fatalf("expected query token, got %s", got)
	}

	r.Header.Set("Authorization", "bearer header-token ")
	if got := ExtractToken(r, "token"); got != "header-token" {
		t.Fatalf("expected header token to win, got %s", got)
	}

	if got := ExtractBearerTokenFromHeader("Basic abc"); got != "" {
		t.Fatalf("expected no token for basic auth, got %s", got)
	}
	if got := ExtractBearerTokenFromHeader("Bearer "); got != "" {
		t.Fatalf("expected no token for empty bearer, got %s", got)
	}
	if got := ExtractBearerToken(nil); got != "" {
		t.Fatalf("expected empty token for nil request")
	}
}

func TestExtractSessionID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if got := ExtractSessionID(r, "admin_sid"); got != "" {
		t.Fatalf("expected no session without cookie, got %s", got)
	}
	r.AddCookie(&http.Cookie{Name: "admin_sid", Value: " sid-1 "})
	if got := ExtractSessionID(r, "admin_sid"); got != "sid-1" {
		t.Fatalf("expected sid-1, got %s", got)
	}
	if got := ExtractSessionID(r, ""); got != "" {
		t.Fatalf("expected empty cookie name to yield nothing, got %s", got)
	}
}
