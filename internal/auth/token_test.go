package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type stubClock struct{ now time.Time }

func (c *stubClock) Now() time.Time { return c.now }

func newTestTokenService() (*TokenService, *stubClock) {
	clock := &stubClock{now: time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)}
	return NewTokenService("test-secret", clock), clock
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc, clock := newTestTokenService()

	signed, err := svc.IssueAccess(42, 30*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	payload, err := svc.Validate(signed)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if payload.Subject != 42 {
		t.Errorf("subject = %d, want 42", payload.Subject)
	}
	if payload.Type != TokenTypeAccess {
		t.Errorf("type = %q, want access", payload.Type)
	}
	if !payload.IssuedAt.Equal(clock.now) {
		t.Errorf("issued at = %v, want %v", payload.IssuedAt, clock.now)
	}
	if want := clock.now.Add(30 * time.Minute); !payload.ExpiresAt.Equal(want) {
		t.Errorf("expires at = %v, want %v", payload.ExpiresAt, want)
	}
}

func TestRefreshTokenCarriesType(t *testing.T) {
	svc, _ := newTestTokenService()

	signed, err := svc.IssueRefresh(7, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	payload, err := svc.Validate(signed)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if payload.Type != TokenTypeRefresh {
		t.Errorf("type = %q, want refresh", payload.Type)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	svc, clock := newTestTokenService()

	signed, err := svc.IssueAccess(1, 30*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	clock.now = clock.now.Add(31 * time.Minute)
	_, err = svc.Validate(signed)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expired token error = %v, want ErrTokenExpired", err)
	}
}

func TestValidateTamperedSignature(t *testing.T) {
	svc, _ := newTestTokenService()

	signed, err := svc.IssueAccess(1, 30*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(signed, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", signed)
	}
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]

	_, err = svc.Validate(tampered)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("tampered token error = %v, want ErrTokenInvalid", err)
	}
}

func TestValidateWrongKey(t *testing.T) {
	svc, clock := newTestTokenService()
	other := NewTokenService("another-secret", clock)

	signed, err := other.IssueAccess(1, 30*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = svc.Validate(signed)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("wrong-key token error = %v, want ErrTokenInvalid", err)
	}
}

func TestValidateGarbage(t *testing.T) {
	svc, _ := newTestTokenService()

	for _, tok := range []string{"", "abc", "a.b.c"} {
		if _, err := svc.Validate(tok); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("Validate(%q) error = %v, want ErrTokenInvalid", tok, err)
		}
	}
}

func TestTokensAreUnique(t *testing.T) {
	svc, _ := newTestTokenService()

	a, err := svc.IssueAccess(1, 30*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	b, err := svc.IssueAccess(1, 30*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if a == b {
		t.Error("two tokens for the same subject are identical; jti missing?")
	}
}
