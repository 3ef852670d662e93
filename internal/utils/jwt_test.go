package utils

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "unit-test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(testSecret, "user-123", 15)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	if tok.Token == "" {
		t.Fatalf("expected non-empty token")
	}
	if remaining := time.Until(tok.Exp); remaining < 14*time.Minute || remaining > 16*time.Minute {
		t.Fatalf("expiry out of range: %v", remaining)
	}

	uid, err := ParseToken(testSecret, tok.Token, TokenTypeAccess)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if uid != "user-123" {
		t.Fatalf("subject = %q, want user-123", uid)
	}
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	tok, err := NewRefreshToken(testSecret, "user-123", 7)
	if err != nil {
		t.Fatalf("mint refresh token: %v", err)
	}
	if _, err := ParseToken(testSecret, tok.Token, TokenTypeAccess); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for wrong typ, got %v", err)
	}
	if _, err := ParseToken(testSecret, tok.Token, TokenTypeRefresh); err != nil {
		t.Fatalf("refresh token should verify as refresh: %v", err)
	}
}

func TestExpiredToken(t *testing.T) {
	tok, err := NewAccessToken(testSecret, "user-123", -1)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseToken(testSecret, tok.Token, TokenTypeAccess); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestWrongSecret(t *testing.T) {
	tok, err := NewAccessToken(testSecret, "user-123", 15)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseToken("other-secret", tok.Token, TokenTypeAccess); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for wrong secret, got %v", err)
	}
}

func TestTamperedToken(t *testing.T) {
	tok, err := NewAccessToken(testSecret, "user-123", 15)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	parts := strings.Split(tok.Token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape")
	}
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	if _, err := ParseToken(testSecret, tampered, TokenTypeAccess); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for tampered payload, got %v", err)
	}
}
