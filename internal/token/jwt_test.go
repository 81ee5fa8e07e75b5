package token

import (
	"context"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestJWTMinter_RoundTrip(t *testing.T) {
	m, err := NewJWTMinter(testSecret, "burtonmail", 0)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	tok, err := m.Mint(context.Background(), "M100")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if strings.Count(tok, ".") != 2 {
		t.Fatalf("not a JWT: %s", tok)
	}
	sub, err := m.Verify(tok)
	if err != nil || sub != "M100" {
		t.Fatalf("verify: sub=%q err=%v", sub, err)
	}
}

func TestJWTMinter_Expired(t *testing.T) {
	m, _ := NewJWTMinter(testSecret, "", time.Minute)
	base := time.Now()
	m.now = func() time.Time { return base }
	tok, _ := m.Mint(context.Background(), "M100")

	m.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := m.Verify(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTMinter_WrongSecret(t *testing.T) {
	a, _ := NewJWTMinter(testSecret, "", 0)
	b, _ := NewJWTMinter(strings.Repeat("x", 32), "", 0)
	tok, _ := a.Mint(context.Background(), "M100")
	if _, err := b.Verify(tok); err == nil {
		t.Fatalf("expected error with wrong secret")
	}
}

func TestJWTMinter_ShortSecret(t *testing.T) {
	if _, err := NewJWTMinter("short", "", 0); err == nil {
		t.Fatalf("expected error for short secret")
	}
}

func TestBuildResetLink(t *testing.T) {
	got, err := BuildResetLink("https://app.pwaburton.org/reset-password", "abc.def")
	if err != nil || got != "https://app.pwaburton.org/reset-password?token=abc.def" {
		t.Fatalf("got %q err=%v", got, err)
	}
	got, err = BuildResetLink("", "t")
	if err != nil || got != "http://localhost:5173/reset-password?token=t" {
		t.Fatalf("default: got %q err=%v", got, err)
	}
	got, err = BuildResetLink("https://x.org/r?lang=en", "t")
	if err != nil || got != "https://x.org/r?lang=en&token=t" {
		t.Fatalf("existing query: got %q err=%v", got, err)
	}
	if _, err := BuildResetLink("/relative", "t"); err == nil {
		t.Fatalf("expected error for relative url")
	}
}
