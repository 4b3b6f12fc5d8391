package auth

import (
	"testing"
	"time"
)

func TestSignAndVerifySession(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	token, err := SignSession("google:123", "a@b.test", "Ada", "https://pic.test/a.png", time.Hour)
	if err != nil {
		t.Fatalf("SignSession: %v", err)
	}

	claims, err := VerifySession(token)
	if err != nil {
		t.Fatalf("VerifySession: %v", err)
	}
	if claims.Subject != "google:123" {
		t.Fatalf("expected subject google:123, got %q", claims.Subject)
	}
	if claims.Email != "a@b.test" {
		t.Fatalf("expected email a@b.test, got %q", claims.Email)
	}
}

func TestVerifySessionRejectsExpired(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	token, err := SignSession("google:123", "", "", "", time.Nanosecond)
	if err != nil {
		t.Fatalf("SignSession: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := VerifySession(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestVerifySessionRejectsWrongSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "secret-one")
	token, err := SignSession("google:123", "", "", "", time.Hour)
	if err != nil {
		t.Fatalf("SignSession: %v", err)
	}

	t.Setenv("SESSION_SECRET", "secret-two")
	if _, err := VerifySession(token); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}

func TestSignSessionRequiresUserID(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	if _, err := SignSession("", "", "", "", time.Hour); err == nil {
		t.Fatalf("expected error for empty user id")
	}
}
