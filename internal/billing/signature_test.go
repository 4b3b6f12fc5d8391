package billing

import (
	"errors"
	"testing"
	"time"
)

func TestVerifySignatureRoundTrip(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Unix(1700000000, 0)

	header := SignPayload(payload, "whsec_test", now)
	if err := VerifySignature(payload, header, "whsec_test", now); err != nil {
		t.Fatalf("VerifySignature: %v", err)
	}
}

func TestVerifySignatureRejectsTamperedPayload(t *testing.T) {
	now := time.Unix(1700000000, 0)
	header := SignPayload([]byte(`{"amount":100}`), "whsec_test", now)

	err := VerifySignature([]byte(`{"amount":999}`), header, "whsec_test", now)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Unix(1700000000, 0)
	header := SignPayload(payload, "whsec_a", now)

	if err := VerifySignature(payload, header, "whsec_b", now); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifySignatureRejectsStaleTimestamp(t *testing.T) {
	payload := []byte(`{}`)
	issued := time.Unix(1700000000, 0)
	header := SignPayload(payload, "whsec_test", issued)

	// Within tolerance.
	if err := VerifySignature(payload, header, "whsec_test", issued.Add(4*time.Minute)); err != nil {
		t.Fatalf("expected signature within tolerance to verify: %v", err)
	}
	// Too old.
	if err := VerifySignature(payload, header, "whsec_test", issued.Add(6*time.Minute)); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected stale signature rejected, got %v", err)
	}
	// From the future.
	if err := VerifySignature(payload, header, "whsec_test", issued.Add(-6*time.Minute)); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected future signature rejected, got %v", err)
	}
}

func TestVerifySignatureRejectsMalformedHeaders(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Unix(1700000000, 0)

	for _, header := range []string{
		"",
		"t=1700000000",
		"v1=deadbeef",
		"t=notanumber,v1=deadbeef",
		"t=1700000000,v1=zzzz",
	} {
		if err := VerifySignature(payload, header, "whsec_test", now); !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("header %q: expected ErrInvalidSignature, got %v", header, err)
		}
	}
}
