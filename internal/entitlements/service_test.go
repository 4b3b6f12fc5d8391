package entitlements

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestGrantCreatesEntitlement(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(NewMemoryRepo(), 24*time.Hour)
	svc.now = fixedClock(start)

	ent, created, err := svc.Grant(context.Background(), "u1", "sess_123", "cus_9")
	if err != nil {
		t.Fatalf("Grant: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true for first delivery")
	}
	if ent.UserID != "u1" || ent.CheckoutSessionID != "sess_123" {
		t.Fatalf("unexpected entitlement %+v", ent)
	}
	if !ent.ExpiresAt.Equal(start.Add(24 * time.Hour)) {
		t.Fatalf("expected expiry 24h after grant, got %v", ent.ExpiresAt)
	}
	if !ent.ExpiresAt.After(ent.CreatedAt) {
		t.Fatalf("expiry must be strictly after creation")
	}
}

func TestGrantIsIdempotentPerSession(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, 24*time.Hour)

	first, created, err := svc.Grant(context.Background(), "u1", "sess_123", "")
	if err != nil || !created {
		t.Fatalf("first Grant: created=%v err=%v", created, err)
	}

	// Same event delivered again.
	second, created, err := svc.Grant(context.Background(), "u1", "sess_123", "")
	if err != nil {
		t.Fatalf("second Grant: %v", err)
	}
	if created {
		t.Fatalf("replayed delivery must not create a second entitlement")
	}
	if second.ID != first.ID {
		t.Fatalf("expected the original record back, got %q vs %q", second.ID, first.ID)
	}

	// Exactly one row for the session.
	if _, err := repo.GetBySessionID(context.Background(), "sess_123"); err != nil {
		t.Fatalf("GetBySessionID: %v", err)
	}
}

func TestGrantRecoversFromConcurrentDuplicate(t *testing.T) {
	repo := &racingRepo{MemoryRepo: NewMemoryRepo()}
	svc := NewService(repo, 24*time.Hour)

	ent, created, err := svc.Grant(context.Background(), "u1", "sess_race", "")
	if err != nil {
		t.Fatalf("Grant: %v", err)
	}
	if created {
		t.Fatalf("expected created=false when another writer won the insert")
	}
	if ent.UserID != "other-user" {
		t.Fatalf("expected the winner's record, got %+v", ent)
	}
}

// racingRepo simulates a concurrent webhook delivery: the session does not
// exist at lookup time but the insert hits the unique constraint.
type racingRepo struct {
	*MemoryRepo
	looked bool
}

func (r *racingRepo) GetBySessionID(ctx context.Context, sessionID string) (Entitlement, error) {
	if !r.looked {
		r.looked = true
		return Entitlement{}, ErrNotFound
	}
	return r.MemoryRepo.GetBySessionID(ctx, sessionID)
}

func (r *racingRepo) Create(ctx context.Context, ent Entitlement) error {
	other := ent
	other.ID = "winner"
	other.UserID = "other-user"
	if err := r.MemoryRepo.Create(ctx, other); err != nil {
		return err
	}
	return ErrDuplicateSession
}

func TestGrantRejectsMissingIdentifiers(t *testing.T) {
	svc := NewService(NewMemoryRepo(), 24*time.Hour)

	if _, _, err := svc.Grant(context.Background(), "", "sess_1", ""); err == nil {
		t.Fatalf("expected error for empty user id")
	}
	if _, _, err := svc.Grant(context.Background(), "u1", "  ", ""); err == nil {
		t.Fatalf("expected error for blank session id")
	}
}

func TestActiveReturnsLatestExpiry(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(NewMemoryRepo(), 24*time.Hour)

	svc.now = fixedClock(start)
	if _, _, err := svc.Grant(context.Background(), "u1", "sess_a", ""); err != nil {
		t.Fatalf("Grant: %v", err)
	}
	svc.now = fixedClock(start.Add(2 * time.Hour))
	if _, _, err := svc.Grant(context.Background(), "u1", "sess_b", ""); err != nil {
		t.Fatalf("Grant: %v", err)
	}

	ent, err := svc.Active(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if ent.CheckoutSessionID != "sess_b" {
		t.Fatalf("expected the later grant, got %+v", ent)
	}
}

func TestActiveExpires(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(NewMemoryRepo(), 24*time.Hour)
	svc.now = fixedClock(start)

	if _, _, err := svc.Grant(context.Background(), "u1", "sess_a", ""); err != nil {
		t.Fatalf("Grant: %v", err)
	}

	svc.now = fixedClock(start.Add(23 * time.Hour))
	if _, err := svc.Active(context.Background(), "u1"); err != nil {
		t.Fatalf("expected live entitlement before expiry: %v", err)
	}

	svc.now = fixedClock(start.Add(25 * time.Hour))
	if _, err := svc.Active(context.Background(), "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}
