package entitlements

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"docscan-backend/internal/shared/metrics"
	"docscan-backend/internal/shared/telemetry"
)

// Service grants and queries entitlements.
type Service struct {
	Repo        Repo
	GrantPeriod time.Duration
	now         func() time.Time
}

// NewService constructs a Service with the given grant period.
func NewService(repo Repo, grantPeriod time.Duration) *Service {
	if grantPeriod <= 0 {
		grantPeriod = 24 * time.Hour
	}
	return &Service{Repo: repo, GrantPeriod: grantPeriod, now: time.Now}
}

// Grant records a new entitlement for a completed checkout session. It is
// idempotent per session id: a replayed event returns the existing record and
// created=false. The expiry is strictly after creation time.
func (s *Service) Grant(ctx context.Context, userID, sessionID, customerID string) (Entitlement, bool, error) {
	if s == nil || s.Repo == nil {
		return Entitlement{}, false, errors.New("entitlements service not configured")
	}
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(sessionID) == "" {
		return Entitlement{}, false, errors.New("user id and session id are required")
	}

	existing, err := s.Repo.GetBySessionID(ctx, sessionID)
	if err == nil {
		telemetry.Info("entitlements.already_processed", map[string]any{
			"session_id": sessionID,
			"user_id":    existing.UserID,
		})
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Entitlement{}, false, err
	}

	now := s.now().UTC()
	ent := Entitlement{
		ID:                uuid.NewString(),
		UserID:            userID,
		CheckoutSessionID: sessionID,
		CustomerID:        customerID,
		ExpiresAt:         now.Add(s.GrantPeriod),
		CreatedAt:         now,
	}
	if err := s.Repo.Create(ctx, ent); err != nil {
		if errors.Is(err, ErrDuplicateSession) {
			// Concurrent duplicate delivery: the other writer won. Same
			// idempotent outcome as the lookup above.
			telemetry.Info("entitlements.already_processed", map[string]any{
				"session_id": sessionID,
				"user_id":    userID,
			})
			existing, getErr := s.Repo.GetBySessionID(ctx, sessionID)
			if getErr != nil {
				return Entitlement{}, false, getErr
			}
			return existing, false, nil
		}
		return Entitlement{}, false, err
	}

	metrics.IncEntitlementGranted()
	telemetry.Info("entitlements.granted", map[string]any{
		"session_id": sessionID,
		"user_id":    userID,
		"expires_at": ent.ExpiresAt.Format(time.RFC3339),
	})
	return ent, true, nil
}

// Active returns the live entitlement for a user, or ErrNotFound.
func (s *Service) Active(ctx context.Context, userID string) (Entitlement, error) {
	if s == nil || s.Repo == nil {
		return Entitlement{}, errors.New("entitlements service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return Entitlement{}, ErrNotFound
	}
	return s.Repo.ActiveForUser(ctx, userID, s.now().UTC())
}
