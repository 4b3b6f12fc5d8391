package entitlements

import (
	"context"
	"errors"
	"time"

	"docscan-backend/internal/shared/telemetry"
)

// Decision is the outcome of an access check.
type Decision struct {
	Allowed   bool
	Anonymous bool
	ExpiresAt time.Time
}

// Gate decides whether a caller may invoke recognition.
type Gate struct {
	Svc *Service
}

// Check applies the access policy. An anonymous caller is allowed through —
// an intentional permissive fallback, kept visible in the logs rather than
// silent. An authenticated caller needs a live entitlement or the check fails
// with ErrAccessDenied.
func (g *Gate) Check(ctx context.Context, userID string) (Decision, error) {
	if g == nil || g.Svc == nil {
		return Decision{}, errors.New("access gate not configured")
	}

	if userID == "" {
		telemetry.Warn("gate.anonymous_allow", nil)
		return Decision{Allowed: true, Anonymous: true}, nil
	}

	ent, err := g.Svc.Active(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Decision{}, ErrAccessDenied
		}
		return Decision{}, err
	}
	return Decision{Allowed: true, ExpiresAt: ent.ExpiresAt}, nil
}
