package entitlements

import (
	"context"
	"time"
)

// Repo persists entitlement records.
type Repo interface {
	// Create inserts a new record. ErrDuplicateSession is returned when a
	// record for the same checkout session already exists.
	Create(ctx context.Context, ent Entitlement) error
	// GetBySessionID fetches the record keyed by the external checkout
	// session identifier.
	GetBySessionID(ctx context.Context, sessionID string) (Entitlement, error)
	// ActiveForUser fetches the record with the latest expiry strictly after
	// now for the given user.
	ActiveForUser(ctx context.Context, userID string, now time.Time) (Entitlement, error)
}
