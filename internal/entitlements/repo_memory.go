package entitlements

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu        sync.RWMutex
	bySession map[string]Entitlement
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{bySession: make(map[string]Entitlement)}
}

func (r *MemoryRepo) Create(ctx context.Context, ent Entitlement) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bySession[ent.CheckoutSessionID]; ok {
		return ErrDuplicateSession
	}
	if ent.CreatedAt.IsZero() {
		ent.CreatedAt = time.Now().UTC()
	}
	r.bySession[ent.CheckoutSessionID] = ent
	return nil
}

func (r *MemoryRepo) GetBySessionID(ctx context.Context, sessionID string) (Entitlement, error) {
	if err := ctx.Err(); err != nil {
		return Entitlement{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ent, ok := r.bySession[sessionID]
	if !ok {
		return Entitlement{}, ErrNotFound
	}
	return ent, nil
}

func (r *MemoryRepo) ActiveForUser(ctx context.Context, userID string, now time.Time) (Entitlement, error) {
	if err := ctx.Err(); err != nil {
		return Entitlement{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var best Entitlement
	found := false
	for _, ent := range r.bySession {
		if ent.UserID != userID || !ent.ExpiresAt.After(now) {
			continue
		}
		if !found || ent.ExpiresAt.After(best.ExpiresAt) {
			best = ent
			found = true
		}
	}
	if !found {
		return Entitlement{}, ErrNotFound
	}
	return best, nil
}
