package entitlements

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, ent Entitlement) error {
	const query = `
INSERT INTO entitlements (id, user_id, checkout_session_id, customer_id, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5, now())`
	_, err := r.DB.ExecContext(ctx, query,
		ent.ID,
		ent.UserID,
		ent.CheckoutSessionID,
		nullableString(ent.CustomerID),
		ent.ExpiresAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateSession
		}
		return err
	}
	return nil
}

func (r *PGRepo) GetBySessionID(ctx context.Context, sessionID string) (Entitlement, error) {
	const query = `
SELECT id, user_id, checkout_session_id, customer_id, expires_at, created_at
FROM entitlements
WHERE checkout_session_id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, sessionID))
}

func (r *PGRepo) ActiveForUser(ctx context.Context, userID string, now time.Time) (Entitlement, error) {
	const query = `
SELECT id, user_id, checkout_session_id, customer_id, expires_at, created_at
FROM entitlements
WHERE user_id = $1 AND expires_at > $2
ORDER BY expires_at DESC
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID, now))
}

func (r *PGRepo) scanOne(row *sql.Row) (Entitlement, error) {
	var ent Entitlement
	var customerID sql.NullString
	err := row.Scan(
		&ent.ID,
		&ent.UserID,
		&ent.CheckoutSessionID,
		&customerID,
		&ent.ExpiresAt,
		&ent.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entitlement{}, ErrNotFound
		}
		return Entitlement{}, err
	}
	if customerID.Valid {
		ent.CustomerID = customerID.String
	}
	return ent, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
