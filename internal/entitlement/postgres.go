package entitlement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/celosoul/celosoul/internal/domain"
)

// PostgresRepository persists records in the entitlement_records table.
// One row per identity; the whole row is replaced on every write via
// upsert, so partial field updates never hit storage.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a repository backed by the given database.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the record for the identity, or ErrNotFound.
func (r *PostgresRepository) Get(ctx context.Context, identity string) (*domain.EntitlementRecord, error) {
	const query = `
		SELECT swipes_used, super_likes_used, tips_given, last_reset_date,
		       subscription_plan_id, subscription_expires_at
		FROM entitlement_records
		WHERE identity_key = $1`

	var (
		rec       domain.EntitlementRecord
		lastReset time.Time
		planID    sql.NullString
		expiresAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, identity).Scan(
		&rec.SwipesUsed,
		&rec.SuperLikesUsed,
		&rec.TipsGiven,
		&lastReset,
		&planID,
		&expiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query entitlement record: %w", err)
	}

	rec.LastReset = lastReset.Format(domain.ResetDateLayout)
	if planID.Valid && expiresAt.Valid {
		rec.Subscription = &domain.Subscription{
			PlanID:    planID.String,
			ExpiresAt: expiresAt.Time,
		}
	}
	return &rec, nil
}

// Put upserts the full record for the identity.
func (r *PostgresRepository) Put(ctx context.Context, identity string, rec *domain.EntitlementRecord) error {
	const query = `
		INSERT INTO entitlement_records (
			identity_key, swipes_used, super_likes_used, tips_given,
			last_reset_date, subscription_plan_id, subscription_expires_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (identity_key) DO UPDATE SET
			swipes_used = EXCLUDED.swipes_used,
			super_likes_used = EXCLUDED.super_likes_used,
			tips_given = EXCLUDED.tips_given,
			last_reset_date = EXCLUDED.last_reset_date,
			subscription_plan_id = EXCLUDED.subscription_plan_id,
			subscription_expires_at = EXCLUDED.subscription_expires_at,
			updated_at = now()`

	lastReset, err := time.Parse(domain.ResetDateLayout, rec.LastReset)
	if err != nil {
		return fmt.Errorf("invalid last reset date %q: %w", rec.LastReset, err)
	}

	var (
		planID    sql.NullString
		expiresAt sql.NullTime
	)
	if rec.Subscription != nil {
		planID = sql.NullString{String: rec.Subscription.PlanID, Valid: true}
		expiresAt = sql.NullTime{Time: rec.Subscription.ExpiresAt, Valid: true}
	}

	if _, err := r.db.ExecContext(ctx, query,
		identity,
		rec.SwipesUsed,
		rec.SuperLikesUsed,
		rec.TipsGiven,
		lastReset,
		planID,
		expiresAt,
	); err != nil {
		return fmt.Errorf("upsert entitlement record: %w", err)
	}
	return nil
}
