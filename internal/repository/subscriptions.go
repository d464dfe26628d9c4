package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SubscriptionRepo is the sqlx-backed Subscriptions implementation.
//
// Edge uniqueness is enforced only by the Exists pre-check in the service
// layer, not by the schema; concurrent subscribes can race and create
// duplicate edges.
type SubscriptionRepo struct {
	db *sqlx.DB
}

var _ Subscriptions = (*SubscriptionRepo)(nil)

// NewSubscriptionRepo binds the repository to a database handle.
func NewSubscriptionRepo(db *sqlx.DB) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

// Exists reports whether the (subscriber, target) edge is present.
func (r *SubscriptionRepo) Exists(ctx context.Context, subscriberID, targetUserID int64) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1 AND target_user_id = $2`,
		subscriberID, targetUserID)
	if err != nil {
		return false, fmt.Errorf("subscription exists: %w", err)
	}
	return count > 0, nil
}

// Add inserts a new edge.
func (r *SubscriptionRepo) Add(ctx context.Context, subscriberID, targetUserID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subscriptions (subscriber_id, target_user_id) VALUES ($1, $2)`,
		subscriberID, targetUserID)
	if err != nil {
		return fmt.Errorf("add subscription: %w", err)
	}
	return nil
}

// Remove deletes one edge.
func (r *SubscriptionRepo) Remove(ctx context.Context, subscriberID, targetUserID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE subscriber_id = $1 AND target_user_id = $2`,
		subscriberID, targetUserID)
	if err != nil {
		return fmt.Errorf("remove subscription: %w", err)
	}
	return nil
}

// RemoveBySubscriber deletes every edge where the user is the subscriber.
// Edges where the user is only a target are left untouched.
func (r *SubscriptionRepo) RemoveBySubscriber(ctx context.Context, subscriberID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE subscriber_id = $1`, subscriberID)
	if err != nil {
		return fmt.Errorf("remove subscriptions of %d: %w", subscriberID, err)
	}
	return nil
}

// RemoveByUser deletes edges in both directions (user reset cascade).
func (r *SubscriptionRepo) RemoveByUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE subscriber_id = $1 OR target_user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("remove edges of %d: %w", userID, err)
	}
	return nil
}

// Subscribers lists user ids subscribed to the target.
func (r *SubscriptionRepo) Subscribers(ctx context.Context, targetUserID int64) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids,
		`SELECT subscriber_id FROM subscriptions WHERE target_user_id = $1 ORDER BY created_at`,
		targetUserID)
	if err != nil {
		return nil, fmt.Errorf("subscribers of %d: %w", targetUserID, err)
	}
	return ids, nil
}

// Targets lists owner ids the subscriber follows.
func (r *SubscriptionRepo) Targets(ctx context.Context, subscriberID int64) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids,
		`SELECT target_user_id FROM subscriptions WHERE subscriber_id = $1 ORDER BY created_at`,
		subscriberID)
	if err != nil {
		return nil, fmt.Errorf("targets of %d: %w", subscriberID, err)
	}
	return ids, nil
}

// CountByTarget returns the live subscriber count of the target.
func (r *SubscriptionRepo) CountByTarget(ctx context.Context, targetUserID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM subscriptions WHERE target_user_id = $1`, targetUserID)
	if err != nil {
		return 0, fmt.Errorf("count subscribers of %d: %w", targetUserID, err)
	}
	return count, nil
}
