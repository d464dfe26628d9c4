package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/statusbot/internal/model"
)

// StatusRepo is the sqlx-backed Statuses implementation.
type StatusRepo struct {
	db *sqlx.DB
}

var _ Statuses = (*StatusRepo)(nil)

// NewStatusRepo binds the repository to a database handle.
func NewStatusRepo(db *sqlx.DB) *StatusRepo {
	return &StatusRepo{db: db}
}

// Append records one history row. History is append-only: rows are never
// updated and repeated values are not deduplicated.
func (r *StatusRepo) Append(ctx context.Context, userID int64, status model.Status) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO server_statuses (user_id, status) VALUES ($1, $2)`,
		userID, string(status))
	if err != nil {
		return fmt.Errorf("append status for %d: %w", userID, err)
	}
	return nil
}

// History returns the newest events first, up to limit.
func (r *StatusRepo) History(ctx context.Context, userID int64, limit int) ([]model.StatusEvent, error) {
	if limit <= 0 {
		limit = 10
	}
	var events []model.StatusEvent
	err := r.db.SelectContext(ctx, &events,
		`SELECT id, user_id, status, created_at FROM server_statuses
		 WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("history for %d: %w", userID, err)
	}
	return events, nil
}

// LatestCounts aggregates the latest status of every user into per-status counts.
func (r *StatusRepo) LatestCounts(ctx context.Context) (map[model.Status]int, error) {
	rows := []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}{}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT ss.status, COUNT(*) AS count
		 FROM server_statuses ss
		 INNER JOIN (
		     SELECT user_id, MAX(created_at) AS max_date
		     FROM server_statuses GROUP BY user_id
		 ) latest ON ss.user_id = latest.user_id AND ss.created_at = latest.max_date
		 GROUP BY ss.status`)
	if err != nil {
		return nil, fmt.Errorf("latest counts: %w", err)
	}
	counts := make(map[model.Status]int, len(rows))
	for _, row := range rows {
		counts[model.ParseStatus(row.Status)] += row.Count
	}
	return counts, nil
}

// DeleteByUser removes the whole history of a user (reset cascade).
func (r *StatusRepo) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM server_statuses WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete statuses for %d: %w", userID, err)
	}
	return nil
}
