package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/statusbot/internal/model"
)

// UserRepo is the sqlx-backed Users implementation.
type UserRepo struct {
	db *sqlx.DB
}

var _ Users = (*UserRepo)(nil)

// NewUserRepo binds the repository to a database handle.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Get returns the configuration for a user or ErrNotFound.
func (r *UserRepo) Get(ctx context.Context, userID int64) (*model.UserConfig, error) {
	var cfg model.UserConfig
	err := r.db.GetContext(ctx, &cfg,
		`SELECT user_id, group_id, thread_id, message_id, group_name, timezone, server_info, created_at
		 FROM users WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	return &cfg, nil
}

// Upsert writes the whole configuration row, replacing an existing one.
func (r *UserRepo) Upsert(ctx context.Context, cfg *model.UserConfig) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (user_id, group_id, thread_id, message_id, group_name, timezone, server_info)
		 VALUES ($1, $2, $3, $4, $5, COALESCE(NULLIF($6, ''), 'Asia/Yekaterinburg'), COALESCE(NULLIF($7, ''), 'Сервер'))
		 ON CONFLICT (user_id) DO UPDATE SET
		   group_id = EXCLUDED.group_id,
		   thread_id = EXCLUDED.thread_id,
		   message_id = EXCLUDED.message_id,
		   group_name = EXCLUDED.group_name,
		   timezone = EXCLUDED.timezone,
		   server_info = EXCLUDED.server_info`,
		cfg.UserID, cfg.GroupID, cfg.ThreadID, cfg.MessageID, cfg.GroupName, cfg.Timezone, cfg.ServerInfo)
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", cfg.UserID, err)
	}
	return nil
}

// UpdateLabel patches the display label shown in the status card.
func (r *UserRepo) UpdateLabel(ctx context.Context, userID int64, label string) error {
	return r.patch(ctx, userID, `UPDATE users SET server_info = $2 WHERE user_id = $1`, label)
}

// UpdateTimezone patches the owner's IANA timezone.
func (r *UserRepo) UpdateTimezone(ctx context.Context, userID int64, tz string) error {
	return r.patch(ctx, userID, `UPDATE users SET timezone = $2 WHERE user_id = $1`, tz)
}

// UpdateMessageID patches the id of the message being edited.
func (r *UserRepo) UpdateMessageID(ctx context.Context, userID int64, messageID int64) error {
	return r.patch(ctx, userID, `UPDATE users SET message_id = $2 WHERE user_id = $1`, messageID)
}

func (r *UserRepo) patch(ctx context.Context, userID int64, query string, arg any) error {
	res, err := r.db.ExecContext(ctx, query, userID, arg)
	if err != nil {
		return fmt.Errorf("patch user %d: %w", userID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the configuration row.
func (r *UserRepo) Delete(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", userID, err)
	}
	return nil
}

// List returns every configured user.
func (r *UserRepo) List(ctx context.Context) ([]model.UserConfig, error) {
	var users []model.UserConfig
	err := r.db.SelectContext(ctx, &users,
		`SELECT user_id, group_id, thread_id, message_id, group_name, timezone, server_info, created_at
		 FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ListOverview returns users joined with their latest status and subscriber count.
func (r *UserRepo) ListOverview(ctx context.Context) ([]model.UserOverview, error) {
	var rows []model.UserOverview
	err := r.db.SelectContext(ctx, &rows,
		`SELECT u.user_id, u.group_id, u.thread_id, u.message_id, u.group_name, u.timezone, u.server_info, u.created_at,
		        (SELECT ss.status FROM server_statuses ss
		         WHERE ss.user_id = u.user_id
		         ORDER BY ss.created_at DESC LIMIT 1) AS last_status,
		        (SELECT COUNT(*) FROM subscriptions s
		         WHERE s.target_user_id = u.user_id) AS subscribers_count
		 FROM users u ORDER BY u.created_at`)
	if err != nil {
		return nil, fmt.Errorf("list overview: %w", err)
	}
	return rows, nil
}
