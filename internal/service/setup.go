package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/m3rciful/statusbot/internal/config"
	"github.com/m3rciful/statusbot/internal/logger"
	"github.com/m3rciful/statusbot/internal/model"
	"github.com/m3rciful/statusbot/internal/repository"
)

// Config returns the stored configuration, or ErrNotConfigured.
func (s *Service) Config(ctx context.Context, userID int64) (*model.UserConfig, error) {
	cfg, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, ErrNotConfigured
	}
	return cfg, nil
}

// SetupManual stores a configuration supplied field-by-field by the user.
// threadID nil means the group has no forum thread.
func (s *Service) SetupManual(ctx context.Context, userID, groupID int64, threadID *int64, messageID int64, label string) error {
	cfg := &model.UserConfig{
		UserID:    userID,
		GroupID:   groupID,
		MessageID: sql.NullInt64{Int64: messageID, Valid: true},
		GroupName: label,
		Timezone:  config.DefaultTimezone,
	}
	if threadID != nil {
		cfg.ThreadID = sql.NullInt64{Int64: *threadID, Valid: true}
	}
	if err := s.users.Upsert(ctx, cfg); err != nil {
		return fmt.Errorf("manual setup: %w", err)
	}
	logger.WF.Info("user configured",
		slog.String("event", "setup.manual"),
		slog.Int64("user_id", userID),
		slog.Int64("group_id", groupID),
		slog.Int64("message_id", messageID),
	)
	return nil
}

// QuickSetup sends a bootstrap status message into the group and stores a
// fresh configuration around its id. The caller validates that groupID is
// negative before any gateway call is made.
func (s *Service) QuickSetup(ctx context.Context, userID, groupID int64) (int64, error) {
	messageID, err := s.gateway.Send(ctx, groupID, 0, RenderBootstrapCard(s.now()))
	if err != nil {
		return 0, fmt.Errorf("quick setup send: %w", err)
	}

	cfg := &model.UserConfig{
		UserID:    userID,
		GroupID:   groupID,
		MessageID: sql.NullInt64{Int64: messageID, Valid: true},
		GroupName: fmt.Sprintf("Группа %d", groupID),
		Timezone:  config.DefaultTimezone,
	}
	if err := s.users.Upsert(ctx, cfg); err != nil {
		return 0, fmt.Errorf("quick setup store: %w", err)
	}
	logger.WF.Info("user configured",
		slog.String("event", "setup.quick"),
		slog.Int64("user_id", userID),
		slog.Int64("group_id", groupID),
		slog.Int64("message_id", messageID),
	)
	return messageID, nil
}

// SetLabel patches the display label shown in the status card.
func (s *Service) SetLabel(ctx context.Context, userID int64, label string) error {
	if err := s.users.UpdateLabel(ctx, userID, label); err != nil {
		return ErrNotConfigured
	}
	return nil
}

// SetTimezone validates the zone name against the IANA database and stores it.
func (s *Service) SetTimezone(ctx context.Context, userID int64, tz string) error {
	if _, err := time.LoadLocation(tz); err != nil || tz == "" {
		return ErrBadTimezone
	}
	if err := s.users.UpdateTimezone(ctx, userID, tz); err != nil {
		return ErrNotConfigured
	}
	return nil
}

// Reset deletes the configuration, the whole status history, and every
// subscription edge touching the user.
func (s *Service) Reset(ctx context.Context, userID int64) error {
	if err := s.users.Delete(ctx, userID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("reset user: %w", err)
	}
	if err := s.statuses.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("reset statuses: %w", err)
	}
	if err := s.subs.RemoveByUser(ctx, userID); err != nil {
		return fmt.Errorf("reset subscriptions: %w", err)
	}
	logger.WF.Info("user reset",
		slog.String("event", "user.reset"),
		slog.Int64("user_id", userID),
	)
	return nil
}
