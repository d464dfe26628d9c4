package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m3rciful/statusbot/internal/logger"
	"github.com/m3rciful/statusbot/internal/model"
)

// RecordStatus appends a history row, re-renders the status card, and fans
// out notifications to subscribers. It returns the number of subscribers
// notified successfully.
//
// The history row is written before the card edit and is deliberately NOT
// rolled back when the edit fails: history can run ahead of the displayed
// card until the next successful change.
func (s *Service) RecordStatus(ctx context.Context, userID int64, status model.Status) (int, error) {
	cfg, err := s.users.Get(ctx, userID)
	if err != nil {
		return 0, ErrNotConfigured
	}

	if err := s.statuses.Append(ctx, userID, status); err != nil {
		return 0, fmt.Errorf("record status: %w", err)
	}

	if !cfg.MessageID.Valid {
		logger.WF.Warn("status recorded without card",
			slog.String("event", "status.no_message"),
			slog.Int64("user_id", userID),
			slog.String("status", string(status)),
		)
		return 0, ErrNoStatusMessage
	}

	count, err := s.subs.CountByTarget(ctx, userID)
	if err != nil {
		count = 0
	}
	card := RenderCard(cfg, status, count, s.now())

	if err := s.gateway.Edit(ctx, cfg.GroupID, cfg.MessageID.Int64, card); err != nil {
		logger.WF.Warn("card edit failed",
			slog.String("event", "status.edit_failed"),
			slog.Int64("user_id", userID),
			slog.Int64("group_id", cfg.GroupID),
			slog.Int64("message_id", cfg.MessageID.Int64),
			slog.String("err", err.Error()),
		)
		return 0, fmt.Errorf("edit status card: %w", err)
	}

	notified := s.notifySubscribers(ctx, cfg, status)
	logger.WF.Info("status recorded",
		slog.String("event", "status.recorded"),
		slog.Int64("user_id", userID),
		slog.String("status", string(status)),
		slog.Int("notified", notified),
	)
	return notified, nil
}

// notifySubscribers sends one direct message per subscriber. Per-recipient
// failures are logged and skipped; the returned value is the success count.
func (s *Service) notifySubscribers(ctx context.Context, cfg *model.UserConfig, status model.Status) int {
	subscribers, err := s.subs.Subscribers(ctx, cfg.UserID)
	if err != nil {
		logger.WF.Error("subscriber lookup failed",
			slog.String("event", "notify.lookup_failed"),
			slog.Int64("user_id", cfg.UserID),
			slog.String("err", err.Error()),
		)
		return 0
	}
	if len(subscribers) == 0 {
		return 0
	}

	text := RenderNotification(cfg, status, s.now())
	notified := 0
	for _, subscriberID := range subscribers {
		if _, err := s.gateway.Send(ctx, subscriberID, 0, text); err != nil {
			logger.WF.Warn("subscriber notification failed",
				slog.String("event", "notify.send_failed"),
				slog.Int64("user_id", cfg.UserID),
				slog.Int64("subscriber_id", subscriberID),
				slog.String("err", err.Error()),
			)
			continue
		}
		notified++
	}
	if notified < len(subscribers) {
		logger.WF.Warn("notification fan-out incomplete",
			slog.String("event", "notify.partial"),
			slog.Int64("user_id", cfg.UserID),
			slog.Int("notified", notified),
			slog.Int("failed", len(subscribers)-notified),
		)
	}
	return notified
}

// CreateStatusMessage sends a fresh status card (unknown status) into the
// configured group and stores the returned message id. Used when the old
// card was deleted or never existed.
func (s *Service) CreateStatusMessage(ctx context.Context, userID int64) error {
	cfg, err := s.users.Get(ctx, userID)
	if err != nil {
		return ErrNotConfigured
	}

	count, err := s.subs.CountByTarget(ctx, userID)
	if err != nil {
		count = 0
	}
	card := RenderCard(cfg, model.StatusUnknown, count, s.now())

	var threadID int64
	if cfg.ThreadID.Valid {
		threadID = cfg.ThreadID.Int64
	}
	messageID, err := s.gateway.Send(ctx, cfg.GroupID, threadID, card)
	if err != nil {
		return fmt.Errorf("create status message: %w", err)
	}
	if err := s.users.UpdateMessageID(ctx, userID, messageID); err != nil {
		return fmt.Errorf("store message id: %w", err)
	}
	logger.WF.Info("status message created",
		slog.String("event", "card.created"),
		slog.Int64("user_id", userID),
		slog.Int64("group_id", cfg.GroupID),
		slog.Int64("message_id", messageID),
	)
	return nil
}

// SendGroupMessage relays free text into the owner's group/thread.
func (s *Service) SendGroupMessage(ctx context.Context, userID int64, text string) error {
	cfg, err := s.users.Get(ctx, userID)
	if err != nil {
		return ErrNotConfigured
	}
	var threadID int64
	if cfg.ThreadID.Valid {
		threadID = cfg.ThreadID.Int64
	}
	if _, err := s.gateway.Send(ctx, cfg.GroupID, threadID, text); err != nil {
		return fmt.Errorf("relay to group: %w", err)
	}
	return nil
}

// History returns the user's most recent status events, newest first.
func (s *Service) History(ctx context.Context, userID int64, limit int) ([]model.StatusEvent, error) {
	return s.statuses.History(ctx, userID, limit)
}

// GlobalStats aggregates every user's latest status into per-status counts.
func (s *Service) GlobalStats(ctx context.Context) (map[model.Status]int, error) {
	return s.statuses.LatestCounts(ctx)
}
