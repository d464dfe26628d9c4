package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m3rciful/statusbot/internal/logger"
	"github.com/m3rciful/statusbot/internal/model"
)

// Subscribe adds a (subscriber, target) edge. Duplicates are rejected by a
// pre-check rather than a storage constraint, so two simultaneous calls can
// still both land; the fan-out tolerates the extra edge.
func (s *Service) Subscribe(ctx context.Context, subscriberID, targetUserID int64) error {
	if _, err := s.users.Get(ctx, targetUserID); err != nil {
		return ErrNotConfigured
	}

	exists, err := s.subs.Exists(ctx, subscriberID, targetUserID)
	if err != nil {
		return fmt.Errorf("subscribe check: %w", err)
	}
	if exists {
		return ErrAlreadySubscribed
	}
	if err := s.subs.Add(ctx, subscriberID, targetUserID); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	// Owner notice is best effort: the subscription stands even when the
	// owner blocked the bot.
	notice := "🔔 <b>Новый подписчик!</b>\n\nК вашим уведомлениям о статусе подключился новый пользователь."
	if _, err := s.gateway.Send(ctx, targetUserID, 0, notice); err != nil {
		logger.WF.Warn("owner notice failed",
			slog.String("event", "subscribe.notice_failed"),
			slog.Int64("target_id", targetUserID),
			slog.String("err", err.Error()),
		)
	}

	logger.WF.Info("subscription added",
		slog.String("event", "subscribe.added"),
		slog.Int64("subscriber_id", subscriberID),
		slog.Int64("target_id", targetUserID),
	)
	return nil
}

// Unsubscribe removes a single edge. Removing an edge that does not exist
// is a no-op.
func (s *Service) Unsubscribe(ctx context.Context, subscriberID, targetUserID int64) error {
	if err := s.subs.Remove(ctx, subscriberID, targetUserID); err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	logger.WF.Info("subscription removed",
		slog.String("event", "subscribe.removed"),
		slog.Int64("subscriber_id", subscriberID),
		slog.Int64("target_id", targetUserID),
	)
	return nil
}

// UnsubscribeAll drops every edge where the user is the subscriber. Edges
// pointing AT the user from others are left untouched.
func (s *Service) UnsubscribeAll(ctx context.Context, subscriberID int64) error {
	if err := s.subs.RemoveBySubscriber(ctx, subscriberID); err != nil {
		return fmt.Errorf("unsubscribe all: %w", err)
	}
	logger.WF.Info("subscriptions cleared",
		slog.String("event", "subscribe.cleared"),
		slog.Int64("subscriber_id", subscriberID),
	)
	return nil
}

// SubscriberCount returns how many users follow the owner.
func (s *Service) SubscriberCount(ctx context.Context, userID int64) (int, error) {
	return s.subs.CountByTarget(ctx, userID)
}

// ListOwners returns every configured owner except the caller, as candidates
// to subscribe to.
func (s *Service) ListOwners(ctx context.Context, exceptUserID int64) ([]model.UserConfig, error) {
	all, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	owners := make([]model.UserConfig, 0, len(all))
	for _, cfg := range all {
		if cfg.UserID == exceptUserID {
			continue
		}
		owners = append(owners, cfg)
	}
	return owners, nil
}

// Subscriptions returns the configurations of every owner the user follows.
// Targets whose configuration disappeared are skipped.
func (s *Service) Subscriptions(ctx context.Context, subscriberID int64) ([]model.UserConfig, error) {
	ids, err := s.subs.Targets(ctx, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	out := make([]model.UserConfig, 0, len(ids))
	for _, id := range ids {
		cfg, err := s.users.Get(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, *cfg)
	}
	return out, nil
}
