package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m3rciful/statusbot/internal/logger"
	"github.com/m3rciful/statusbot/internal/model"
)

// ListUsers returns an overview row per configured owner: the configuration,
// the latest status, and the subscriber count.
func (s *Service) ListUsers(ctx context.Context) ([]model.UserOverview, error) {
	rows, err := s.users.ListOverview(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return rows, nil
}

// Broadcast sends text to the private chat of every registered user and
// returns how many deliveries succeeded. Failures are logged and skipped.
func (s *Service) Broadcast(ctx context.Context, text string) (int, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("broadcast: %w", err)
	}
	sent := 0
	for _, u := range users {
		if _, err := s.gateway.Send(ctx, u.UserID, 0, text); err != nil {
			logger.ADM.Warn("broadcast delivery failed",
				slog.String("event", "broadcast.failed"),
				slog.Int64("target_id", u.UserID),
				slog.String("err", err.Error()),
			)
			continue
		}
		sent++
	}
	logger.ADM.Info("broadcast finished",
		slog.String("event", "broadcast.done"),
		slog.Int("notified", sent),
		slog.Int("count", len(users)),
	)
	return sent, nil
}
