package repository

import (
	"context"
	"errors"

	"github.com/m3rciful/statusbot/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("repository: not found")

// Users persists owner configurations.
type Users interface {
	Get(ctx context.Context, userID int64) (*model.UserConfig, error)
	Upsert(ctx context.Context, cfg *model.UserConfig) error
	UpdateLabel(ctx context.Context, userID int64, label string) error
	UpdateTimezone(ctx context.Context, userID int64, tz string) error
	UpdateMessageID(ctx context.Context, userID int64, messageID int64) error
	Delete(ctx context.Context, userID int64) error
	List(ctx context.Context) ([]model.UserConfig, error)
	ListOverview(ctx context.Context) ([]model.UserOverview, error)
}

// Statuses persists the append-only status history.
type Statuses interface {
	Append(ctx context.Context, userID int64, status model.Status) error
	History(ctx context.Context, userID int64, limit int) ([]model.StatusEvent, error)
	LatestCounts(ctx context.Context) (map[model.Status]int, error)
	DeleteByUser(ctx context.Context, userID int64) error
}

// Subscriptions persists the directed subscriber graph.
type Subscriptions interface {
	Exists(ctx context.Context, subscriberID, targetUserID int64) (bool, error)
	Add(ctx context.Context, subscriberID, targetUserID int64) error
	Remove(ctx context.Context, subscriberID, targetUserID int64) error
	RemoveBySubscriber(ctx context.Context, subscriberID int64) error
	RemoveByUser(ctx context.Context, userID int64) error
	Subscribers(ctx context.Context, targetUserID int64) ([]int64, error)
	Targets(ctx context.Context, subscriberID int64) ([]int64, error)
	CountByTarget(ctx context.Context, targetUserID int64) (int, error)
}
