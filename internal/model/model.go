package model

import (
	"database/sql"
	"time"
)

// Status is the fixed enumeration of trackable states.
type Status string

const (
	StatusOn      Status = "on"
	StatusPaused  Status = "paused"
	StatusOff     Status = "off"
	StatusUnknown Status = "unknown"
)

// AllStatuses lists every known status in display order.
var AllStatuses = []Status{StatusOn, StatusPaused, StatusOff, StatusUnknown}

// ParseStatus maps raw text to a Status, falling back to StatusUnknown.
func ParseStatus(raw string) Status {
	switch Status(raw) {
	case StatusOn, StatusPaused, StatusOff, StatusUnknown:
		return Status(raw)
	}
	return StatusUnknown
}

// Emoji returns the marker used in the status card and notifications.
func (s Status) Emoji() string {
	switch s {
	case StatusOn:
		return "🟢"
	case StatusPaused:
		return "🟡"
	case StatusOff:
		return "🔴"
	}
	return "❓"
}

// Title returns the human-readable uppercase status name.
func (s Status) Title() string {
	switch s {
	case StatusOn:
		return "ВКЛЮЧЕН"
	case StatusPaused:
		return "ПРИОСТАНОВЛЕН"
	case StatusOff:
		return "ВЫКЛЮЧЕН"
	}
	return "НЕИЗВЕСТНО"
}

// Label combines emoji and title, e.g. "🟢 ВКЛЮЧЕН".
func (s Status) Label() string {
	return s.Emoji() + " " + s.Title()
}

// UserConfig is one owner's status card configuration.
type UserConfig struct {
	UserID     int64         `db:"user_id"`
	GroupID    int64         `db:"group_id"`
	ThreadID   sql.NullInt64 `db:"thread_id"`
	MessageID  sql.NullInt64 `db:"message_id"`
	GroupName  string        `db:"group_name"`
	Timezone   string        `db:"timezone"`
	ServerInfo string        `db:"server_info"`
	CreatedAt  time.Time     `db:"created_at"`
}

// Location resolves the owner's timezone, falling back to UTC for bad zones.
func (u *UserConfig) Location() *time.Location {
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// StatusEvent is one append-only history record.
type StatusEvent struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Status    Status    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

// Subscription is a directed subscriber -> owner edge.
type Subscription struct {
	ID           int64     `db:"id"`
	SubscriberID int64     `db:"subscriber_id"`
	TargetUserID int64     `db:"target_user_id"`
	CreatedAt    time.Time `db:"created_at"`
}

// UserOverview is the admin listing row: configuration joined with the
// latest recorded status and the live subscriber count.
type UserOverview struct {
	UserConfig
	LastStatus  sql.NullString `db:"last_status"`
	Subscribers int            `db:"subscribers_count"`
}
