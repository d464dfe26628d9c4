// Package service implements the status workflow on top of the repositories
// and an outbound messaging gateway.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/m3rciful/statusbot/internal/repository"
)

var (
	// ErrNotConfigured means the user has no stored configuration.
	ErrNotConfigured = errors.New("service: user is not configured")
	// ErrNoStatusMessage means there is no message id to edit.
	ErrNoStatusMessage = errors.New("service: status message is not set up")
	// ErrAlreadySubscribed means the (subscriber, target) edge already exists.
	ErrAlreadySubscribed = errors.New("service: already subscribed")
	// ErrBadTimezone means the supplied zone name is not a valid IANA zone.
	ErrBadTimezone = errors.New("service: unknown timezone")
)

// Gateway issues outbound calls to the chat platform. Implementations must
// not retry on their own; failures are reported to the caller as-is.
type Gateway interface {
	// Send delivers text to a chat, optionally into a forum thread
	// (threadID 0 means none), and returns the created message id.
	Send(ctx context.Context, chatID, threadID int64, text string) (int64, error)
	// Edit replaces the text of an existing message in place.
	Edit(ctx context.Context, chatID, messageID int64, text string) error
}

// Service wires repositories, the gateway, and the runtime switch together.
type Service struct {
	users    repository.Users
	statuses repository.Statuses
	subs     repository.Subscriptions
	gateway  Gateway

	now func() time.Time
}

// New constructs the service. The clock is overridable in tests.
func New(users repository.Users, statuses repository.Statuses, subs repository.Subscriptions, gw Gateway) *Service {
	return &Service{
		users:    users,
		statuses: statuses,
		subs:     subs,
		gateway:  gw,
		now:      time.Now,
	}
}
