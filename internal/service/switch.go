package service

import (
	"log/slog"
	"sync"

	"github.com/m3rciful/statusbot/internal/logger"
)

// Switch is the process-local kill switch admins flip from the panel. It is
// not persisted: a restart always comes back enabled.
type Switch struct {
	mu     sync.RWMutex
	off    bool
	reason string
}

// NewSwitch returns an enabled switch.
func NewSwitch() *Switch { return &Switch{} }

// Enabled reports whether the bot serves non-admin traffic.
func (w *Switch) Enabled() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return !w.off
}

// Reason returns the text shown to users while the bot is disabled.
func (w *Switch) Reason() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.reason
}

// Disable turns non-admin traffic away with the given reason.
func (w *Switch) Disable(adminID int64, reason string) {
	w.mu.Lock()
	w.off = true
	w.reason = reason
	w.mu.Unlock()
	logger.ADM.Warn("bot disabled",
		slog.String("event", "switch.disabled"),
		slog.Int64("user_id", adminID),
		slog.String("payload", logger.SanitizeLimit(reason, 120)),
	)
}

// Enable resumes normal service.
func (w *Switch) Enable(adminID int64) {
	w.mu.Lock()
	w.off = false
	w.reason = ""
	w.mu.Unlock()
	logger.ADM.Info("bot enabled",
		slog.String("event", "switch.enabled"),
		slog.Int64("user_id", adminID),
	)
}
