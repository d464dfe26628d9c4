package bot

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/statusbot/internal/logger"
)

// verifyAdminPassword compares the SHA-256 hex digest of the input with the
// configured digest. There is no lockout and no attempt counter.
func (b *Bot) verifyAdminPassword(input string) bool {
	sum := sha256.Sum256([]byte(input))
	digest := hex.EncodeToString(sum[:])
	want := strings.ToLower(strings.TrimSpace(b.cfg.Admin.PasswordHash))
	return subtle.ConstantTimeCompare([]byte(digest), []byte(want)) == 1
}

// isAuthenticatedAdmin requires both the configured admin id and a
// successful password entry this process lifetime.
func (b *Bot) isAuthenticatedAdmin(userID int64) bool {
	return userID == b.cfg.Admin.UserID && b.sessions.IsAdmin(userID)
}

func (b *Bot) auditAdmin(userID int64, event string) {
	logger.ADM.Info("admin audit",
		slog.String("event", event),
		slog.Int64("user_id", userID),
	)
}

// stateAdminPassword consumes the password attempt. Either way the state
// drops back to idle; failed attempts only get a retry keyboard.
func (b *Bot) stateAdminPassword(c tele.Context, text string) error {
	userID := c.Sender().ID
	b.sessions.Clear(userID)

	if userID != b.cfg.Admin.UserID {
		b.auditAdmin(userID, "admin.denied")
		return c.Send(textAdminDenied, tele.ModeHTML)
	}

	if !b.verifyAdminPassword(text) {
		b.auditAdmin(userID, "admin.login_failed")
		return b.send(c, screen{text: textAdminBadPassword, markup: passwordRetryKeyboard()})
	}

	b.sessions.SetAdmin(userID, true)
	b.auditAdmin(userID, "admin.login_ok")
	if err := b.send(c, screen{text: textAdminGranted, markup: adminKeyboard()}); err != nil {
		return err
	}
	return b.send(c, b.screenAdminPanel(handlerCtx(c)))
}
