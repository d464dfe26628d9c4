package bot

import (
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/statusbot/internal/logger"
	"github.com/m3rciful/statusbot/internal/session"
)

func (b *Bot) registerCommands() {
	b.reg.RegisterCommand("/start", Command{
		Handler:     b.cmdStart,
		Description: "Перезапустить бота и начать настройку",
	})
	b.reg.RegisterCommand("/stats", Command{
		Handler:     b.cmdStats,
		Description: "Глобальная статистика статусов",
	})
	b.reg.RegisterCommand("/settings", Command{
		Handler:     b.cmdSettings,
		Description: "Настройки",
	})
	b.reg.RegisterCommand("/restart", Command{
		Handler:     b.cmdReset,
		Description: "Сбросить настройки",
		Aliases:     []string{"/reset", "перезапустить", "сбросить"},
	})
	b.reg.RegisterCommand("/admin", Command{
		Handler:     b.cmdAdmin,
		Description: "Админ-панель",
		AdminOnly:   true,
	})
}

// cmdStart wipes everything the bot knows about the user and starts over.
func (b *Bot) cmdStart(c tele.Context) error {
	ctx := handlerCtx(c)
	userID := c.Sender().ID

	if err := b.svc.Reset(ctx, userID); err != nil {
		return b.send(c, screen{text: formatSaveError(err), markup: retrySetupKeyboard()})
	}
	b.sessions.Reset(userID)

	logger.TG.Info("start command",
		slog.String("event", "cmd.start"),
		slog.Int64("user_id", userID),
	)
	return b.send(c, screen{text: textRestarted, markup: welcomeKeyboard()})
}

func (b *Bot) cmdStats(c tele.Context) error {
	return b.send(c, b.screenStats(handlerCtx(c), c.Sender().ID))
}

func (b *Bot) cmdSettings(c tele.Context) error {
	return b.send(c, b.screenSettings(handlerCtx(c), c.Sender().ID))
}

// cmdReset clears the stored configuration without the welcome preamble.
func (b *Bot) cmdReset(c tele.Context) error {
	ctx := handlerCtx(c)
	userID := c.Sender().ID

	if err := b.svc.Reset(ctx, userID); err != nil {
		return b.send(c, screen{text: formatSaveError(err), markup: retrySetupKeyboard()})
	}
	b.sessions.Reset(userID)
	return b.send(c, screen{text: textSettingsReset, markup: welcomeKeyboard()})
}

// cmdAdmin opens the panel for an authenticated admin, starts the password
// conversation otherwise. Anyone else is rejected outright.
func (b *Bot) cmdAdmin(c tele.Context) error {
	userID := c.Sender().ID
	if userID != b.cfg.Admin.UserID {
		b.auditAdmin(userID, "admin.denied")
		return c.Send(textAdminDenied, tele.ModeHTML)
	}
	if b.sessions.IsAdmin(userID) {
		b.auditAdmin(userID, "admin.panel_opened")
		return b.send(c, b.screenAdminPanel(handlerCtx(c)))
	}
	b.sessions.Set(userID, session.StateAwaitAdminPassword)
	return b.send(c, screen{
		text:   textAdminAuth,
		markup: inlineRows([]btn{{text: "🔙 Отмена", unique: cbBackToMain}}),
	})
}
