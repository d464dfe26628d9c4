package bot

import (
	"errors"
	"strings"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/statusbot/internal/logger"
	"github.com/m3rciful/statusbot/internal/service"
	"github.com/m3rciful/statusbot/internal/session"
)

// stateHandler consumes one free-text message while its state is active.
type stateHandler func(c tele.Context, text string) error

// stateHandlers is the closed transition table of the conversation machine.
// Any state not listed here drops back to idle.
func (b *Bot) stateHandlers() map[session.State]stateHandler {
	return map[session.State]stateHandler{
		session.StateAwaitGroupSettings:     b.stateGroupSettings,
		session.StateAwaitInitialLabel:      b.stateInitialLabel,
		session.StateAwaitLabel:             b.stateLabel,
		session.StateAwaitTimezone:          b.stateTimezone,
		session.StateAwaitGroupBroadcast:    b.stateGroupBroadcast,
		session.StateAwaitAdminBroadcast:    b.stateAdminBroadcast,
		session.StateAwaitDisableReason:     b.stateDisableReason,
		session.StateAwaitAdminPassword:     b.stateAdminPassword,
		session.StateAwaitQuickSetupGroupID: b.stateQuickSetupGroupID,
	}
}

// handleText routes every private text message: an active conversation state
// wins, then command synonyms, then the fallback menu.
func (b *Bot) handleText(c tele.Context) error {
	if !isPrivate(c) {
		return nil
	}
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	if st := b.sessions.Get(userID); st != session.StateIdle {
		handler, ok := b.stateHandlers()[st]
		if !ok {
			b.sessions.Clear(userID)
			return b.send(c, b.screenMainMenu(handlerCtx(c), userID))
		}
		logger.TG.Debug("state input",
			slog.String("event", "fsm.input"),
			slog.Int64("user_id", userID),
			slog.String("state", string(st)),
		)
		return handler(c, text)
	}

	if _, cmd, ok := b.reg.LookupCommand(text); ok {
		return cmd.Handler(c)
	}

	return b.send(c, b.screenMainMenu(handlerCtx(c), userID))
}

// stateGroupSettings consumes the manual four-field setup line. Any
// validation failure shows its diagnostic and aborts to idle.
func (b *Bot) stateGroupSettings(c tele.Context, text string) error {
	ctx := handlerCtx(c)
	userID := c.Sender().ID

	setup, err := parseGroupSetup(text)
	if err != nil {
		b.sessions.Clear(userID)
		return b.send(c, screen{text: formatSetupError(err.Error()), markup: retrySetupKeyboard()})
	}

	if err := b.svc.SetupManual(ctx, userID, setup.GroupID, setup.ThreadID, setup.MessageID, setup.Label); err != nil {
		b.sessions.Clear(userID)
		return b.send(c, screen{text: formatSaveError(err), markup: retrySetupKeyboard()})
	}

	b.sessions.Set(userID, session.StateAwaitInitialLabel)
	return b.send(c, screen{
		text:   formatGroupConfigured(setup.Label, setup.MessageID),
		markup: restartOnlyKeyboard(),
	})
}

// stateInitialLabel finishes manual setup: "назад" returns to the group
// step, "пропустить" keeps the default, anything else becomes the label.
func (b *Bot) stateInitialLabel(c tele.Context, text string) error {
	ctx := handlerCtx(c)
	userID := c.Sender().ID

	if strings.EqualFold(text, "назад") {
		b.sessions.Set(userID, session.StateAwaitGroupSettings)
		return b.send(c, screen{text: textBackToGroupSetup, markup: restartOnlyKeyboard()})
	}

	label := text
	if strings.EqualFold(text, "пропустить") {
		label = "Сервер"
	}
	if err := b.svc.SetLabel(ctx, userID, label); err != nil {
		return b.send(c, screen{text: formatSaveError(err), markup: restartOnlyKeyboard()})
	}

	b.sessions.Clear(userID)
	cfg, err := b.svc.Config(ctx, userID)
	if err != nil {
		return b.send(c, b.screenMainMenu(ctx, userID))
	}
	return b.send(c, screen{text: formatSetupComplete(cfg), markup: mainMenuKeyboard()})
}

// stateLabel changes the display label from the settings menu.
func (b *Bot) stateLabel(c tele.Context, text string) error {
	ctx := handlerCtx(c)
	userID := c.Sender().ID
	b.sessions.Clear(userID)

	if err := b.svc.SetLabel(ctx, userID, text); err != nil {
		return b.send(c, screen{text: formatSaveError(err), markup: retrySetupKeyboard()})
	}
	return b.send(c, screen{
		text:   formatServerInfoChanged(text),
		markup: settingsKeyboard(userID == b.cfg.Admin.UserID, b.sessions.IsAdmin(userID)),
	})
}

func (b *Bot) stateTimezone(c tele.Context, text string) error {
	ctx := handlerCtx(c)
	userID := c.Sender().ID
	b.sessions.Clear(userID)

	markup := settingsKeyboard(userID == b.cfg.Admin.UserID, b.sessions.IsAdmin(userID))
	if err := b.svc.SetTimezone(ctx, userID, text); err != nil {
		if errors.Is(err, service.ErrBadTimezone) {
			return b.send(c, screen{text: textBadTimezone, markup: markup})
		}
		return b.send(c, screen{text: formatSaveError(err), markup: markup})
	}
	return b.send(c, screen{text: formatTimezoneChanged(text), markup: markup})
}

// stateGroupBroadcast relays the text into the owner's group.
func (b *Bot) stateGroupBroadcast(c tele.Context, text string) error {
	ctx := handlerCtx(c)
	userID := c.Sender().ID
	b.sessions.Clear(userID)

	err := b.svc.SendGroupMessage(ctx, userID, text)
	switch {
	case err == nil:
		return b.send(c, screen{text: textGroupSendOK, markup: mainMenuKeyboard()})
	case errors.Is(err, service.ErrNotConfigured):
		return b.send(c, screen{text: textGroupDataMissing, markup: mainMenuKeyboard()})
	default:
		return b.send(c, screen{text: textGroupSendFail, markup: mainMenuKeyboard()})
	}
}

func (b *Bot) stateAdminBroadcast(c tele.Context, text string) error {
	ctx := handlerCtx(c)
	userID := c.Sender().ID
	b.sessions.Clear(userID)

	if !b.isAuthenticatedAdmin(userID) {
		return c.Send(textAdminDenied, tele.ModeHTML)
	}
	sent, err := b.svc.Broadcast(ctx, text)
	if err != nil {
		return b.send(c, screen{text: formatSaveError(err), markup: adminKeyboard()})
	}
	return b.send(c, screen{text: formatBroadcastDone(sent), markup: adminKeyboard()})
}

func (b *Bot) stateDisableReason(c tele.Context, text string) error {
	userID := c.Sender().ID
	b.sessions.Clear(userID)

	if !b.isAuthenticatedAdmin(userID) {
		return c.Send(textAdminDenied, tele.ModeHTML)
	}
	b.sw.Disable(userID, text)
	return b.send(c, screen{text: formatBotDisabled(text), markup: adminKeyboard()})
}

// stateQuickSetupGroupID expects a bare group id. The negativity check runs
// before any Telegram call is made.
func (b *Bot) stateQuickSetupGroupID(c tele.Context, text string) error {
	ctx := handlerCtx(c)
	userID := c.Sender().ID
	b.sessions.Clear(userID)

	groupID, err := parseQuickSetupGroupID(text)
	switch {
	case errors.Is(err, errQuickSetupNotNumber):
		return b.send(c, screen{text: textQuickSetupNotNumber, markup: retrySetupKeyboard()})
	case errors.Is(err, errQuickSetupBadID):
		return b.send(c, screen{text: textQuickSetupBadID, markup: retrySetupKeyboard()})
	}

	messageID, err := b.svc.QuickSetup(ctx, userID, groupID)
	if err != nil {
		return b.send(c, screen{
			text:   formatQuickSetupFail("Не удалось создать сообщение. Проверьте права бота."),
			markup: retrySetupKeyboard(),
		})
	}
	return b.send(c, screen{text: formatQuickSetupDone(groupID, messageID), markup: mainMenuKeyboard()})
}
