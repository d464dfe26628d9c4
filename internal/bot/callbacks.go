package bot

import (
	"errors"
	"strconv"
	"time"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/statusbot/internal/logger"
	"github.com/m3rciful/statusbot/internal/model"
	"github.com/m3rciful/statusbot/internal/service"
	"github.com/m3rciful/statusbot/internal/session"
)

func (b *Bot) registerCallbacks() {
	reg := b.reg.RegisterCallback

	reg(cbRestartSetup, b.cbRestartSetup)
	reg(cbStartSetup, b.cbStartSetup)
	reg(cbQuickSetup, b.cbQuickSetup)
	reg(cbHelpThreadID, func(c tele.Context) error {
		return b.edit(c, screen{text: textThreadIDHelp, markup: helpKeyboard()})
	})
	reg(cbManageStatus, func(c tele.Context) error {
		return b.edit(c, b.screenStatusManagement(handlerCtx(c), c.Sender().ID))
	})
	reg(cbSendMessage, func(c tele.Context) error {
		b.sessions.Set(c.Sender().ID, session.StateAwaitGroupBroadcast)
		return b.edit(c, screen{text: textSendMessagePrompt, markup: cancelKeyboard(cbBackToMain)})
	})
	reg(cbStats, func(c tele.Context) error {
		return b.edit(c, b.screenStats(handlerCtx(c), c.Sender().ID))
	})
	reg(cbHistory, func(c tele.Context) error {
		return b.edit(c, b.screenHistory(handlerCtx(c), c.Sender().ID))
	})
	reg(cbSubscriptions, func(c tele.Context) error {
		return b.edit(c, b.screenSubscriptions(handlerCtx(c), c.Sender().ID))
	})
	reg(cbSubscribe, b.cbSubscribe)
	reg(cbUnsubscribe, b.cbUnsubscribe)
	reg(cbUnsubscribeAll, b.cbUnsubscribeAll)
	reg(cbSettings, func(c tele.Context) error {
		return b.edit(c, b.screenSettings(handlerCtx(c), c.Sender().ID))
	})
	reg(cbBackToSettings, func(c tele.Context) error {
		return b.edit(c, b.screenSettings(handlerCtx(c), c.Sender().ID))
	})
	reg(cbBackToMain, func(c tele.Context) error {
		b.sessions.Clear(c.Sender().ID)
		return b.edit(c, b.screenMainMenu(handlerCtx(c), c.Sender().ID))
	})
	reg(cbChangeTimezone, func(c tele.Context) error {
		b.sessions.Set(c.Sender().ID, session.StateAwaitTimezone)
		return b.edit(c, screen{text: textChangeTimezone, markup: cancelKeyboard(cbBackToSettings)})
	})
	reg(cbChangeGroupSettings, func(c tele.Context) error {
		b.sessions.Set(c.Sender().ID, session.StateAwaitGroupSettings)
		return b.edit(c, screen{text: textChangeGroupSettings, markup: cancelKeyboard(cbBackToSettings)})
	})
	reg(cbChangeServerInfo, b.cbChangeServerInfo)
	reg(cbCreateStatusMessage, b.cbCreateStatusMessage)
	reg(cbStatus, b.cbStatus)

	reg(cbAdminLogin, b.cbAdminLogin)
	reg(cbAdminLogout, b.cbAdminLogout)
	reg(cbAdminPanel, b.adminOnly(func(c tele.Context) error {
		return b.edit(c, b.screenAdminPanel(handlerCtx(c)))
	}))
	reg(cbAdminUsers, b.adminOnly(func(c tele.Context) error {
		return b.edit(c, b.screenUserList(handlerCtx(c)))
	}))
	reg(cbAdminBroadcast, b.adminOnly(func(c tele.Context) error {
		b.sessions.Set(c.Sender().ID, session.StateAwaitAdminBroadcast)
		return b.edit(c, screen{text: textAdminBroadcastPrompt, markup: cancelKeyboard(cbAdminPanel)})
	}))
	reg(cbAdminManageBot, b.adminOnly(func(c tele.Context) error {
		return b.edit(c, b.screenManageBot())
	}))
	reg(cbAdminEnableBot, b.adminOnly(func(c tele.Context) error {
		b.sw.Enable(c.Sender().ID)
		if err := b.edit(c, b.screenManageBot()); err != nil {
			return err
		}
		return c.Send("✅ Бот включен!", tele.ModeHTML)
	}))
	reg(cbAdminDisableBot, b.adminOnly(func(c tele.Context) error {
		b.sessions.Set(c.Sender().ID, session.StateAwaitDisableReason)
		return b.edit(c, screen{text: textAdminDisablePrompt, markup: cancelKeyboard(cbAdminManageBot)})
	}))
}

// handleCallback is the single OnCallback route: acknowledge, resolve the
// key, dispatch.
func (b *Bot) handleCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil || !isPrivate(c) {
		return nil
	}
	_ = c.Respond()

	key, _ := parseCallback(cb)
	handler, ok := b.reg.GetCallback(key)
	if !ok {
		logger.TG.Warn("unknown callback",
			slog.String("event", "callback.unknown"),
			slog.String("cb_key", logger.SanitizeLimit(key, 128)),
			slog.Int64("user_id", c.Sender().ID),
		)
		return c.Respond(&tele.CallbackResponse{Text: "Неизвестное действие"})
	}

	start := time.Now()
	err := handler(c)
	logger.TG.Debug("callback handled",
		slog.String("event", "callback.done"),
		slog.String("cb_key", key),
		slog.String("status", logger.Status(err)),
		slog.Duration("duration", logger.RoundMS(logger.Took(start))),
	)
	return err
}

// adminOnly gates a callback behind the admin id plus a live authenticated
// session.
func (b *Bot) adminOnly(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if !b.isAuthenticatedAdmin(c.Sender().ID) {
			b.auditAdmin(c.Sender().ID, "admin.denied")
			return c.Send("❌ Доступ запрещен или требуется аутентификация", tele.ModeHTML)
		}
		return next(c)
	}
}

func (b *Bot) cbRestartSetup(c tele.Context) error {
	b.sessions.Clear(c.Sender().ID)
	return b.edit(c, screen{text: textSetupRestarted, markup: welcomeKeyboard()})
}

func (b *Bot) cbStartSetup(c tele.Context) error {
	b.sessions.Set(c.Sender().ID, session.StateAwaitGroupSettings)
	return b.edit(c, screen{text: textStartSetup, markup: cancelKeyboard(cbBackToMain)})
}

func (b *Bot) cbQuickSetup(c tele.Context) error {
	b.sessions.Set(c.Sender().ID, session.StateAwaitQuickSetupGroupID)
	return b.edit(c, screen{text: textQuickSetup, markup: cancelKeyboard(cbBackToMain)})
}

func (b *Bot) cbChangeServerInfo(c tele.Context) error {
	ctx := handlerCtx(c)
	userID := c.Sender().ID

	current := "Сервер"
	if cfg, err := b.svc.Config(ctx, userID); err == nil {
		current = cfg.ServerInfo
	}
	b.sessions.Set(userID, session.StateAwaitLabel)
	return b.edit(c, screen{text: formatChangeServerInfo(current), markup: cancelKeyboard(cbBackToSettings)})
}

func (b *Bot) cbCreateStatusMessage(c tele.Context) error {
	ctx := handlerCtx(c)
	userID := c.Sender().ID

	if err := b.svc.CreateStatusMessage(ctx, userID); err != nil {
		if errors.Is(err, service.ErrNotConfigured) {
			return b.edit(c, screen{text: textConfigureGroupFirst, markup: settingsShortcutKeyboard()})
		}
		return b.edit(c, screen{text: textMessageCreateFail, markup: mainMenuKeyboard()})
	}
	return b.edit(c, screen{text: textMessageCreated, markup: mainMenuKeyboard()})
}

// cbStatus applies the chosen status: history row, card edit, fan-out.
func (b *Bot) cbStatus(c tele.Context) error {
	ctx := handlerCtx(c)
	userID := c.Sender().ID
	_, payload := parseCallback(c.Callback())
	status := model.ParseStatus(payload)

	_, err := b.svc.RecordStatus(ctx, userID, status)
	switch {
	case err == nil:
		return b.edit(c, screen{
			text:   formatStatusUpdated(status, b.userNow(ctx, userID)),
			markup: mainMenuKeyboard(),
		})
	case errors.Is(err, service.ErrNotConfigured):
		return b.edit(c, screen{text: textConfigureGroupFirst, markup: settingsShortcutKeyboard()})
	default:
		// Covers both a missing message id and a failed in-place edit.
		return b.edit(c, screen{text: textStatusMessageLost, markup: createMessageKeyboard()})
	}
}

func (b *Bot) cbSubscribe(c tele.Context) error {
	ctx := handlerCtx(c)
	userID := c.Sender().ID
	_, payload := parseCallback(c.Callback())

	targetID, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		return b.edit(c, b.screenSubscriptions(ctx, userID))
	}
	switch err := b.svc.Subscribe(ctx, userID, targetID); {
	case err == nil:
		if err := c.Send(textSubscribed, tele.ModeHTML); err != nil {
			return err
		}
	case errors.Is(err, service.ErrAlreadySubscribed):
		// Stale keyboard; just refresh the list.
	default:
		return err
	}
	return b.edit(c, b.screenSubscriptions(ctx, userID))
}

func (b *Bot) cbUnsubscribe(c tele.Context) error {
	ctx := handlerCtx(c)
	userID := c.Sender().ID
	_, payload := parseCallback(c.Callback())

	targetID, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		return b.edit(c, b.screenSubscriptions(ctx, userID))
	}
	if err := b.svc.Unsubscribe(ctx, userID, targetID); err != nil {
		return err
	}
	if err := c.Send(textUnsubscribed, tele.ModeHTML); err != nil {
		return err
	}
	return b.edit(c, b.screenSubscriptions(ctx, userID))
}

func (b *Bot) cbUnsubscribeAll(c tele.Context) error {
	ctx := handlerCtx(c)
	userID := c.Sender().ID

	if err := b.svc.UnsubscribeAll(ctx, userID); err != nil {
		return err
	}
	if err := c.Send(textUnsubscribedAll, tele.ModeHTML); err != nil {
		return err
	}
	return b.edit(c, b.screenSubscriptions(ctx, userID))
}

func (b *Bot) cbAdminLogin(c tele.Context) error {
	userID := c.Sender().ID
	if userID != b.cfg.Admin.UserID {
		b.auditAdmin(userID, "admin.denied")
		return c.Send("❌ Доступ запрещен", tele.ModeHTML)
	}
	b.sessions.Set(userID, session.StateAwaitAdminPassword)
	return b.edit(c, screen{text: textAdminAuth, markup: cancelKeyboard(cbBackToSettings)})
}

func (b *Bot) cbAdminLogout(c tele.Context) error {
	userID := c.Sender().ID
	if userID != b.cfg.Admin.UserID {
		return nil
	}
	b.sessions.SetAdmin(userID, false)
	b.auditAdmin(userID, "admin.logout")
	return b.edit(c, screen{
		text:   textAdminLoggedOut,
		markup: settingsKeyboard(true, false),
	})
}
