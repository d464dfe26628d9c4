package bot

import (
	"context"
	"runtime/debug"
	"time"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/statusbot/internal/logger"
)

const ctxStoreKey = "__ctx"

// storeCtx attaches a request context to the telebot context for downstream
// handlers.
func storeCtx(c tele.Context, ctx context.Context) {
	c.Set(ctxStoreKey, ctx)
}

// handlerCtx returns the request context built by the logging middleware,
// or context.Background when the middleware did not run.
func handlerCtx(c tele.Context) context.Context {
	if v := c.Get(ctxStoreKey); v != nil {
		if ctx, ok := v.(context.Context); ok {
			return ctx
		}
	}
	return context.Background()
}

// recoverMiddleware catches panics in handlers and keeps the bot alive.
func recoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			if r := recover(); r != nil {
				logger.TG.Error("panic recovered",
					slog.String("event", "tg.panic"),
					slog.Any("err", r),
					slog.String("payload", string(debug.Stack())),
				)
			}
		}()
		return next(c)
	}
}

// loggerMiddleware builds the per-update request id, stores the request
// context, and logs a single receipt line per update.
func loggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		chatID, userID := int64(0), int64(0)
		if chat := c.Chat(); chat != nil {
			chatID = chat.ID
		}
		if user := c.Sender(); user != nil {
			userID = user.ID
		}

		rid := logger.BuildRID(upd.ID, chatID, userID)
		ctx := logger.WithRID(context.Background(), rid)
		ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
		storeCtx(c, ctx)
		c.Set("update_start", time.Now())

		attrs := []slog.Attr{
			slog.String("rid", rid),
			slog.Int("update_id", upd.ID),
			slog.Int64("user_id", userID),
			slog.Int64("chat_id", chatID),
		}
		switch {
		case upd.Callback != nil:
			key, payload := parseCallback(upd.Callback)
			attrs = append(attrs, slog.String("cb_key", logger.SanitizeLimit(key, 128)))
			if payload != "" {
				attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(payload, 256)))
			}
		case upd.Message != nil:
			if t := c.Text(); t != "" {
				attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(t, 256)))
			}
		}
		logger.TG.LogAttrs(ctx, slog.LevelDebug, "update.received", attrs...)

		return next(c)
	}
}

// isPrivate reports whether the update came from the user's own private
// chat. Group chatter is never conversational input.
func isPrivate(c tele.Context) bool {
	user := c.Sender()
	chat := c.Chat()
	return user != nil && chat != nil && user.ID == chat.ID
}

// gateMiddleware turns non-admin traffic away while the kill switch is off.
func (b *Bot) gateMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if b.sw.Enabled() {
			return next(c)
		}
		if user := c.Sender(); user != nil && user.ID == b.cfg.Admin.UserID {
			return next(c)
		}
		reason := b.sw.Reason()
		if reason == "" {
			reason = "технические работы"
		}
		return c.Send("🔴 Бот временно отключен. Причина: "+reason, tele.ModeHTML)
	}
}
