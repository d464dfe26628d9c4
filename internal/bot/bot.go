// Package bot wires the Telegram surface: commands, inline callbacks, and
// the conversation state machine, all on top of the workflow service.
package bot

import (
	"context"
	"errors"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/statusbot/internal/config"
	"github.com/m3rciful/statusbot/internal/service"
	"github.com/m3rciful/statusbot/internal/session"
)

// Bot glues the Telegram transport to the status workflow.
type Bot struct {
	cfg      *config.Config
	tb       *tele.Bot
	svc      *service.Service
	sessions *session.Store
	sw       *service.Switch
	reg      *Registry
}

// NewTelebot constructs the underlying telebot instance with the configured
// poller and a tuned HTTP client. The gateway adapter needs the instance
// before the rest of the wiring, hence the separate constructor.
func NewTelebot(cfg *config.Config) (*tele.Bot, error) {
	settings := tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: buildPoller(cfg),
		Client: buildHTTPClient(),
	}
	return tele.NewBot(settings)
}

// New wires handlers onto a constructed telebot instance.
func New(cfg *config.Config, tb *tele.Bot, svc *service.Service, sessions *session.Store, sw *service.Switch) *Bot {
	b := &Bot{
		cfg:      cfg,
		tb:       tb,
		svc:      svc,
		sessions: sessions,
		sw:       sw,
		reg:      NewRegistry(),
	}
	b.registerCommands()
	b.registerCallbacks()
	b.wireRoutes()
	return b
}

// screen is one rendered bot view: message text plus its inline keyboard.
type screen struct {
	text   string
	markup *tele.ReplyMarkup
}

func (b *Bot) send(c tele.Context, s screen) error {
	return c.Send(s.text, s.markup, tele.ModeHTML)
}

// edit replaces the originating message in place, which is how every inline
// menu transition works. "Message is not modified" is not an error here.
func (b *Bot) edit(c tele.Context, s screen) error {
	err := c.Edit(s.text, s.markup, tele.ModeHTML)
	if errors.Is(err, tele.ErrSameMessageContent) {
		return nil
	}
	return err
}

func (b *Bot) show(c tele.Context, inPlace bool, s screen) error {
	if inPlace {
		return b.edit(c, s)
	}
	return b.send(c, s)
}

// userLocation resolves the sender's configured timezone, falling back to
// the application default.
func (b *Bot) userLocation(ctx context.Context, userID int64) *time.Location {
	if cfg, err := b.svc.Config(ctx, userID); err == nil {
		return cfg.Location()
	}
	loc, err := time.LoadLocation(config.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (b *Bot) userNow(ctx context.Context, userID int64) string {
	return service.FormatTime(time.Now(), b.userLocation(ctx, userID))
}

// --- screens ----------------------------------------------------------------

func (b *Bot) screenMainMenu(ctx context.Context, userID int64) screen {
	cfg, err := b.svc.Config(ctx, userID)
	if err != nil {
		return screen{text: textNotConfigured, markup: welcomeKeyboard()}
	}
	return screen{
		text:   formatMainMenu(cfg, service.FormatTime(time.Now(), cfg.Location())),
		markup: mainMenuKeyboard(),
	}
}

func (b *Bot) screenSettings(ctx context.Context, userID int64) screen {
	cfg, err := b.svc.Config(ctx, userID)
	if err != nil {
		return screen{text: textNotConfigured, markup: welcomeKeyboard()}
	}
	isAdminUser := userID == b.cfg.Admin.UserID
	return screen{
		text:   formatSettings(cfg),
		markup: settingsKeyboard(isAdminUser, b.sessions.IsAdmin(userID)),
	}
}

func (b *Bot) screenStats(ctx context.Context, userID int64) screen {
	counts, err := b.svc.GlobalStats(ctx)
	if err != nil {
		counts = nil
	}
	loc := b.userLocation(ctx, userID)
	return screen{
		text:   service.RenderStats(counts, time.Now(), loc),
		markup: backKeyboard(),
	}
}

func (b *Bot) screenHistory(ctx context.Context, userID int64) screen {
	events, err := b.svc.History(ctx, userID, 10)
	if err != nil {
		events = nil
	}
	return screen{
		text:   service.RenderHistory(events, b.userLocation(ctx, userID)),
		markup: backKeyboard(),
	}
}

func (b *Bot) screenSubscriptions(ctx context.Context, userID int64) screen {
	owners, err := b.svc.ListOwners(ctx, userID)
	if err != nil {
		owners = nil
	}
	targets, err := b.svc.Subscriptions(ctx, userID)
	if err != nil {
		targets = nil
	}
	following := make(map[int64]bool, len(targets))
	for _, t := range targets {
		following[t.UserID] = true
	}
	return screen{
		text:   formatSubscriptionsMenu(len(following)),
		markup: subscriptionsKeyboard(owners, following),
	}
}

func (b *Bot) screenStatusManagement(ctx context.Context, userID int64) screen {
	cfg, err := b.svc.Config(ctx, userID)
	if err != nil {
		return screen{text: textConfigureGroupFirst, markup: settingsShortcutKeyboard()}
	}
	if !cfg.MessageID.Valid {
		return screen{text: formatNoStatusMessage(cfg.ServerInfo), markup: noMessageKeyboard()}
	}
	subscribers := 0
	if n, err := b.svc.SubscriberCount(ctx, userID); err == nil {
		subscribers = n
	}
	return screen{
		text:   formatStatusManagement(cfg, subscribers),
		markup: statusKeyboard(),
	}
}

func (b *Bot) screenAdminPanel(ctx context.Context) screen {
	users, err := b.svc.ListUsers(ctx)
	if err != nil {
		users = nil
	}
	return screen{text: formatAdminPanel(len(users)), markup: adminKeyboard()}
}

func (b *Bot) screenUserList(ctx context.Context) screen {
	users, err := b.svc.ListUsers(ctx)
	if err != nil {
		users = nil
	}
	return screen{text: formatUserList(users), markup: adminKeyboard()}
}

func (b *Bot) screenManageBot() screen {
	return screen{
		text:   formatManageBot(b.sw.Enabled(), b.sw.Reason()),
		markup: manageBotKeyboard(b.sw.Enabled()),
	}
}
