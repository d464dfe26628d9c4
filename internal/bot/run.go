package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/statusbot/internal/config"
	"github.com/m3rciful/statusbot/internal/logger"
)

// buildPoller returns a webhook or long-polling poller per the run mode.
func buildPoller(cfg *config.Config) tele.Poller {
	runMode := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if runMode == config.RunModeWebhook {
		return &tele.Webhook{
			Listen:   fmt.Sprintf("%s:%d", cfg.Webhook.Listen, cfg.Webhook.Port),
			Endpoint: &tele.WebhookEndpoint{PublicURL: cfg.Webhook.URL},
		}
	}

	timeoutSec := cfg.Telegram.LongPollTimeoutSeconds
	if timeoutSec <= 0 {
		timeoutSec = 10
	}
	return &tele.LongPoller{Timeout: time.Duration(timeoutSec) * time.Second}
}

func (b *Bot) wireRoutes() {
	b.tb.Use(recoverMiddleware, loggerMiddleware, b.gateMiddleware)

	// Active conversation states win over slash commands, so a command
	// typed mid-dialog is consumed as dialog input.
	for name, cmd := range b.reg.Commands() {
		handler := cmd.Handler
		b.tb.Handle(name, func(c tele.Context) error {
			if !isPrivate(c) {
				return nil
			}
			if b.sessions.InProgress(c.Sender().ID) {
				return b.handleText(c)
			}
			return handler(c)
		})
	}

	b.tb.Handle(tele.OnText, b.handleText)
	b.tb.Handle(tele.OnCallback, b.handleCallback)

	logger.TWire.Info("routes wired",
		slog.String("event", "wire.complete"),
		slog.Int("count", len(b.reg.Commands())),
	)
}

// Run starts the bot and blocks until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	switch p := b.tb.Poller.(type) {
	case *tele.Webhook:
		logger.TG.Info("webhook mode",
			slog.String("event", "mode"),
			slog.String("payload", p.Listen),
		)
	default:
		logger.TG.Info("polling mode",
			slog.String("event", "mode"),
		)
		if err := deleteWebhook(b.cfg.Telegram.Token); err != nil {
			logger.TG.Warn("failed to delete webhook",
				slog.String("event", "delete_webhook"),
				slog.String("err", err.Error()),
			)
		}
	}

	if err := b.tb.SetCommands(b.reg.ListCommands()); err != nil {
		logger.TG.Warn("failed to publish command menu",
			slog.String("event", "set_commands"),
			slog.String("err", err.Error()),
		)
	}

	runDone := make(chan struct{})
	go func() {
		b.tb.Start()
		close(runDone)
	}()

	select {
	case <-ctx.Done():
		b.tb.Stop()
		<-runDone
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return ctx.Err()
	case <-runDone:
		return nil
	}
}

// deleteWebhook drops a stale webhook registration before long polling;
// Telegram rejects getUpdates while a webhook is set.
func deleteWebhook(token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("empty token")
	}
	url := fmt.Sprintf("https://api.telegram.org/bot%s/deleteWebhook", token)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader("drop_pending_updates=false"))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("deleteWebhook status: %s", resp.Status)
	}
	return nil
}
