package bot

import (
	"context"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/statusbot/internal/service"
)

// telebotGateway adapts tele.Bot to the outbound interface the workflow
// layer talks to. All outgoing text is HTML.
type telebotGateway struct {
	bot *tele.Bot
}

// NewGateway wraps a constructed bot as a service.Gateway.
func NewGateway(b *tele.Bot) service.Gateway {
	return &telebotGateway{bot: b}
}

func (g *telebotGateway) Send(_ context.Context, chatID, threadID int64, text string) (int64, error) {
	opts := &tele.SendOptions{ParseMode: tele.ModeHTML}
	if threadID != 0 {
		opts.ThreadID = int(threadID)
	}
	msg, err := g.bot.Send(&tele.Chat{ID: chatID}, text, opts)
	if err != nil {
		return 0, err
	}
	return int64(msg.ID), nil
}

func (g *telebotGateway) Edit(_ context.Context, chatID, messageID int64, text string) error {
	ref := &tele.StoredMessage{
		MessageID: strconv.FormatInt(messageID, 10),
		ChatID:    chatID,
	}
	_, err := g.bot.Edit(ref, text, &tele.SendOptions{ParseMode: tele.ModeHTML})
	return err
}
