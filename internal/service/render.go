package service

import (
	"fmt"
	"time"

	"github.com/m3rciful/statusbot/internal/model"
)

const timeLayout = "15:04:05 02.01.2006"

// FormatTime renders a timestamp the way all bot messages show it.
func FormatTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(timeLayout)
}

// RenderCard produces the status card text edited into the group message.
func RenderCard(cfg *model.UserConfig, status model.Status, subscribers int, now time.Time) string {
	return fmt.Sprintf(`%s <b>Статус %s</b>

📊 Статус: <b>%s</b>
👤 Владелец: %s
👥 Подписчиков: %d
⏰ Обновлено: %s

💡 Используйте бота для управления статусом`,
		status.Emoji(), cfg.ServerInfo,
		status.Title(),
		cfg.GroupName,
		subscribers,
		FormatTime(now, cfg.Location()))
}

// RenderNotification produces the direct message sent to each subscriber
// when an owner's status changes.
func RenderNotification(cfg *model.UserConfig, status model.Status, now time.Time) string {
	return fmt.Sprintf(`🔔 <b>Изменение статуса %s</b>

Владелец: <b>%s</b>
Новый статус: %s
⏰ Время: %s`,
		cfg.ServerInfo,
		cfg.GroupName,
		status.Label(),
		FormatTime(now, cfg.Location()))
}

// RenderBootstrapCard is the placeholder card created during quick setup,
// before the first real status arrives.
func RenderBootstrapCard(now time.Time) string {
	return fmt.Sprintf("🤖 <b>Статус сервера</b>\n\n🔄 Инициализация...\n⏰ %s",
		FormatTime(now, time.UTC))
}

// RenderStats formats the global per-status aggregate.
func RenderStats(counts map[model.Status]int, now time.Time, loc *time.Location) string {
	total := 0
	lines := ""
	for _, st := range model.AllStatuses {
		n := counts[st]
		total += n
		lines += fmt.Sprintf("%s %d\n", st.Emoji(), n)
	}
	return fmt.Sprintf(`📊 <b>Глобальная статистика</b>

Всего объектов: %d

Статусы:
%s
⏰ Обновлено: %s`, total, lines, FormatTime(now, loc))
}

// RenderHistory formats recent status events, newest first.
func RenderHistory(events []model.StatusEvent, loc *time.Location) string {
	if len(events) == 0 {
		return "📈 <b>История изменений</b>\n\nИстория пока пуста."
	}
	out := "📈 <b>История изменений</b>\n\n"
	for _, ev := range events {
		out += fmt.Sprintf("%s — %s\n", ev.Status.Label(), FormatTime(ev.CreatedAt, loc))
	}
	return out
}
