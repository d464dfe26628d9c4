package bot

import (
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/statusbot/internal/model"
)

// btn is a convenience wrapper for inline button properties.
type btn struct {
	text   string
	unique string
	data   string
}

// inlineRows builds an inline keyboard from rows of btn.
func inlineRows(rows ...[]btn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	inline := make([][]tele.InlineButton, len(rows))
	for i, row := range rows {
		r := make([]tele.InlineButton, len(row))
		for j, b := range row {
			r[j] = *markup.Data(b.text, b.unique, b.data).Inline()
		}
		inline[i] = r
	}
	markup.InlineKeyboard = inline
	return markup
}

func welcomeKeyboard() *tele.ReplyMarkup {
	return inlineRows(
		[]btn{{text: "📋 Начать настройку", unique: cbStartSetup}},
		[]btn{{text: "🚀 Быстрая настройка", unique: cbQuickSetup}},
		[]btn{{text: "🔍 Как найти thread_id?", unique: cbHelpThreadID}},
		[]btn{{text: "🔄 Перезапустить настройку", unique: cbRestartSetup}},
	)
}

func mainMenuKeyboard() *tele.ReplyMarkup {
	return inlineRows(
		[]btn{{text: "⚡ Управление статусом", unique: cbManageStatus}},
		[]btn{{text: "📝 Отправить сообщение", unique: cbSendMessage}},
		[]btn{{text: "📊 Статистика", unique: cbStats}},
		[]btn{{text: "📈 История", unique: cbHistory}},
		[]btn{{text: "🔔 Подписки", unique: cbSubscriptions}},
		[]btn{{text: "⚙️ Настройки", unique: cbSettings}},
	)
}

func statusKeyboard() *tele.ReplyMarkup {
	return inlineRows(
		[]btn{
			{text: "🟢 Включен", unique: cbStatus, data: string(model.StatusOn)},
			{text: "🟡 Приостановлен", unique: cbStatus, data: string(model.StatusPaused)},
		},
		[]btn{
			{text: "🔴 Выключен", unique: cbStatus, data: string(model.StatusOff)},
			{text: "❓ Неизвестно", unique: cbStatus, data: string(model.StatusUnknown)},
		},
		[]btn{{text: "🔙 Назад", unique: cbBackToMain}},
	)
}

func settingsKeyboard(isAdminUser, authenticated bool) *tele.ReplyMarkup {
	var rows [][]btn
	if isAdminUser {
		if authenticated {
			rows = append(rows, []btn{{text: "👑 Админ-панель", unique: cbAdminPanel}})
		} else {
			rows = append(rows, []btn{{text: "🔐 Войти в админку", unique: cbAdminLogin}})
		}
	}
	rows = append(rows,
		[]btn{{text: "🕐 Изменить часовой пояс", unique: cbChangeTimezone}},
		[]btn{{text: "✏️ Изменить настройки группы", unique: cbChangeGroupSettings}},
		[]btn{{text: "🔗 Изменить название/ссылку", unique: cbChangeServerInfo}},
		[]btn{{text: "🔙 Назад", unique: cbBackToMain}},
	)
	return inlineRows(rows...)
}

func adminKeyboard() *tele.ReplyMarkup {
	return inlineRows(
		[]btn{{text: "👥 Все пользователи", unique: cbAdminUsers}},
		[]btn{{text: "📢 Рассылка", unique: cbAdminBroadcast}},
		[]btn{{text: "🔧 Управление ботом", unique: cbAdminManageBot}},
		[]btn{{text: "🚪 Выйти из админки", unique: cbAdminLogout}},
		[]btn{{text: "🔙 Назад", unique: cbBackToSettings}},
	)
}

func manageBotKeyboard(enabled bool) *tele.ReplyMarkup {
	toggle := btn{text: "🔴 Выключить бота", unique: cbAdminDisableBot}
	if !enabled {
		toggle = btn{text: "🟢 Включить бота", unique: cbAdminEnableBot}
	}
	return inlineRows(
		[]btn{toggle},
		[]btn{{text: "🔙 Назад", unique: cbAdminPanel}},
	)
}

func createMessageKeyboard() *tele.ReplyMarkup {
	return inlineRows(
		[]btn{{text: "📝 Создать сообщение", unique: cbCreateStatusMessage}},
		[]btn{{text: "🔙 Назад", unique: cbBackToMain}},
	)
}

func noMessageKeyboard() *tele.ReplyMarkup {
	return inlineRows(
		[]btn{{text: "📝 Создать сообщение", unique: cbCreateStatusMessage}},
		[]btn{{text: "⚙️ Настроить сообщение", unique: cbChangeGroupSettings}},
		[]btn{{text: "🔙 Назад", unique: cbBackToMain}},
	)
}

func backKeyboard() *tele.ReplyMarkup {
	return inlineRows([]btn{{text: "🔙 Назад", unique: cbBackToMain}})
}

func retrySetupKeyboard() *tele.ReplyMarkup {
	return inlineRows(
		[]btn{{text: "🔄 Попробовать снова", unique: cbRestartSetup}},
		[]btn{{text: "📋 Ручная настройка", unique: cbStartSetup}},
		[]btn{{text: "🚀 Быстрая настройка", unique: cbQuickSetup}},
		[]btn{{text: "❌ Отмена", unique: cbBackToMain}},
	)
}

// cancelKeyboard pairs the "start over" button with a cancel leading back to
// the given screen.
func cancelKeyboard(cancelKey string) *tele.ReplyMarkup {
	return inlineRows(
		[]btn{{text: "🔄 Начать заново", unique: cbRestartSetup}},
		[]btn{{text: "🔙 Отмена", unique: cancelKey}},
	)
}

func restartOnlyKeyboard() *tele.ReplyMarkup {
	return inlineRows([]btn{{text: "🔄 Начать заново", unique: cbRestartSetup}})
}

func passwordRetryKeyboard() *tele.ReplyMarkup {
	return inlineRows(
		[]btn{{text: "🔐 Попробовать снова", unique: cbAdminLogin}},
		[]btn{{text: "🔙 В главное меню", unique: cbBackToMain}},
	)
}

func helpKeyboard() *tele.ReplyMarkup {
	return inlineRows(
		[]btn{{text: "🔄 Начать настройку", unique: cbStartSetup}},
		[]btn{{text: "🔙 Назад", unique: cbRestartSetup}},
	)
}

func settingsShortcutKeyboard() *tele.ReplyMarkup {
	return inlineRows([]btn{{text: "⚙️ Настройки", unique: cbSettings}})
}

// subscriptionsKeyboard lists every owner with a subscribe or unsubscribe
// toggle, depending on whether the viewer already follows them.
func subscriptionsKeyboard(owners []model.UserConfig, following map[int64]bool) *tele.ReplyMarkup {
	var rows [][]btn
	for _, owner := range owners {
		id := strconv.FormatInt(owner.UserID, 10)
		if following[owner.UserID] {
			rows = append(rows, []btn{{text: "🔕 " + owner.GroupName, unique: cbUnsubscribe, data: id}})
		} else {
			rows = append(rows, []btn{{text: "🔔 " + owner.GroupName, unique: cbSubscribe, data: id}})
		}
	}
	if len(following) > 0 {
		rows = append(rows, []btn{{text: "🚫 Отписаться от всех", unique: cbUnsubscribeAll}})
	}
	rows = append(rows, []btn{{text: "🔙 Назад", unique: cbBackToMain}})
	return inlineRows(rows...)
}
