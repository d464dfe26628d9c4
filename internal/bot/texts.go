package bot

import (
	"fmt"
	"strings"

	"github.com/m3rciful/statusbot/internal/model"
)

// Callback routing keys. One key per inline button action.
const (
	cbRestartSetup        = "restart_setup"
	cbStartSetup          = "start_setup"
	cbQuickSetup          = "quick_setup"
	cbHelpThreadID        = "help_thread_id"
	cbManageStatus        = "manage_status"
	cbSendMessage         = "send_message"
	cbStats               = "stats"
	cbHistory             = "history"
	cbSubscriptions       = "subscriptions"
	cbSubscribe           = "subscribe"
	cbUnsubscribe         = "unsubscribe"
	cbUnsubscribeAll      = "unsubscribe_all"
	cbSettings            = "settings"
	cbChangeTimezone      = "change_timezone"
	cbChangeGroupSettings = "change_group_settings"
	cbChangeServerInfo    = "change_server_info"
	cbCreateStatusMessage = "create_status_message"
	cbStatus              = "status"
	cbBackToMain          = "back_to_main"
	cbBackToSettings      = "back_to_settings"
	cbAdminLogin          = "admin_login"
	cbAdminLogout         = "admin_logout"
	cbAdminPanel          = "admin_panel"
	cbAdminUsers          = "admin_users"
	cbAdminBroadcast      = "admin_broadcast"
	cbAdminManageBot      = "admin_manage_bot"
	cbAdminEnableBot      = "admin_enable_bot"
	cbAdminDisableBot     = "admin_disable_bot"
)

const textWelcome = `🤖 <b>Добро пожаловать в бот управления статусами!</b>

📋 <b>Выберите способ настройки:</b>

🚀 <b>Быстрая настройка</b> (рекомендуется):
• Бот сам создаст сообщение в группе
• Автоматическая настройка
• Просто укажите ID группы

📋 <b>Ручная настройка</b>:
• Полный контроль над настройками
• Указание всех параметров вручную

💡 <b>Что можно отслеживать?</b>
• Серверы (Minecraft, Discord и др.)
• Сайты и приложения
• Telegram каналы и боты
• Любые другие объекты!`

const textRestarted = "🔄 <b>Бот полностью перезагружен!</b>\n\n" + textWelcome

const textSettingsReset = `🔄 <b>Настройки сброшены!</b>

Вы можете начать настройку заново:`

const textSetupRestarted = `🔄 <b>Настройка перезапущена!</b>

Выберите способ настройки:`

const textNotConfigured = `❌ <b>Бот не настроен</b>

Используйте /start для начальной настройки`

const textStartSetup = `🤖 <b>Настройка группы</b>

Отправьте данные в формате:
<code>group_id,thread_id,message_id,название_группы</code>

📝 <b>Пример:</b>
<code>-100123456789,10,123,Мой Сервер</code>

ℹ️ <i>Если темы нет, оставьте thread_id пустым:</i>
<code>-100123456789,,123,Мой Сервер</code>`

const textChangeGroupSettings = `✏️ <b>Настройки группы</b>

Введите данные в формате:
<code>group_id,thread_id,message_id,название_группы</code>

Пример:
<code>-100123456,10,123,Мой Сервер</code>

Если темы нет, оставьте thread_id пустым:
<code>-100123456,,123,Мой Сервер</code>`

const textBackToGroupSetup = `🔙 <b>Возврат к настройке группы</b>

Введите данные в формате:
<code>group_id,thread_id,message_id,название_группы</code>

Пример:
<code>-100123456789,,123,Мой Сервер</code>`

const textQuickSetup = `🚀 <b>Быстрая настройка</b>

📋 <b>Для автоматической настройки:</b>

1. Добавьте бота в вашу группу
2. Дайте боту права администратора
3. Укажите ID группы ниже

💡 <b>Как найти ID группы?</b>
• Добавьте @RawDataBot в группу
• Он покажет ID группы (начинается с -100)

📝 Введите ID группы:

💡 <b>Пример:</b> <code>-100123456789</code>`

const textThreadIDHelp = `🔍 <b>Как найти данные?</b>

1. <b>group_id</b> - ID группы:
   • Добавьте @RawDataBot в группу
   • Он покажет ID группы (начинается с -100)

2. <b>message_id</b> - ID сообщения:
   • Перешлите сообщение в @RawDataBot
   • Он покажет ID сообщения

3. <b>thread_id</b> - ID темы:
   • Откройте тему в веб-версии
   • Посмотрите в URL: t.me/c/.../<b>123</b>
   • Или оставьте пустым для основной темы

💡 <b>Примеры правильных данных:</b>
• Без темы: <code>-100123456789,,123,Мой Сервер</code>
• С темой: <code>-100123456789,10,123,Мой Сервер</code>`

const textQuickSetupBadID = `❌ <b>Неверный ID группы!</b>

ID группы должен быть отрицательным числом (начинаться с -100).

Примеры правильных ID:
• <code>-100123456789</code>
• <code>-100987654321</code>

Попробуйте снова:`

const textQuickSetupNotNumber = `❌ <b>Неверный формат!</b>

ID группы должен быть числом.
Пример: <code>-100123456789</code>

Попробуйте снова:`

const textAdminAuth = `🔐 <b>Аутентификация администратора</b>

Введите пароль для доступа к админ-панели:`

const textAdminDenied = "❌ <b>Доступ запрещен</b>\n\nЭта команда только для администратора."

const textAdminGranted = "✅ <b>Доступ разрешен!</b>\n\nДобро пожаловать в админ-панель!"

const textAdminBadPassword = "❌ <b>Неверный пароль!</b>\n\nПопробуйте еще раз или вернитесь в меню."

const textAdminLoggedOut = "✅ <b>Выход выполнен</b>\n\nВы вышли из админ-панели."

const textAdminBroadcastPrompt = `📢 <b>Рассылка сообщения</b>

Введите текст для рассылки всем пользователям:`

const textAdminDisablePrompt = `🔴 <b>Выключение бота</b>

Введите причину выключения:`

const textChangeTimezone = `🕐 <b>Изменение часового пояса</b>

Введите ваш часовой пояс (например: Europe/Moscow, Asia/Yekaterinburg):`

const textBadTimezone = "❌ Неверный часовой пояс. Используйте формат: Europe/Moscow"

const textSendMessagePrompt = `📝 <b>Отправка сообщения в группу</b>

Введите текст, и бот отправит его в вашу группу:`

const textGroupSendOK = "✅ Сообщение успешно отправлено в группу!"

const textGroupSendFail = "❌ Не удалось отправить сообщение. Проверьте права бота."

const textGroupDataMissing = "❌ Ошибка: данные группы не найдены."

const textMessageCreated = `✅ <b>Сообщение создано!</b>

Бот создал новое сообщение для статуса в вашей группе.
Теперь вы можете управлять статусом сервера.`

const textMessageCreateFail = `❌ <b>Ошибка создания сообщения</b>

Проверьте права бота в группе.`

const textStatusMessageLost = `❌ <b>Сообщение не найдено!</b>

Бот не может найти сообщение для редактирования.
Возможно, сообщение было удалено или не настроено.

Создайте новое сообщение для статуса:`

const textSubscribed = "✅ Вы успешно подписались на сервер!"
const textUnsubscribed = "✅ Вы отписались от сервера"
const textUnsubscribedAll = "✅ Вы отписались от всех серверов"

const textConfigureGroupFirst = "❌ <b>Сначала настройте группу!</b>\n\nПерейдите в настройки и укажите данные вашей группы."

// formatSetupError wraps a grammar diagnostic with the retry hint.
func formatSetupError(diagnostic string) string {
	return diagnostic + "\n\n" +
		"💡 <b>Пример правильного формата:</b>\n" +
		"<code>-100123456789,,123,Мой Сервер</code>\n\n" +
		"Хотите попробовать снова?"
}

func formatGroupConfigured(groupName string, messageID int64) string {
	return fmt.Sprintf(`✅ Группа '%s' настроена!
💬 Бот будет редактировать сообщение: %d

🔗 <b>Теперь настройте название или ссылку:</b>

Введите название или ссылку для отображения в статусе:

💡 <b>Примеры:</b>
• <code>Мой Minecraft Сервер</code>
• <code>https://myserver.com</code>
• <code>Discord сервер</code>
• <code>t.me/mychannel</code>

Или отправьте <code>пропустить</code> для значения по умолчанию
Или <code>назад</code> чтобы вернуться к настройке группы`, groupName, messageID)
}

func formatSetupComplete(cfg *model.UserConfig) string {
	msgID := int64(0)
	if cfg.MessageID.Valid {
		msgID = cfg.MessageID.Int64
	}
	return fmt.Sprintf(`✅ <b>Настройка завершена!</b>

🏷️ Объект: <b>%s</b>
📋 Группа: %s
💬 Сообщение: %d

Теперь вы можете управлять статусом %s`, cfg.ServerInfo, cfg.GroupName, msgID, cfg.ServerInfo)
}

func formatQuickSetupDone(groupID, messageID int64) string {
	return fmt.Sprintf(`✅ <b>Автонастройка завершена!</b>

📋 Группа ID: %d
💬 Создано сообщение: %d

🤖 Бот автоматически настроен и готов к работе!`, groupID, messageID)
}

func formatQuickSetupFail(reason string) string {
	return fmt.Sprintf(`❌ <b>Ошибка автонастройки!</b>

%s

Выберите действие:`, reason)
}

func formatMainMenu(cfg *model.UserConfig, now string) string {
	msg := "❌ Не создано"
	if cfg.MessageID.Valid {
		msg = fmt.Sprintf("%d", cfg.MessageID.Int64)
	}
	thread := "Нет"
	if cfg.ThreadID.Valid {
		thread = fmt.Sprintf("%d", cfg.ThreadID.Int64)
	}
	return fmt.Sprintf(`🤖 <b>Управление статусами</b>

🏷️ <b>Текущий объект:</b> %s
📋 Группа: %s
💬 Сообщение: %s
🏷️ Тема: %s
⏰ Часовой пояс: %s

<b>Доступные функции:</b>
• ⚡ Управление статусом
• 📝 Отправка сообщений в группу
• 📊 Просмотр статистики
• 📈 История изменений
• 🔔 Управление подписками
• ⚙️ Настройки

⏰ Ваше время: %s`, cfg.ServerInfo, cfg.GroupName, msg, thread, cfg.Timezone, now)
}

func formatStatusManagement(cfg *model.UserConfig, subscribers int) string {
	thread := "Нет"
	if cfg.ThreadID.Valid {
		thread = fmt.Sprintf("%d", cfg.ThreadID.Int64)
	}
	msgID := int64(0)
	if cfg.MessageID.Valid {
		msgID = cfg.MessageID.Int64
	}
	return fmt.Sprintf(`⚡ <b>Управление статусом %s</b>

Группа: %s
Сообщение: %d
Тема: %s
Подписчиков: %d

Выберите новый статус:`, cfg.ServerInfo, cfg.GroupName, msgID, thread, subscribers)
}

func formatNoStatusMessage(serverInfo string) string {
	return fmt.Sprintf(`⚠️ <b>Сообщение не настроено</b>

Для управления статусом %s нужно сообщение в группе.

Выберите действие:`, serverInfo)
}

func formatStatusUpdated(status model.Status, now string) string {
	return fmt.Sprintf(`✅ <b>Статус обновлен!</b>

Новый статус: %s
⏰ Время: %s`, status.Label(), now)
}

func formatChangeServerInfo(current string) string {
	return fmt.Sprintf(`🔗 <b>Изменение названия/ссылки</b>

Текущее значение: <b>%s</b>

Введите новое название или ссылку:

💡 <b>Примеры:</b>
• <code>Мой Minecraft Сервер</code>
• <code>https://myserver.com</code>
• <code>Discord сервер</code>
• <code>t.me/mychannel</code>`, current)
}

func formatServerInfoChanged(info string) string {
	return fmt.Sprintf("✅ Название/ссылка успешно изменена!\n\nТеперь в статусе будет отображаться: <b>%s</b>", info)
}

func formatSettings(cfg *model.UserConfig) string {
	return fmt.Sprintf(`⚙️ <b>Настройки</b>

🏷️ Объект: <b>%s</b>
📋 Группа: %s
⏰ Часовой пояс: %s

Выберите, что изменить:`, cfg.ServerInfo, cfg.GroupName, cfg.Timezone)
}

func formatAdminPanel(totalUsers int) string {
	return fmt.Sprintf(`👑 <b>Админ-панель</b>

Пользователей зарегистрировано: %d

Выберите раздел:`, totalUsers)
}

func formatUserList(users []model.UserOverview) string {
	if len(users) == 0 {
		return "👥 <b>Все пользователи</b>\n\nПока никто не настроил бота."
	}
	var sb strings.Builder
	sb.WriteString("👥 <b>Все пользователи</b>\n\n")
	for _, u := range users {
		status := model.StatusUnknown
		if u.LastStatus.Valid {
			status = model.ParseStatus(u.LastStatus.String)
		}
		fmt.Fprintf(&sb, "%s <b>%s</b> (id %d)\n   Статус: %s | Подписчиков: %d\n",
			status.Emoji(), u.GroupName, u.UserID, status.Title(), u.Subscribers)
	}
	return sb.String()
}

func formatManageBot(enabled bool, reason string) string {
	if enabled {
		return "🔧 <b>Управление ботом</b>\n\nСостояние: 🟢 работает"
	}
	return fmt.Sprintf("🔧 <b>Управление ботом</b>\n\nСостояние: 🔴 выключен\nПричина: %s", reason)
}

func formatSubscriptionsMenu(following int) string {
	return fmt.Sprintf(`🔔 <b>Подписки</b>

Вы подписаны на серверов: %d

Нажмите на сервер, чтобы подписаться или отписаться:`, following)
}

func formatBroadcastDone(sent int) string {
	return fmt.Sprintf("✅ Рассылка отправлена %d пользователям!", sent)
}

func formatBotDisabled(reason string) string {
	return fmt.Sprintf("🔴 Бот выключен. Причина: %s", reason)
}

func formatTimezoneChanged(tz string) string {
	return fmt.Sprintf("✅ Часовой пояс изменен на: %s", tz)
}

func formatSaveError(err error) string {
	return fmt.Sprintf(`❌ <b>Ошибка сохранения настроек!</b>

Причина: %s

Попробуйте снова:`, err)
}
