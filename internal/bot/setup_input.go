package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// groupSetup is the parsed form of the manual setup line
// "group_id,thread_id,message_id,label".
type groupSetup struct {
	GroupID   int64
	ThreadID  *int64
	MessageID int64
	Label     string
}

var (
	errSetupFieldCount = errors.New("❌ Неверный формат. Нужно 4 значения через запятую")
	errSetupGroupID    = errors.New("❌ ID группы должен быть отрицательным")
	errSetupEmptyLabel = errors.New("❌ Название группы не может быть пустым")
)

// parseGroupSetup validates the four-field manual setup line. Each
// violation yields its own diagnostic; the caller shows it verbatim.
func parseGroupSetup(text string) (groupSetup, error) {
	parts := strings.Split(text, ",")
	if len(parts) < 4 {
		return groupSetup{}, errSetupFieldCount
	}

	groupID, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return groupSetup{}, fmt.Errorf("❌ Ошибка в числовых значениях: %s", parts[0])
	}

	var threadID *int64
	rawThread := strings.TrimSpace(parts[1])
	if rawThread != "" && rawThread != "None" {
		id, err := strconv.ParseInt(rawThread, 10, 64)
		if err != nil {
			return groupSetup{}, fmt.Errorf("❌ Ошибка в числовых значениях: %s", parts[1])
		}
		threadID = &id
	}

	messageID, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
	if err != nil {
		return groupSetup{}, fmt.Errorf("❌ Ошибка в числовых значениях: %s", parts[2])
	}

	if groupID >= 0 {
		return groupSetup{}, errSetupGroupID
	}

	label := strings.TrimSpace(parts[3])
	if label == "" {
		return groupSetup{}, errSetupEmptyLabel
	}

	return groupSetup{
		GroupID:   groupID,
		ThreadID:  threadID,
		MessageID: messageID,
		Label:     label,
	}, nil
}

var (
	errQuickSetupNotNumber = errors.New("quick setup: group id is not a number")
	errQuickSetupBadID     = errors.New("quick setup: group id must be negative")
)

// parseQuickSetupGroupID validates the bare group id for quick setup. It
// runs before any Telegram call, so a bad id never reaches the gateway.
func parseQuickSetupGroupID(text string) (int64, error) {
	groupID, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, errQuickSetupNotNumber
	}
	if groupID >= 0 {
		return 0, errQuickSetupBadID
	}
	return groupID, nil
}
