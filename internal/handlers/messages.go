package handlers

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-reminder-bot/internal/capture"
	"telegram-reminder-bot/internal/i18n"
)

// HandleText routes a plain message into the user's capture session. Text
// arriving outside a session is ignored.
func (h *Handler) HandleText(msg *tgbotapi.Message) {
	userID := msg.From.ID

	ev := h.Capture.Input(userID, msg.Text, time.Now())
	if ev.Kind == capture.EventNone {
		return
	}
	lang := h.language(userID)

	switch ev.Kind {
	case capture.EventEmptyText:
		h.send(msg.Chat.ID, i18n.Text(lang, "empty_text_error", nil))

	case capture.EventPromptTime:
		h.send(msg.Chat.ID, i18n.Text(lang, "prompt_time", nil))

	case capture.EventBadTime:
		h.send(msg.Chat.ID, i18n.Text(lang, "invalid_time_format", nil))

	case capture.EventCompleted:
		// The session is cleared only after the row is written; a storage
		// failure keeps the user in the time step so they can retry.
		if _, err := h.DB.AddReminder(userID, ev.Text, ev.DueAt); err != nil {
			h.Log.Error("storing reminder", "user_id", userID, "error", err)
			return
		}
		h.Capture.Clear(userID)
		h.send(msg.Chat.ID, i18n.Text(lang, "reminder_set_success", map[string]any{
			"text": ev.Text,
			"time": ev.DueAt.Format(listTimeLayout),
		}))
	}
}
