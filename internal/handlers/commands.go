package handlers

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-reminder-bot/internal/i18n"
)

// listTimeLayout is the human-facing timestamp format used in confirmations
// and listings.
const listTimeLayout = "02.01.2006 15:04"

func languageKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Русский(Russian)", "lang_ru"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("English(Английский)", "lang_en"),
		),
	)
}

func (h *Handler) HandleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		h.handleStart(msg)
	case "help":
		h.handleHelp(msg)
	case "set_reminder":
		h.handleSetReminder(msg)
	case "list_reminders":
		h.handleListReminders(msg)
	case "change_language":
		h.handleChangeLanguage(msg)
	}
}

func (h *Handler) handleStart(msg *tgbotapi.Message) {
	lang := h.language(msg.From.ID)

	reply := tgbotapi.NewMessage(msg.Chat.ID,
		i18n.Text(lang, "welcome", map[string]any{"first_name": msg.From.FirstName}))
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				i18n.Text(lang, "button_change_language", nil), "change_lang"),
		),
	)
	if _, err := h.Bot.Send(reply); err != nil {
		h.Log.Error("sending welcome", "chat_id", msg.Chat.ID, "error", err)
	}
}

func (h *Handler) handleHelp(msg *tgbotapi.Message) {
	lang := h.language(msg.From.ID)
	h.send(msg.Chat.ID, i18n.Text(lang, "help_text", nil))
}

// handleSetReminder opens the two-step capture session. A session already in
// progress is restarted.
func (h *Handler) handleSetReminder(msg *tgbotapi.Message) {
	lang := h.language(msg.From.ID)
	h.Capture.Begin(msg.From.ID)
	h.send(msg.Chat.ID, i18n.Text(lang, "prompt_text", nil))
}

func (h *Handler) handleListReminders(msg *tgbotapi.Message) {
	lang := h.language(msg.From.ID)

	rems, err := h.DB.ListReminders(msg.From.ID)
	if err != nil {
		h.Log.Error("listing reminders", "user_id", msg.From.ID, "error", err)
		return
	}
	if len(rems) == 0 {
		h.send(msg.Chat.ID, i18n.Text(lang, "no_reminders", nil))
		return
	}

	var b strings.Builder
	b.WriteString(i18n.Text(lang, "active_reminders_header", nil))
	for _, r := range rems {
		b.WriteString(i18n.Text(lang, "reminder_item", map[string]any{
			"id":   r.ID,
			"text": r.Text,
			"time": r.DueAt.Format(listTimeLayout),
		}))
	}
	h.send(msg.Chat.ID, b.String())
}

func (h *Handler) handleChangeLanguage(msg *tgbotapi.Message) {
	lang := h.language(msg.From.ID)

	reply := tgbotapi.NewMessage(msg.Chat.ID, i18n.Text(lang, "choose_language", nil))
	reply.ReplyMarkup = languageKeyboard()
	if _, err := h.Bot.Send(reply); err != nil {
		h.Log.Error("sending language picker", "chat_id", msg.Chat.ID, "error", err)
	}
}
