package handlers

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-reminder-bot/internal/i18n"
)

func (h *Handler) HandleCallback(cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		return
	}

	switch {
	case cq.Data == "change_lang":
		h.handleChangeLangButton(cq)
	case strings.HasPrefix(cq.Data, "lang_"):
		h.handleLangSelect(cq)
	case strings.HasPrefix(cq.Data, "done_"):
		h.handleAck(cq, "done_", "reminder_done", "reminder_done_response")
	case strings.HasPrefix(cq.Data, "not_done_"):
		h.handleAck(cq, "not_done_", "reminder_not_done", "reminder_not_done_response")
	default:
		h.answer(cq, "")
	}
}

// answer clears the client-side spinner, optionally with a toast.
func (h *Handler) answer(cq *tgbotapi.CallbackQuery, text string) {
	if _, err := h.Bot.Request(tgbotapi.NewCallback(cq.ID, text)); err != nil {
		h.Log.Error("answering callback", "callback_id", cq.ID, "error", err)
	}
}

func (h *Handler) handleChangeLangButton(cq *tgbotapi.CallbackQuery) {
	lang := h.language(cq.From.ID)

	edit := tgbotapi.NewEditMessageTextAndMarkup(
		cq.Message.Chat.ID, cq.Message.MessageID,
		i18n.Text(lang, "choose_language", nil), languageKeyboard())
	if _, err := h.Bot.Request(edit); err != nil {
		h.Log.Error("showing language picker", "chat_id", cq.Message.Chat.ID, "error", err)
	}
	h.answer(cq, "")
}

func (h *Handler) handleLangSelect(cq *tgbotapi.CallbackQuery) {
	newLang := strings.TrimPrefix(cq.Data, "lang_")
	if err := h.DB.SetLanguage(cq.From.ID, newLang); err != nil {
		h.Log.Error("setting language", "user_id", cq.From.ID, "error", err)
		h.answer(cq, "")
		return
	}

	// Confirm in the language just chosen.
	lang := h.language(cq.From.ID)
	key := "lang_changed_to_en"
	if newLang == "ru" {
		key = "lang_changed_to_ru"
	}
	edit := tgbotapi.NewEditMessageText(
		cq.Message.Chat.ID, cq.Message.MessageID, i18n.Text(lang, key, nil))
	if _, err := h.Bot.Request(edit); err != nil {
		h.Log.Error("confirming language change", "chat_id", cq.Message.Chat.ID, "error", err)
	}
	h.answer(cq, "")
}

// handleAck appends the acknowledgement line to the delivered notification.
// The reminder row is already gone by the time these buttons exist, so this
// is purely a UI-terminal state.
func (h *Handler) handleAck(cq *tgbotapi.CallbackQuery, prefix, lineKey, toastKey string) {
	lang := h.language(cq.From.ID)

	reminderID, _ := strconv.ParseInt(strings.TrimPrefix(cq.Data, prefix), 10, 64)
	h.Log.Info("reminder acknowledged",
		"reminder_id", reminderID, "user_id", cq.From.ID, "action", strings.TrimSuffix(prefix, "_"))

	edit := tgbotapi.NewEditMessageText(
		cq.Message.Chat.ID, cq.Message.MessageID,
		cq.Message.Text+"\n\n"+i18n.Text(lang, lineKey, nil))
	if _, err := h.Bot.Request(edit); err != nil {
		h.Log.Error("editing notification", "chat_id", cq.Message.Chat.ID, "error", err)
	}
	h.answer(cq, i18n.Text(lang, toastKey, nil))
}
