package handlers

import (
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-reminder-bot/internal/capture"
	"telegram-reminder-bot/internal/models"
)

// Bot is the outbound slice of the telegram API the handlers use.
// *tgbotapi.BotAPI satisfies it.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Store is the slice of the reminder store the handlers use.
type Store interface {
	GetLanguage(userID int64) (string, error)
	SetLanguage(userID int64, lang string) error
	AddReminder(userID int64, text string, dueAt time.Time) (int64, error)
	ListReminders(userID int64) ([]models.Reminder, error)
}

type Handler struct {
	Bot     Bot
	DB      Store
	Capture *capture.Machine
	Log     *slog.Logger
}

func New(bot Bot, db Store, m *capture.Machine, log *slog.Logger) *Handler {
	return &Handler{Bot: bot, DB: db, Capture: m, Log: log}
}

func (h *Handler) HandleMessage(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	if msg.IsCommand() {
		h.HandleCommand(msg)
	} else {
		h.HandleText(msg)
	}
}

func (h *Handler) send(chatID int64, text string) {
	if _, err := h.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		h.Log.Error("sending message", "chat_id", chatID, "error", err)
	}
}

// language resolves the user's language, provisioning the default for a user
// seen for the first time. Lookup failure falls back to the default so a
// storage hiccup degrades wording, not behavior.
func (h *Handler) language(userID int64) string {
	lang, err := h.DB.GetLanguage(userID)
	if err != nil {
		h.Log.Error("resolving language", "user_id", userID, "error", err)
		return models.DefaultLanguage
	}
	return lang
}
