// Package delivery sends due reminders and commits each one by deleting its
// row only after the transport confirms the send. A failed send leaves the
// row in place, so the reminder is retried on the next scan cycle:
// at-least-once delivery with unbounded retry. A recipient that keeps
// failing (blocked the bot, dead chat) therefore retries forever; there is
// no dead-letter path.
package delivery

import (
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-reminder-bot/internal/i18n"
	"telegram-reminder-bot/internal/models"
)

// Store is the slice of the reminder store the dispatcher needs.
type Store interface {
	GetLanguage(userID int64) (string, error)
	ListDue(now time.Time) ([]models.Reminder, error)
	Remove(id int64) error
}

// Sender abstracts the outbound side of the bot API.
// *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Dispatcher struct {
	bot Sender
	db  Store
	log *slog.Logger
}

func New(bot Sender, db Store, log *slog.Logger) *Dispatcher {
	return &Dispatcher{bot: bot, db: db, log: log}
}

// DeliverDue runs one scan cycle: everything due at now is sent and, on
// confirmed delivery, removed. Errors never escape a cycle; they are logged
// and the next cycle retries.
func (d *Dispatcher) DeliverDue(now time.Time) {
	due, err := d.db.ListDue(now)
	if err != nil {
		d.log.Error("listing due reminders", "error", err)
		return
	}
	for _, r := range due {
		if err := d.deliver(r); err != nil {
			d.log.Error("delivering reminder",
				"reminder_id", r.ID, "user_id", r.UserID, "error", err)
		}
	}
}

func (d *Dispatcher) deliver(r models.Reminder) error {
	lang, err := d.db.GetLanguage(r.UserID)
	if err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(r.UserID,
		fmt.Sprintf("⏰ %s: %s", i18n.Text(lang, "reminder_label", nil), r.Text))
	msg.ReplyMarkup = Keyboard(lang, r.ID)

	if _, err := d.bot.Send(msg); err != nil {
		// Row stays; the next cycle retries.
		return fmt.Errorf("send: %w", err)
	}

	// Commit. A row already removed by a racing cycle is fine.
	return d.db.Remove(r.ID)
}

// Keyboard builds the done / not-done controls, each tagged with the
// reminder id so the acknowledgement callback can be correlated back.
func Keyboard(lang string, reminderID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				i18n.Text(lang, "button_done", nil),
				fmt.Sprintf("done_%d", reminderID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				i18n.Text(lang, "button_not_done", nil),
				fmt.Sprintf("not_done_%d", reminderID)),
		),
	)
}
