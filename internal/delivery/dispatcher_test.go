package delivery

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-reminder-bot/internal/storage"
)

type fakeSender struct {
	fail bool
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.fail {
		return tgbotapi.Message{}, errors.New("forbidden: bot was blocked by the user")
	}
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDeliverDueRemovesDeliveredReminders(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 3, 10, 9, 10, 0, 0, time.Local)

	_, err := db.AddReminder(42, "first", now.Add(-10*time.Minute))
	require.NoError(t, err)
	_, err = db.AddReminder(42, "second", now.Add(-5*time.Minute))
	require.NoError(t, err)

	bot := &fakeSender{}
	New(bot, db, discardLogger()).DeliverDue(now)

	require.Len(t, bot.sent, 2)
	assert.Contains(t, bot.sent[0].Text, "first")
	assert.Equal(t, int64(42), bot.sent[0].ChatID)

	// Delivered and committed: nothing left for the owner.
	rems, err := db.ListReminders(42)
	require.NoError(t, err)
	assert.Empty(t, rems)
}

func TestDeliverDueSkipsFutureReminders(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

	_, err := db.AddReminder(42, "not yet", now.Add(time.Minute))
	require.NoError(t, err)

	bot := &fakeSender{}
	New(bot, db, discardLogger()).DeliverDue(now)

	assert.Empty(t, bot.sent)
	rems, err := db.ListReminders(42)
	require.NoError(t, err)
	assert.Len(t, rems, 1)
}

func TestFailedDeliveryKeepsReminderDue(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

	_, err := db.AddReminder(42, "retry me", now.Add(-time.Minute))
	require.NoError(t, err)

	d := New(&fakeSender{fail: true}, db, discardLogger())
	d.DeliverDue(now)

	// Still due on the next poll.
	due, err := db.ListDue(now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "retry me", due[0].Text)

	// A later successful cycle commits it.
	bot := &fakeSender{}
	New(bot, db, discardLogger()).DeliverDue(now)
	require.Len(t, bot.sent, 1)

	due, err = db.ListDue(now)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestNotificationCarriesAckButtons(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

	id, err := db.AddReminder(42, "Buy milk", now.Add(-time.Minute))
	require.NoError(t, err)

	bot := &fakeSender{}
	New(bot, db, discardLogger()).DeliverDue(now)
	require.Len(t, bot.sent, 1)

	kb, ok := bot.sent[0].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, 2)

	done := kb.InlineKeyboard[0][0]
	notDone := kb.InlineKeyboard[1][0]
	require.NotNil(t, done.CallbackData)
	require.NotNil(t, notDone.CallbackData)
	assert.Equal(t, "done_"+strconv.FormatInt(id, 10), *done.CallbackData)
	assert.Equal(t, "not_done_"+strconv.FormatInt(id, 10), *notDone.CallbackData)
}
