package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"telegram-reminder-bot/internal/models"
)

// timeLayout is the sortable timestamp format used for reminder_time.
// Lexicographic order on this layout matches chronological order, which is
// what the due-threshold query relies on.
const timeLayout = "2006-01-02 15:04:05"

// ErrUnavailable marks a failure of the underlying database. Callers treat it
// as transient: the scanner logs and retries on the next cycle, command
// handlers abort and let the user try again.
var ErrUnavailable = errors.New("storage unavailable")

//go:embed schema.sql
var ddl embed.FS

type DB struct{ *sql.DB }

func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, wrap("open", err)
	}
	if err = migrate(db); err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

func migrate(db *sql.DB) error {
	b, err := ddl.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	if _, err = db.Exec(string(b)); err != nil {
		return wrap("migrate", err)
	}
	return nil
}

func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

// ---------- users -----------------------------------------------------------

// GetLanguage returns the user's preferred language. A user seen for the
// first time is provisioned with the default language as a side effect; this
// upsert-on-read is intentional and relied upon by the handlers.
func (d *DB) GetLanguage(userID int64) (string, error) {
	var lang string
	err := d.QueryRow(`SELECT language FROM users WHERE user_id=?`, userID).Scan(&lang)
	if errors.Is(err, sql.ErrNoRows) {
		if err := d.SetLanguage(userID, models.DefaultLanguage); err != nil {
			return "", err
		}
		return models.DefaultLanguage, nil
	}
	if err != nil {
		return "", wrap("get language", err)
	}
	return lang, nil
}

func (d *DB) SetLanguage(userID int64, lang string) error {
	_, err := d.Exec(`
        INSERT INTO users (user_id, language) VALUES (?,?)
        ON CONFLICT(user_id) DO UPDATE SET language=excluded.language`,
		userID, lang)
	if err != nil {
		return wrap("set language", err)
	}
	return nil
}

// ---------- reminders -------------------------------------------------------

func (d *DB) AddReminder(userID int64, text string, dueAt time.Time) (int64, error) {
	res, err := d.Exec(`
        INSERT INTO reminders (user_id, reminder_text, reminder_time) VALUES (?,?,?)`,
		userID, text, dueAt.Format(timeLayout))
	if err != nil {
		return 0, wrap("add reminder", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrap("add reminder", err)
	}
	return id, nil
}

// ListReminders returns the user's reminders ordered by due time, earliest first.
func (d *DB) ListReminders(userID int64) ([]models.Reminder, error) {
	rows, err := d.Query(`
        SELECT id, user_id, reminder_text, reminder_time
        FROM reminders WHERE user_id=? ORDER BY reminder_time`, userID)
	if err != nil {
		return nil, wrap("list reminders", err)
	}
	return scanReminders(rows)
}

// ListDue returns every reminder whose due time is at or before now.
func (d *DB) ListDue(now time.Time) ([]models.Reminder, error) {
	rows, err := d.Query(`
        SELECT id, user_id, reminder_text, reminder_time
        FROM reminders WHERE reminder_time<=?`, now.Format(timeLayout))
	if err != nil {
		return nil, wrap("list due", err)
	}
	return scanReminders(rows)
}

// Remove deletes a reminder by id. A row that is already gone is not an
// error: two racing removals must both succeed.
func (d *DB) Remove(id int64) error {
	if _, err := d.Exec(`DELETE FROM reminders WHERE id=?`, id); err != nil {
		return wrap("remove", err)
	}
	return nil
}

func scanReminders(rows *sql.Rows) ([]models.Reminder, error) {
	defer rows.Close()
	var res []models.Reminder
	for rows.Next() {
		var r models.Reminder
		var due string
		if err := rows.Scan(&r.ID, &r.UserID, &r.Text, &due); err != nil {
			return nil, wrap("scan reminder", err)
		}
		t, err := time.ParseInLocation(timeLayout, due, time.Local)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: bad timestamp %q: %w", due, err)
		}
		r.DueAt = t
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("scan reminder", err)
	}
	return res, nil
}
