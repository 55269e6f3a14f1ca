package models

import "time"

// DefaultLanguage is assigned to a user on first contact.
const DefaultLanguage = "ru"

// User stores bot settings for a telegram user.
type User struct {
	UserID   int64  `db:"user_id"  json:"user_id"`
	Language string `db:"language" json:"language"` // "ru" / "en"
}

// Reminder is a one-time reminder waiting for delivery.
// Rows are written once by the capture flow and deleted once by the
// dispatcher after a confirmed send; there is no update path.
type Reminder struct {
	ID     int64     `db:"id"            json:"id"`
	UserID int64     `db:"user_id"       json:"user_id"`
	Text   string    `db:"reminder_text" json:"reminder_text"`
	DueAt  time.Time `db:"reminder_time" json:"reminder_time"`
}
