package model

import (
	"time"
)

type (
	ReminderService interface {
		Count() (int64, error)
		// DeleteReminderAt removes the reminder at the 1-based position of the
		// user's list as returned by GetReminders. Reports whether a reminder
		// was removed.
		DeleteReminderAt(userID int64, position int64) (bool, error)
		DeleteReminderByID(id int64) error
		GetAllReminders() ([]Reminder, error)
		GetReminderByID(id int64) (Reminder, error)
		// GetReminders lists the user's reminders ordered by due time, ties
		// broken by id.
		GetReminders(userID int64) ([]Reminder, error)
		SaveReminder(userID int64, channelID int64, text string, createdAt time.Time, remindAt time.Time) (int64, error)
	}

	Reminder struct {
		ID        int64     `db:"id"`
		UserID    int64     `db:"user_id"`
		ChannelID int64     `db:"channel_id"`
		Text      string    `db:"text"`
		CreatedAt time.Time `db:"created_at"`
		RemindAt  time.Time `db:"remind_at"`
		FirstName string    `db:"first_name"`
	}
)
