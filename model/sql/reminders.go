package sql

import (
	"database/sql"
	"errors"
	"time"

	"github.com/genericbot/genericbot/logger"
	"github.com/genericbot/genericbot/model"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

type reminderService struct {
	*sqlx.DB
	log zerolog.Logger
}

func NewReminderService(db *sqlx.DB) *reminderService {
	return &reminderService{
		DB:  db,
		log: logger.New("reminderService"),
	}
}

func (db *reminderService) Count() (int64, error) {
	const query = `SELECT COUNT(*) FROM reminders`
	var count int64
	err := db.Get(&count, query)
	return count, err
}

// DeleteReminderAt ranks the user's reminders the same way GetReminders
// orders them and deletes the one at position in a single statement, so a
// concurrent delete of the same position removes at most one row. The
// derived table lets MySQL delete from the table it selects from.
func (db *reminderService) DeleteReminderAt(userID int64, position int64) (bool, error) {
	if position < 1 {
		return false, nil
	}

	const query = `DELETE FROM reminders WHERE id IN (
    SELECT id FROM (
        SELECT id, ROW_NUMBER() OVER (ORDER BY remind_at, id) AS pos
        FROM reminders
        WHERE user_id = ?
    ) AS ranked
    WHERE ranked.pos = ?
)`
	res, err := db.Exec(query, userID, position)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (db *reminderService) DeleteReminderByID(id int64) error {
	const query = `DELETE FROM reminders WHERE id = ?`
	_, err := db.Exec(query, id)
	return err
}

func (db *reminderService) GetAllReminders() ([]model.Reminder, error) {
	const query = `SELECT id, remind_at FROM reminders ORDER BY remind_at, id`
	var reminders []model.Reminder
	err := db.Select(&reminders, query)
	return reminders, err
}

func (db *reminderService) GetReminderByID(id int64) (model.Reminder, error) {
	const query = `SELECT r.id, r.user_id, r.channel_id, r.text, r.created_at, r.remind_at,
       COALESCE(u.first_name, '') AS first_name
FROM reminders r
LEFT JOIN users u ON u.id = r.user_id
WHERE r.id = ?`
	var reminder model.Reminder
	err := db.Get(&reminder, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return reminder, model.ErrNotFound
		}
	}

	return reminder, err
}

func (db *reminderService) GetReminders(userID int64) ([]model.Reminder, error) {
	const query = `SELECT id, user_id, channel_id, text, created_at, remind_at
FROM reminders
WHERE user_id = ?
ORDER BY remind_at, id`
	reminders := make([]model.Reminder, 0)
	err := db.Select(&reminders, query, userID)
	return reminders, err
}

func (db *reminderService) SaveReminder(
	userID int64,
	channelID int64,
	text string,
	createdAt time.Time,
	remindAt time.Time,
) (int64, error) {
	const query = `INSERT INTO reminders (user_id, channel_id, text, created_at, remind_at) VALUES (?, ?, ?, ?, ?)`
	res, err := db.Exec(
		query,
		userID,
		channelID,
		text,
		createdAt.UTC().Truncate(time.Second),
		remindAt.UTC().Truncate(time.Second),
	)
	if err != nil {
		return 0, err
	}

	lastInsertedID, err := res.LastInsertId()
	return lastInsertedID, err
}
