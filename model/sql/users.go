package sql

import (
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/genericbot/genericbot/logger"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

type userService struct {
	*sqlx.DB
	log zerolog.Logger
}

func NewUserService(db *sqlx.DB) *userService {
	return &userService{
		DB:  db,
		log: logger.New("userService"),
	}
}

func (db *userService) Allow(user *gotgbot.User) error {
	const query = `UPDATE users SET allowed = true WHERE id = ?`
	_, err := db.Exec(query, user.Id)
	return err
}

func (db *userService) Count() (int64, error) {
	const query = `SELECT COUNT(*) FROM users`
	var count int64
	err := db.Get(&count, query)
	return count, err
}

func (db *userService) Create(user *gotgbot.User) error {
	return upsertUser(db.DB, user)
}

func (db *userService) CreateTx(tx *sqlx.Tx, user *gotgbot.User) error {
	return upsertUser(tx, user)
}

func upsertUser(db sqlx.Execer, user *gotgbot.User) error {
	const query = `INSERT INTO 
    users (id, first_name, last_name, username)
    VALUES (?, ?, ?, ?)
    ON DUPLICATE KEY UPDATE first_name = ?, last_name = ?, username = ?`
	_, err := db.Exec(
		query,
		user.Id,
		user.FirstName,
		NewNullString(user.LastName),
		NewNullString(user.Username),
		user.FirstName,
		NewNullString(user.LastName),
		NewNullString(user.Username),
	)
	return err
}

func (db *userService) Deny(user *gotgbot.User) error {
	const query = `UPDATE users SET allowed = false WHERE id = ?`
	_, err := db.Exec(query, user.Id)
	return err
}

func (db *userService) GetAllAllowed() ([]int64, error) {
	const query = `SELECT id FROM users WHERE allowed = true`

	var allowed []int64
	err := db.Select(&allowed, query)

	return allowed, err
}
