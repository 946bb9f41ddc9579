package sql

import (
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/genericbot/genericbot/logger"
	"github.com/genericbot/genericbot/model"
	"github.com/genericbot/genericbot/utils/tgUtils"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

type chatService struct {
	*sqlx.DB
	log zerolog.Logger
}

func NewChatService(db *sqlx.DB) *chatService {
	return &chatService{
		DB:  db,
		log: logger.New("chatService"),
	}
}

func (db *chatService) Allow(chat *gotgbot.Chat) error {
	const query = `UPDATE chats SET allowed = true WHERE id = ?`
	_, err := db.Exec(query, chat.Id)
	return err
}

func (db *chatService) Count() (int64, error) {
	const query = `SELECT COUNT(*) FROM chats`
	var count int64
	err := db.Get(&count, query)
	return count, err
}

func (db *chatService) CountCommands() (int64, error) {
	const query = `SELECT COALESCE(SUM(commands_count), 0) FROM chats`
	var count int64
	err := db.Get(&count, query)
	return count, err
}

func (db *chatService) Create(chat *gotgbot.Chat) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer rollback(db.log, tx)

	if err := db.CreateTx(tx, chat); err != nil {
		return err
	}

	return tx.Commit()
}

// CreateTx upserts the chat. A group chat that did not exist before gets the
// default command prefix.
func (db *chatService) CreateTx(tx *sqlx.Tx, chat *gotgbot.Chat) error {
	const query = `INSERT INTO 
    chats (id, title)
    VALUES (?, ?)
    ON DUPLICATE KEY UPDATE title = ?`
	res, err := tx.Exec(query, chat.Id, chat.Title, chat.Title)
	if err != nil {
		return err
	}

	// 1 = inserted, 2 = updated, 0 = unchanged
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 1 && tgUtils.FromGroup(chat) {
		const prefixQuery = `INSERT IGNORE INTO chat_prefixes (chat_id, prefix) VALUES (?, ?)`
		_, err = tx.Exec(prefixQuery, chat.Id, model.DefaultPrefix)
		if err != nil {
			return err
		}
		db.log.Debug().Int64("chat_id", chat.Id).Msg("New group, added default prefix")
	}

	return nil
}

func (db *chatService) Deny(chat *gotgbot.Chat) error {
	const query = `UPDATE chats SET allowed = false WHERE id = ?`
	_, err := db.Exec(query, chat.Id)
	return err
}

func (db *chatService) GetAllAllowed() ([]int64, error) {
	const query = `SELECT id FROM chats WHERE allowed = true`

	var allowed []int64
	err := db.Select(&allowed, query)

	return allowed, err
}

func (db *chatService) IncrementCommands(chatID int64) error {
	const query = `UPDATE chats SET commands_count = commands_count + 1 WHERE id = ?`
	_, err := db.Exec(query, chatID)
	return err
}
