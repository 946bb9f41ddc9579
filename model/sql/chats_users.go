package sql

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/genericbot/genericbot/logger"
	"github.com/genericbot/genericbot/model"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

type chatsUsersService struct {
	Chats model.ChatService
	Users model.UserService
	*sqlx.DB
	log zerolog.Logger
}

func NewChatsUsersService(db *sqlx.DB, chatService model.ChatService, userService model.UserService) *chatsUsersService {
	return &chatsUsersService{
		Chats: chatService,
		Users: userService,
		DB:    db,
		log:   logger.New("chatsUsersService"),
	}
}

func (db *chatsUsersService) Create(chat *gotgbot.Chat, user *gotgbot.User) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer rollback(db.log, tx)

	err = db.Chats.CreateTx(tx, chat)
	if err != nil {
		return err
	}

	err = db.Users.CreateTx(tx, user)
	if err != nil {
		return err
	}

	const query = `INSERT INTO 
    chats_users (chat_id, user_id, msg_count, in_group) 
    VALUES (?, ?, 1, true)
    ON DUPLICATE KEY UPDATE msg_count = msg_count + 1, in_group = true`
	_, err = tx.Exec(query, chat.Id, user.Id)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (db *chatsUsersService) CreateBatch(chat *gotgbot.Chat, users []gotgbot.User) error {
	const query = `INSERT INTO 
    chats_users (chat_id, user_id, msg_count, in_group) 
    VALUES (?, ?, 0, true)
    ON DUPLICATE KEY UPDATE in_group = true`

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer rollback(db.log, tx)

	err = db.Chats.CreateTx(tx, chat)
	if err != nil {
		return err
	}

	for i := range users {
		user := &users[i]
		if user.IsBot {
			continue
		}

		err = db.Users.CreateTx(tx, user)
		if err != nil {
			return err
		}

		_, err = tx.Exec(query, chat.Id, user.Id)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (db *chatsUsersService) FindMember(chatID int64, query string) (model.User, error) {
	query = strings.TrimSpace(query)

	var user model.User
	var err error

	if id, convErr := strconv.ParseInt(query, 10, 64); convErr == nil {
		const byID = `SELECT u.id, u.first_name, u.last_name, u.username FROM chats_users cu
JOIN users u ON u.id = cu.user_id
WHERE cu.chat_id = ? AND cu.in_group = true AND u.id = ?`
		err = db.Get(&user, byID, chatID, id)
	} else if username, ok := strings.CutPrefix(query, "@"); ok {
		const byUsername = `SELECT u.id, u.first_name, u.last_name, u.username FROM chats_users cu
JOIN users u ON u.id = cu.user_id
WHERE cu.chat_id = ? AND cu.in_group = true AND LOWER(u.username) = LOWER(?)`
		err = db.Get(&user, byUsername, chatID, username)
	} else {
		const byFirstName = `SELECT u.id, u.first_name, u.last_name, u.username FROM chats_users cu
JOIN users u ON u.id = cu.user_id
WHERE cu.chat_id = ? AND cu.in_group = true AND LOWER(u.first_name) = LOWER(?)
ORDER BY cu.msg_count DESC
LIMIT 1`
		err = db.Get(&user, byFirstName, chatID, query)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return user, model.ErrNotFound
	}

	return user, err
}

func (db *chatsUsersService) Leave(chat *gotgbot.Chat, user *gotgbot.User) error {
	const query = `UPDATE chats_users SET in_group = false
	WHERE chat_id = ?
	  AND user_id = ?`

	_, err := db.Exec(query, chat.Id, user.Id)
	return err
}
