package model

import (
	"github.com/PaulSonOfLars/gotgbot/v2"
)

type ChatsUsersService interface {
	Create(chat *gotgbot.Chat, user *gotgbot.User) error
	CreateBatch(chat *gotgbot.Chat, users []gotgbot.User) error
	// FindMember looks up a member of the chat by numeric id, @username or
	// first name. Returns ErrNotFound if nobody matches.
	FindMember(chatID int64, query string) (User, error)
	Leave(chat *gotgbot.Chat, user *gotgbot.User) error
}
