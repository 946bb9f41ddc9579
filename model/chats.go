package model

import (
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/jmoiron/sqlx"
)

// DefaultPrefix is given to every group chat when it is first seen.
const DefaultPrefix = "#!"

type ChatService interface {
	Allow(chat *gotgbot.Chat) error
	Count() (int64, error)
	CountCommands() (int64, error)
	Create(chat *gotgbot.Chat) error
	CreateTx(tx *sqlx.Tx, chat *gotgbot.Chat) error
	Deny(chat *gotgbot.Chat) error
	GetAllAllowed() ([]int64, error)
	IncrementCommands(chatID int64) error
}
