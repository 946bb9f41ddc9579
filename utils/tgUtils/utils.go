package tgUtils

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/genericbot/genericbot/utils"
)

func AnyText(message *gotgbot.Message) string {
	text := message.Text
	if message.Text == "" {
		text = message.Caption
	}
	return text
}

func AdminID() int64 {
	adminId, _ := strconv.ParseInt(os.Getenv("ADMIN_ID"), 10, 64)
	return adminId
}

func IsAdmin(user *gotgbot.User) bool {
	return user != nil && AdminID() == user.Id
}

func FromGroup(chat *gotgbot.Chat) bool {
	return chat.Type == gotgbot.ChatTypeGroup || chat.Type == gotgbot.ChatTypeSupergroup
}

func IsPrivate(chat *gotgbot.Chat) bool {
	return chat.Type == gotgbot.ChatTypePrivate
}

func IsReply(message *gotgbot.Message) bool {
	return message.ReplyToMessage != nil
}

// Mention links to a user by id, which works even without a username.
func Mention(userID int64, name string) string {
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, userID, utils.Escape(name))
}

type ReactionFallbackOpts struct {
	SendMessageOpts *gotgbot.SendMessageOpts
	Fallback        string
}

// AddRectionWithFallback adds a reaction to a message. If reactions are disabled, a Fallback message is sent instead
func AddRectionWithFallback(b *gotgbot.Bot, message *gotgbot.Message, emoji string, opts *ReactionFallbackOpts) error {
	_, err := message.SetReaction(b, &gotgbot.SetMessageReactionOpts{
		Reaction: []gotgbot.ReactionType{
			gotgbot.ReactionTypeEmoji{
				Emoji: emoji,
			},
		},
	})

	var telegramErr *gotgbot.TelegramError
	if err != nil && errors.As(err, &telegramErr) && telegramErr.Description == ErrReactionInvalid {
		fallback := opts.Fallback
		if fallback == "" {
			fallback = emoji
		}

		sendMessageOpts := opts.SendMessageOpts
		if sendMessageOpts == nil {
			sendMessageOpts = utils.DefaultSendOptions()
		}

		_, err = message.Reply(b, fallback, sendMessageOpts)
	}

	return err
}

// IsForbiddenError reports whether Telegram refuses to deliver to a chat at
// all, e.g. because the bot was blocked or removed from the group.
func IsForbiddenError(err error) bool {
	var telegramErr *gotgbot.TelegramError
	return errors.As(err, &telegramErr) && telegramErr.Code == 403
}
