package bot

import (
	"fmt"
	"strings"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/genericbot/genericbot/utils"
)

var (
	reset  = "\033[0m"
	bold   = "\033[1m"
	red    = "\033[31m"
	green  = "\033[32m"
	purple = "\033[35m"
	cyan   = "\033[36m"
)

func formatUser(user *gotgbot.User) string {
	var sb strings.Builder
	sb.WriteString(bold)
	sb.WriteString(red)
	sb.WriteString(utils.FullName(user.FirstName, user.LastName))
	sb.WriteString(reset)

	if user.Username != "" {
		sb.WriteString(fmt.Sprintf(" %s(@%s)%s", red, user.Username, reset))
	}

	return sb.String()
}

func mediaLabel(msg *gotgbot.Message) string {
	switch {
	case msg.Animation != nil:
		return "GIF"
	case msg.Audio != nil:
		return "Audio"
	case msg.Document != nil:
		return "File"
	case len(msg.Photo) > 0:
		return "Photo"
	case msg.Sticker != nil:
		return "Sticker " + msg.Sticker.Emoji
	case msg.Video != nil:
		return "Video"
	case msg.VideoNote != nil:
		return "Video note"
	case msg.Voice != nil:
		return "Voice message"
	case msg.Location != nil:
		return "Location"
	case msg.Poll != nil:
		return "Poll: " + msg.Poll.Question
	default:
		return ""
	}
}

// formatMessage renders an incoming message as one colored console line.
func formatMessage(msg *gotgbot.Message) string {
	var sb strings.Builder

	date := msg.Date
	if msg.EditDate != 0 {
		date = msg.EditDate
	}
	sb.WriteString(fmt.Sprintf("%s[%s]", cyan, utils.TimestampToTime(date).Format("15:04:05")))

	if msg.Chat.Title != "" {
		sb.WriteString(fmt.Sprintf(" %s:", msg.Chat.Title))
	}
	sb.WriteString(reset)

	if msg.From != nil {
		sb.WriteString(" ")
		sb.WriteString(formatUser(msg.From))
	}

	sb.WriteString(fmt.Sprintf("%s >>> %s", cyan, reset))

	if msg.EditDate != 0 {
		sb.WriteString(fmt.Sprintf("%s(edited) %s", green, reset))
	}

	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil {
		sb.WriteString(fmt.Sprintf("%sReply to %s%s: ", green, reset, formatUser(msg.ReplyToMessage.From)))
	}

	if label := mediaLabel(msg); label != "" {
		sb.WriteString(fmt.Sprintf("%s[%s]%s ", purple, label, reset))
	}

	sb.WriteString(msg.Text)
	sb.WriteString(msg.Caption)

	return sb.String()
}
