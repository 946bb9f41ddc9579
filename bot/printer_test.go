package bot

import (
	"testing"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/stretchr/testify/assert"
)

func TestFormatMessage(t *testing.T) {
	msg := &gotgbot.Message{
		Date: 1686830400,
		Chat: gotgbot.Chat{Id: -100, Title: "Friends", Type: gotgbot.ChatTypeSupergroup},
		From: &gotgbot.User{Id: 1, FirstName: "Alice", Username: "alice"},
		Text: "/remind 5m tea",
	}

	line := formatMessage(msg)
	assert.Contains(t, line, "Friends:")
	assert.Contains(t, line, "Alice")
	assert.Contains(t, line, "(@alice)")
	assert.Contains(t, line, "/remind 5m tea")
	assert.NotContains(t, line, "(edited)")

	msg.EditDate = 1686830460
	msg.Photo = []gotgbot.PhotoSize{{Width: 10, Height: 10}}
	msg.Caption = "look"
	line = formatMessage(msg)
	assert.Contains(t, line, "(edited)")
	assert.Contains(t, line, "[Photo]")
	assert.Contains(t, line, "look")
}
