package prefix

import (
	"regexp"
	"testing"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/genericbot/genericbot/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePrefix(t *testing.T) {
	for _, valid := range []string{"#!", "!", ".", "$$", "🤖"} {
		assert.NoError(t, validatePrefix(valid), valid)
	}

	assert.EqualError(t, validatePrefix("/"), "a prefix can't start with a slash")
	assert.EqualError(t, validatePrefix("bot"), "a prefix can't start with a letter")
	assert.EqualError(t, validatePrefix("!!!!!!!!!"), "a prefix can be at most 8 characters long")
}

func TestFormatPrefixes(t *testing.T) {
	assert.Equal(t, "💡 This chat has no prefixes, only /commands work.", formatPrefixes(nil))
	assert.Equal(t,
		"<b>Command prefixes in this chat:</b>\n• <code>#!</code>\n• <code>&lt;</code>",
		formatPrefixes([]string{"#!", "<"}),
	)
}

func TestHandlers(t *testing.T) {
	handlers := New(nil).Handlers(&gotgbot.User{Username: "testbot"})
	require.Len(t, handlers, 3)

	triggers := make([]*regexp.Regexp, 0, len(handlers))
	for _, h := range handlers {
		handler, ok := h.(*plugin.CommandHandler)
		require.True(t, ok)
		assert.True(t, handler.GroupOnly)
		triggers = append(triggers, handler.Trigger.(*regexp.Regexp))
	}
	list, add, remove := triggers[0], triggers[1], triggers[2]

	assert.True(t, list.MatchString("/prefixes@testbot"))
	assert.False(t, list.MatchString("/prefixes now"))

	matches := add.FindStringSubmatch("/prefix_add !!")
	require.NotNil(t, matches)
	assert.Equal(t, "!!", matches[add.SubexpIndex("prefix")])
	assert.False(t, add.MatchString("/prefix_add"))
	assert.False(t, add.MatchString("/prefix_add ! !"))

	matches = remove.FindStringSubmatch("/prefix_remove@testbot #!")
	require.NotNil(t, matches)
	assert.Equal(t, "#!", matches[remove.SubexpIndex("prefix")])
}
