package reminders

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/genericbot/genericbot/model"
	"github.com/genericbot/genericbot/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTimeAndText(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		timeText string
		text     string
	}{
		{name: "quoted", input: `"3 hours 20m" take out the trash`, timeText: "3 hours 20m", text: "take out the trash"},
		{name: "typographic quotes", input: "“july 4” fireworks", timeText: "july 4", text: "fireworks"},
		{name: "single keyword", input: "tomorrow feed the cat", timeText: "tomorrow", text: "feed the cat"},
		{name: "unquoted deltas", input: "3 hours 20m feed the cat", timeText: "3 hours 20m", text: "feed the cat"},
		{name: "compact delta", input: "10m tea", timeText: "10m", text: "tea"},
		{name: "unquoted month date", input: "july 4 fireworks", timeText: "july 4", text: "fireworks"},
		{name: "filler word", input: "on friday call mum", timeText: "on friday", text: "call mum"},
		{name: "numbers in the text", input: "5m check 10 minutes later", timeText: "5m", text: "check 10 minutes later"},
		{name: "nothing parses", input: "someday maybe", timeText: "someday", text: "maybe"},
		{name: "single word", input: "tomorrow", timeText: "tomorrow", text: ""},
		{name: "empty", input: "", timeText: "", text: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			timeText, text := splitTimeAndText(tc.input)
			assert.Equal(t, tc.timeText, timeText)
			assert.Equal(t, tc.text, text)
		})
	}
}

func TestFormatReminderList(t *testing.T) {
	reminders := []model.Reminder{
		{ID: 7, Text: "tea", RemindAt: time.Date(2023, time.June, 15, 12, 10, 0, 0, time.UTC)},
		{ID: 3, Text: "<b>cake</b>", RemindAt: time.Date(2023, time.June, 16, 0, 0, 0, 0, time.UTC)},
	}

	assert.Equal(t,
		"  1 | 2023-06-15 12:10:00 | tea\n  2 | 2023-06-16 00:00:00 | <b>cake</b>",
		formatReminderList(reminders, 4096),
	)
}

func TestFormatReminderListTruncates(t *testing.T) {
	var reminders []model.Reminder
	for i := 0; i < 100; i++ {
		reminders = append(reminders, model.Reminder{Text: strings.Repeat("x", 50), RemindAt: time.Now()})
	}

	list := formatReminderList(reminders, 500)
	assert.LessOrEqual(t, len(list), 504)
	assert.True(t, strings.HasSuffix(list, "..."))
	assert.True(t, strings.HasPrefix(list, "  1 | "))
}

func TestFormatDelivery(t *testing.T) {
	reminder := model.Reminder{UserID: 42, FirstName: "Alice", Text: "water <plants>"}
	assert.Equal(t,
		`🔔 <a href="tg://user?id=42">Alice</a>, you asked me to remind you: <b>water &lt;plants&gt;</b>`,
		formatDelivery(reminder),
	)

	reminder.FirstName = ""
	assert.Contains(t, formatDelivery(reminder), `<a href="tg://user?id=42">Hey</a>`)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "", capitalize(""))
	assert.Equal(t, "Cannot mix", capitalize("cannot mix"))
}

func triggers(t *testing.T) []*regexp.Regexp {
	t.Helper()
	p := &Plugin{}
	var result []*regexp.Regexp
	for _, h := range p.Handlers(&gotgbot.User{Username: "testbot"}) {
		handler, ok := h.(*plugin.CommandHandler)
		require.True(t, ok)
		trigger, ok := handler.Trigger.(*regexp.Regexp)
		require.True(t, ok)
		result = append(result, trigger)
	}
	require.Len(t, result, 3)
	return result
}

func TestHandlerTriggers(t *testing.T) {
	all := triggers(t)
	remind, list, remove := all[0], all[1], all[2]

	assert.True(t, remind.MatchString("/remind tomorrow tea"))
	assert.True(t, remind.MatchString("/remind@testbot \"2 days\" call\nmum"))
	assert.True(t, remind.MatchString("/remind"))
	assert.False(t, remind.MatchString("/reminders"))
	assert.False(t, remind.MatchString("/remind_delete 1"))

	for _, alias := range []string{"/reminders", "/reminder_list", "/reminders_list", "/list_reminders", "/Reminders@testbot"} {
		assert.True(t, list.MatchString(alias), alias)
	}
	assert.False(t, list.MatchString("/reminders 1"))

	for _, alias := range []string{"/remind_delete 1", "/reminder_delete 2", "/reminders_delete 3", "/delete_reminder@testbot 4"} {
		assert.True(t, remove.MatchString(alias), alias)
	}

	matches := remove.FindStringSubmatch("/remind_delete 12")
	require.NotNil(t, matches)
	assert.Equal(t, "12", matches[remove.SubexpIndex("position")])
}
