package misc

import (
	"regexp"
	"testing"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/genericbot/genericbot/plugin"
	"github.com/genericbot/genericbot/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRating(t *testing.T) {
	for _, thing := range []string{"pizza", "pineapple on pizza", "", "🦆"} {
		score := rating(thing)
		assert.GreaterOrEqual(t, score, 0)
		assert.Less(t, score, 12)
		assert.Equal(t, score, rating(thing), "rating must be stable")
	}
}

func TestFormatStats(t *testing.T) {
	snapshot := statsSnapshot{
		uptime:     26*time.Hour + 3*time.Minute + 4*time.Second + 500*time.Millisecond,
		chats:      12,
		users:      3456,
		commands:   1234567,
		reminders:  8,
		goroutines: 9,
		versionInfo: utils.VersionInfo{
			GoVersion: "go1.23.4",
			GoOS:      "linux",
			GoArch:    "amd64",
			Revision:  "0123456789abcdef",
		},
	}

	text := formatStats(snapshot)
	assert.Contains(t, text, "<b>Uptime:</b> 1d2h3m4s")
	assert.Contains(t, text, "<b>Users:</b> 3,456")
	assert.Contains(t, text, "<b>Commands executed:</b> 1,234,567")
	assert.Contains(t, text, "<b>Pending reminders:</b> 8")
	assert.Contains(t, text, "revision <code>0123456</code>")
	assert.NotContains(t, text, "CPU usage")

	snapshot.usage = &processUsage{cpuPercent: 12.34, maxRSSBytes: 3 * 1024 * 1024}
	text = formatStats(snapshot)
	assert.Contains(t, text, "<b>CPU usage:</b> 12.3%")
	assert.Contains(t, text, "<b>Memory usage:</b> 3.00 MB")
}

func TestMeasureUsage(t *testing.T) {
	usage, err := measureUsage(10 * time.Millisecond)
	if err != nil {
		t.Skip(err)
	}
	assert.GreaterOrEqual(t, usage.cpuPercent, 0.0)
	assert.Greater(t, usage.maxRSSBytes, int64(0))
}

func TestHandlerTriggers(t *testing.T) {
	p := &Plugin{}
	var triggers []*regexp.Regexp
	for _, h := range p.Handlers(&gotgbot.User{Username: "testbot"}) {
		handler, ok := h.(*plugin.CommandHandler)
		require.True(t, ok)
		triggers = append(triggers, handler.Trigger.(*regexp.Regexp))
	}
	require.Len(t, triggers, 4)
	stats, q, rate, owner := triggers[0], triggers[1], triggers[2], triggers[3]

	assert.True(t, stats.MatchString("/stats"))
	assert.True(t, stats.MatchString("/status@testbot"))
	assert.True(t, q.MatchString("/q will it rain?"))
	assert.True(t, q.MatchString("/q"))
	assert.False(t, q.MatchString("/quote"))
	assert.True(t, rate.MatchString("/rate pizza"))
	assert.False(t, rate.MatchString("/rate"))
	assert.True(t, owner.MatchString("/message_owner hi there"))

	matches := rate.FindStringSubmatch("/rate  cold pizza")
	assert.Equal(t, "cold pizza", matches[rate.SubexpIndex("thing")])
}
