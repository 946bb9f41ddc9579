package interactions

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/genericbot/genericbot/model"
	"github.com/genericbot/genericbot/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMembers map[string]model.User

func (f fakeMembers) FindMember(_ int64, query string) (model.User, error) {
	if query == "broken" {
		return model.User{}, errors.New("connection reset")
	}
	user, ok := f[query]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return user, nil
}

func TestResolve(t *testing.T) {
	p := New(fakeMembers{
		"alice":  {ID: 1, FirstName: "Alice"},
		"@bob_x": {ID: 2, FirstName: "Bob", LastName: sql.NullString{String: "<X>", Valid: true}},
	})

	mentions := p.resolve(-100, []string{"alice", "nobody", "broken", "@bob_x"})
	assert.Equal(t, []string{
		`<a href="tg://user?id=1">Alice</a>`,
		`<a href="tg://user?id=2">Bob &lt;X&gt;</a>`,
	}, mentions)

	assert.Empty(t, p.resolve(-100, nil))
}

func TestInteractionText(t *testing.T) {
	hug, slap, kiss := interactions[0], interactions[1], interactions[2]

	assert.Equal(t, "You can't hug nobody!", hug.text("A", nil))
	assert.Equal(t, "A hugs B, C!", hug.text("A", []string{"B", "C"}))
	assert.Equal(t, "A slaps B! B..Baka!!!", slap.text("A", []string{"B"}))
	assert.Equal(t, "Go slap yourself you baka", slap.text("A", []string{}))
	assert.Equal(t, "A Kisses B! Chuuuu!", kiss.text("A", []string{"B"}))
	assert.Equal(t, "DW anon you'll find someone to love some day!", kiss.text("A", nil))
}

func TestHandlers(t *testing.T) {
	p := New(fakeMembers{})
	handlers := p.Handlers(&gotgbot.User{Username: "testbot"})
	require.Len(t, handlers, len(interactions))
	require.Len(t, p.Commands(), len(interactions))

	for n, h := range handlers {
		handler, ok := h.(*plugin.CommandHandler)
		require.True(t, ok)
		assert.True(t, handler.GroupOnly)

		trigger := handler.Trigger.(*regexp.Regexp)
		command := "/" + interactions[n].command

		assert.True(t, trigger.MatchString(command))
		assert.True(t, trigger.MatchString(command+"@testbot"))
		assert.False(t, trigger.MatchString(command+"s"))

		matches := trigger.FindStringSubmatch(command + ` alice "mary jane"`)
		require.NotNil(t, matches)
		assert.Equal(t, `alice "mary jane"`, matches[trigger.SubexpIndex("args")])
	}
}
