package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitFirstArg(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		first string
		rest  string
	}{
		{name: "empty", input: "   ", first: "", rest: ""},
		{name: "single word", input: "tomorrow", first: "tomorrow", rest: ""},
		{name: "unquoted", input: "  tomorrow   feed the cat ", first: "tomorrow", rest: "feed the cat"},
		{name: "straight quotes", input: `"3 hours 20m" feed the cat`, first: "3 hours 20m", rest: "feed the cat"},
		{name: "typographic quotes", input: "“july 4” fireworks", first: "july 4", rest: "fireworks"},
		{name: "german quotes", input: "„2 days“ call mum", first: "2 days", rest: "call mum"},
		{name: "guillemets", input: "«friday» pay rent", first: "friday", rest: "pay rent"},
		{name: "unterminated quote", input: `"2 days call mum`, first: "2 days call mum", rest: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			first, rest := SplitFirstArg(tc.input)
			assert.Equal(t, tc.first, first)
			assert.Equal(t, tc.rest, rest)
		})
	}
}

func TestSplitArgs(t *testing.T) {
	assert.Empty(t, SplitArgs(""))
	assert.Equal(t, []string{"alice", "bob"}, SplitArgs("alice  bob"))
	assert.Equal(t, []string{"Mary Ann", "@bob", "42"}, SplitArgs(`"Mary Ann" @bob 42`))
	assert.Equal(t, []string{"x"}, SplitArgs(`"" x`))
}

func TestHasQuotedFirstArg(t *testing.T) {
	assert.True(t, HasQuotedFirstArg(`  "2 days" x`))
	assert.True(t, HasQuotedFirstArg("«friday» x"))
	assert.False(t, HasQuotedFirstArg("friday x"))
	assert.False(t, HasQuotedFirstArg(""))
}
