package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyPrefix(t *testing.T) {
	prefixes := []string{"#!!", "#!", "?"}

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "default prefix", input: "#!remind 5m tea", expected: "/remind 5m tea"},
		{name: "longest prefix wins", input: "#!!reminders", expected: "/reminders"},
		{name: "other prefix", input: "?rate pizza", expected: "/rate pizza"},
		{name: "slash commands stay", input: "/remind 5m tea", expected: "/remind 5m tea"},
		{name: "prefix alone", input: "#!", expected: "#!"},
		{name: "prefix followed by space", input: "? what", expected: "? what"},
		{name: "plain text", input: "hello #!remind", expected: "hello #!remind"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, applyPrefix(tc.input, prefixes))
		})
	}

	assert.Equal(t, "#!remind", applyPrefix("#!remind", nil))
}
