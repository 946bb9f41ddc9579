package bot

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// applyPrefix rewrites "#!remind 5m tea" into "/remind 5m tea" when text
// starts with one of the chat's prefixes, so handlers only ever see the
// slash form. prefixes must be sorted longest first.
func applyPrefix(text string, prefixes []string) string {
	if strings.HasPrefix(text, "/") {
		return text
	}

	for _, prefix := range prefixes {
		if prefix == "" {
			continue
		}

		rest, ok := strings.CutPrefix(text, prefix)
		if !ok || rest == "" {
			continue
		}

		if r, _ := utf8.DecodeRuneInString(rest); unicode.IsSpace(r) {
			continue
		}

		return "/" + rest
	}

	return text
}
