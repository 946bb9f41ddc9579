package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// closingQuotes maps every accepted opening quote to its closing
// counterpart. Mobile clients like to replace straight quotes with
// typographic ones.
var closingQuotes = map[rune]rune{
	'"': '"',
	'“': '”',
	'„': '“',
	'«': '»',
}

// SplitFirstArg splits off the first argument of s. A quoted first argument
// may contain spaces; the quotes are removed. rest is trimmed.
func SplitFirstArg(s string) (first, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	if s == "" {
		return "", ""
	}

	r, size := utf8.DecodeRuneInString(s)
	if closing, ok := closingQuotes[r]; ok {
		inner := s[size:]
		end := strings.IndexRune(inner, closing)
		if end == -1 {
			return strings.TrimSpace(inner), ""
		}
		return inner[:end], strings.TrimSpace(inner[end+utf8.RuneLen(closing):])
	}

	end := strings.IndexFunc(s, unicode.IsSpace)
	if end == -1 {
		return s, ""
	}
	return s[:end], strings.TrimSpace(s[end:])
}

// SplitArgs splits s into whitespace separated arguments, keeping quoted
// runs together.
func SplitArgs(s string) []string {
	var args []string
	for {
		first, rest := SplitFirstArg(s)
		if first == "" && rest == "" {
			return args
		}
		if first != "" {
			args = append(args, first)
		}
		s = rest
	}
}

// HasQuotedFirstArg reports whether s starts with a quote SplitFirstArg
// understands.
func HasQuotedFirstArg(s string) bool {
	r, _ := utf8.DecodeRuneInString(strings.TrimLeftFunc(s, unicode.IsSpace))
	_, ok := closingQuotes[r]
	return ok
}
