package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sosodev/duration"
	"golang.org/x/exp/constraints"
)

// Do not escape ampersands, because they are not parsed by Telegram
var htmlTelegramEscaper = strings.NewReplacer(
	`'`, "&#39;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&#34;",
)

func Escape(s string) string {
	return htmlTelegramEscaper.Replace(s)
}

func FormatThousand[T constraints.Integer](n T) string {
	in := strconv.FormatInt(int64(n), 10)
	numOfDigits := len(in)
	if n < 0 {
		numOfDigits--
	}
	numOfCommas := (numOfDigits - 1) / 3

	out := make([]byte, len(in)+numOfCommas)
	if n < 0 {
		in, out[0] = in[1:], '-'
	}

	for i, j, k := len(in)-1, len(out)-1, 0; ; i, j = i-1, j-1 {
		out[j] = in[i]
		if i == 0 {
			return string(out)
		}
		if k++; k == 3 {
			j, k = j-1, 0
			out[j] = ','
		}
	}
}

func EmbedGUID(guid string) string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString("(<code>")
	sb.WriteString(guid)
	sb.WriteString("</code>)")
	return sb.String()
}

func FullName(firstName, lastName string) string {
	var sb strings.Builder
	sb.WriteString(firstName)
	if lastName != "" {
		sb.WriteString(" ")
		sb.WriteString(lastName)
	}
	return sb.String()
}

// HumanizeDuration renders d compactly, e.g. "3d4h5m6s".
func HumanizeDuration(d *duration.Duration) string {
	var sb strings.Builder

	if d.Years > 0 {
		sb.WriteString(strconv.Itoa(int(d.Years)))
		sb.WriteString("y")
	}

	if d.Months > 0 {
		sb.WriteString(strconv.Itoa(int(d.Months)))
		sb.WriteString("M")
	}

	if d.Weeks > 0 {
		sb.WriteString(strconv.Itoa(int(d.Weeks)))
		sb.WriteString("w")
	}

	if d.Days > 0 {
		sb.WriteString(strconv.Itoa(int(d.Days)))
		sb.WriteString("d")
	}

	if d.Hours > 0 {
		sb.WriteString(strconv.Itoa(int(d.Hours)))
		sb.WriteString("h")
	}

	if d.Minutes > 0 {
		sb.WriteString(strconv.Itoa(int(d.Minutes)))
		sb.WriteString("m")
	}

	if d.Seconds >= 1 {
		sb.WriteString(strconv.Itoa(int(d.Seconds)))
		sb.WriteString("s")
	}

	if sb.Len() == 0 {
		return "0s"
	}

	return sb.String()
}

// HumanTimeDelta spells out a span as "1 year, 2 weeks and 3 days".
// Years are 365 days. Units with a zero magnitude are left out, so a zero
// span yields an empty string.
func HumanTimeDelta(d time.Duration) string {
	years, d := int64(d/Year), d%Year
	weeks, d := int64(d/Week), d%Week
	days, d := int64(d/Day), d%Day
	hours, d := int64(d/time.Hour), d%time.Hour
	minutes, d := int64(d/time.Minute), d%time.Minute
	seconds := int64(d / time.Second)

	units := []struct {
		value int64
		name  string
	}{
		{years, "year"},
		{weeks, "week"},
		{days, "day"},
		{hours, "hour"},
		{minutes, "minute"},
		{seconds, "second"},
	}

	var parts []string
	for _, unit := range units {
		if unit.value == 0 {
			continue
		}
		part := fmt.Sprintf("%d %s", unit.value, unit.name)
		if unit.value != 1 {
			part += "s"
		}
		parts = append(parts, part)
	}

	return AndCommaSplit(parts)
}

// AndCommaSplit joins parts with ", " except for the last pair, which is
// joined with " and ".
func AndCommaSplit(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		last := len(parts) - 1
		return strings.Join(parts[:last], ", ") + " and " + parts[last]
	}
}
