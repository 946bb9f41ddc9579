package timeparse

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Thursday
var base = time.Date(2023, time.June, 15, 12, 0, 0, 0, time.UTC)

func date(year int, month time.Month, day, hour, minute, second int) time.Time {
	return time.Date(year, month, day, hour, minute, second, 0, time.UTC)
}

func TestRecognise(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{name: "tomorrow", input: "tomorrow", expected: date(2023, time.June, 16, 12, 0, 0)},
		{name: "tomorrow inside a word", input: "Tomorrow's meeting", expected: date(2023, time.June, 16, 12, 0, 0)},
		{name: "hours and minutes", input: "3 hours 20m", expected: date(2023, time.June, 15, 15, 20, 0)},
		{name: "compact deltas", input: "3h20m", expected: date(2023, time.June, 15, 15, 20, 0)},
		{name: "days", input: "2 days", expected: date(2023, time.June, 17, 12, 0, 0)},
		{name: "week", input: "1 week", expected: date(2023, time.June, 22, 12, 0, 0)},
		{name: "seconds", input: "90s", expected: date(2023, time.June, 15, 12, 1, 30)},
		{name: "upper M is a month", input: "1M", expected: date(2023, time.July, 15, 12, 0, 0)},
		{name: "lower m is a minute", input: "10m", expected: date(2023, time.June, 15, 12, 10, 0)},
		{name: "spelled month any case", input: "2 MONTHS", expected: date(2023, time.August, 15, 12, 0, 0)},
		{name: "abbreviated minutes", input: "5 Mins", expected: date(2023, time.June, 15, 12, 5, 0)},
		{name: "month carry", input: "7 months", expected: date(2024, time.January, 15, 12, 0, 0)},
		{name: "year", input: "1y", expected: date(2024, time.June, 15, 12, 0, 0)},
		{name: "deltas apply left to right", input: "1 year 2 months 3 days", expected: date(2024, time.August, 18, 12, 0, 0)},
		{name: "weekday later this week", input: "friday", expected: date(2023, time.June, 16, 12, 0, 0)},
		{name: "weekday next week", input: "on Monday please", expected: date(2023, time.June, 19, 12, 0, 0)},
		{name: "weekday before today wraps", input: "wednesday", expected: date(2023, time.June, 21, 12, 0, 0)},
		{name: "same weekday is today", input: "thursday", expected: base},
		{name: "weekday substring", input: "SUNDAYS", expected: date(2023, time.June, 18, 12, 0, 0)},
		{name: "number before a weekday", input: "5 sunday", expected: date(2023, time.June, 18, 12, 0, 0)},
		{name: "month day later this year", input: "july 4", expected: date(2023, time.July, 4, 0, 0, 0)},
		{name: "month day without space", input: "dec25", expected: date(2023, time.December, 25, 0, 0, 0)},
		{name: "month day today", input: "June 15", expected: date(2023, time.June, 15, 0, 0, 0)},
		{name: "month day passed this month", input: "june 14", expected: date(2024, time.June, 14, 0, 0, 0)},
		{name: "month day earlier month", input: "jan 1", expected: date(2024, time.January, 1, 0, 0, 0)},
		{name: "sept spelling", input: "sept 3", expected: date(2023, time.September, 3, 0, 0, 0)},
		{name: "leap day next year", input: "feb 29", expected: date(2024, time.February, 29, 0, 0, 0)},
		{name: "ordinal suffix", input: "august 1st", expected: date(2023, time.August, 1, 0, 0, 0)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Recognise(base, tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestRecogniseErrors(t *testing.T) {
	testCases := []struct {
		name    string
		base    time.Time
		input   string
		message string
	}{
		{name: "empty", base: base, input: "", message: "could not parse time expression"},
		{name: "nothing recognisable", base: base, input: "whenever you like", message: "could not parse time expression"},
		{name: "unknown unit", base: base, input: "5 pm", message: "could not parse time expression"},
		{name: "keyword and delta", base: base, input: "tomorrow 3 hours", message: "cannot mix 'tomorrow' and delta times"},
		{name: "delta and keyword", base: base, input: "3 hours tomorrow", message: "cannot mix 'tomorrow' and delta times"},
		{name: "weekday and month date", base: base, input: "july 4 friday", message: "cannot mix weekdays and month dates"},
		{name: "delta and weekday", base: base, input: "friday 2h", message: "cannot mix delta times and weekdays"},
		{name: "two weekdays", base: base, input: "monday or friday", message: "cannot name more than one weekday"},
		{name: "two dates", base: base, input: "jan 1 feb 2", message: "cannot have more than one date"},
		{name: "day not in month", base: base, input: "feb 30", message: "February has no day 30 in 2024"},
		{name: "day zero", base: base, input: "mar 0", message: "March has no day 0 in 2024"},
		{name: "leap day in common year", base: date(2024, time.June, 15, 12, 0, 0), input: "feb 29", message: "February has no day 29 in 2025"},
		{name: "month lands on missing day", base: date(2023, time.January, 31, 9, 0, 0), input: "1M", message: "February 31, 2023 is not a valid date"},
		{name: "year lands on missing leap day", base: date(2024, time.February, 29, 9, 0, 0), input: "1 year", message: "February 29, 2025 is not a valid date"},
		{name: "number too large for int", base: base, input: "99999999999999999999 days", message: `"99999999999999999999" is not a usable number`},
		{name: "duration overflow", base: base, input: "300000 weeks", message: "300000 weeks is too far away"},
		{name: "too many years", base: base, input: "20000 years", message: "20000 years is too far away"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Recognise(tc.base, tc.input)
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tc.message, parseErr.Msg)
		})
	}
}

func TestRecogniseMonthCarryOnLongMonth(t *testing.T) {
	got, err := Recognise(date(2023, time.January, 31, 9, 0, 0), "2M")
	require.NoError(t, err)
	assert.Equal(t, date(2023, time.March, 31, 9, 0, 0), got)

	got, err = Recognise(date(2023, time.November, 15, 9, 0, 0), "3 months")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.February, 15, 9, 0, 0), got)
}

func TestParse(t *testing.T) {
	expr, err := Parse("1 year 2M 3w")
	require.NoError(t, err)
	assert.Equal(t, NumericDelta, expr.Kind)
	assert.Equal(t, []Delta{{1, Year}, {2, Month}, {3, Week}}, expr.Deltas)

	expr, err = Parse("see you Saturday")
	require.NoError(t, err)
	assert.Equal(t, Weekday, expr.Kind)
	assert.Equal(t, time.Saturday, expr.Weekday)

	expr, err = Parse("November 11")
	require.NoError(t, err)
	assert.Equal(t, MonthDay, expr.Kind)
	assert.Equal(t, time.November, expr.Month)
	assert.Equal(t, 11, expr.Day)

	expr, err = Parse("tomorrow tomorrow")
	require.NoError(t, err)
	assert.Equal(t, Keyword, expr.Kind)
}

func TestResultNotBeforeBase(t *testing.T) {
	inputs := []string{"tomorrow", "0 seconds", "1m", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	for _, input := range inputs {
		got, err := Recognise(base, input)
		require.NoError(t, err, input)
		assert.False(t, got.Before(base), input)
	}
}

func TestWeekdayKeepsTimeOfDay(t *testing.T) {
	evening := date(2023, time.June, 15, 21, 45, 10)
	got, err := Recognise(evening, "saturday")
	require.NoError(t, err)
	assert.Equal(t, date(2023, time.June, 17, 21, 45, 10), got)
}
