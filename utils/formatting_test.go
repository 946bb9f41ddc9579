package utils

import (
	"testing"
	"time"

	"github.com/sosodev/duration"
	"github.com/stretchr/testify/assert"
)

func TestHumanTimeDelta(t *testing.T) {
	testCases := []struct {
		name     string
		input    time.Duration
		expected string
	}{
		{name: "zero", input: 0, expected: ""},
		{name: "single unit", input: time.Hour, expected: "1 hour"},
		{name: "two units", input: 90 * time.Second, expected: "1 minute and 30 seconds"},
		{name: "sub second is dropped", input: 2*time.Second + 400*time.Millisecond, expected: "2 seconds"},
		{name: "many units", input: 8*Day + 2*time.Hour + time.Second, expected: "1 week, 1 day, 2 hours and 1 second"},
		{name: "years and weeks", input: 400 * Day, expected: "1 year and 5 weeks"},
		{name: "plural years", input: 2*Year + 3*time.Minute, expected: "2 years and 3 minutes"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, HumanTimeDelta(tc.input))
		})
	}
}

func TestAndCommaSplit(t *testing.T) {
	assert.Equal(t, "", AndCommaSplit(nil))
	assert.Equal(t, "a", AndCommaSplit([]string{"a"}))
	assert.Equal(t, "a and b", AndCommaSplit([]string{"a", "b"}))
	assert.Equal(t, "a, b and c", AndCommaSplit([]string{"a", "b", "c"}))
	assert.Equal(t, "a, b, c and d", AndCommaSplit([]string{"a", "b", "c", "d"}))
}

func TestFormatThousand(t *testing.T) {
	assert.Equal(t, "0", FormatThousand(0))
	assert.Equal(t, "999", FormatThousand(999))
	assert.Equal(t, "1,000", FormatThousand(1000))
	assert.Equal(t, "1,234,567", FormatThousand(int64(1234567)))
	assert.Equal(t, "-1,234", FormatThousand(-1234))
}

func TestHumanizeDuration(t *testing.T) {
	assert.Equal(t, "0s", HumanizeDuration(&duration.Duration{}))
	assert.Equal(t, "3d4h5m6s", HumanizeDuration(&duration.Duration{Days: 3, Hours: 4, Minutes: 5, Seconds: 6}))
	assert.Equal(t, "1y2M", HumanizeDuration(&duration.Duration{Years: 1, Months: 2}))
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;Tom &amp; &#34;Jerry&#34;&lt;/b&gt;", Escape(`<b>Tom &amp; "Jerry"</b>`))
}
