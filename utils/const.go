package utils

import "time"

const (
	Day  = 24 * time.Hour
	Week = 7 * Day

	// Year is the 365-day approximation used when rendering spans,
	// not a calendar year.
	Year = 365 * Day

	// NaiveTimeFormat renders reminder timestamps, which are stored in UTC
	// without a zone.
	NaiveTimeFormat = "2006-01-02 15:04:05"
)
