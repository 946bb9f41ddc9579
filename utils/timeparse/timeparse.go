// Package timeparse turns short English time expressions such as
// "tomorrow", "3 hours 20m", "friday" or "july 4" into absolute times.
//
// An expression uses exactly one of four grammars. Text is split into runs
// of letters and digits, every run is classified, and the first classified
// token selects the grammar. A later token of a different grammar is an
// error instead of being merged or ignored.
package timeparse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const day = 24 * time.Hour

// Limits for calendar arithmetic, far beyond anything a reminder needs.
const (
	maxYears  = 10_000
	maxMonths = maxYears * 12
)

type Kind int

const (
	Unmatched Kind = iota
	Keyword
	NumericDelta
	Weekday
	MonthDay
)

func (k Kind) String() string {
	switch k {
	case Keyword:
		return "'tomorrow'"
	case NumericDelta:
		return "delta times"
	case Weekday:
		return "weekdays"
	case MonthDay:
		return "month dates"
	default:
		return "nothing"
	}
}

type Unit int

const (
	Year Unit = iota
	Month
	Week
	Day
	Hour
	Minute
	Second
)

func (u Unit) String() string {
	switch u {
	case Year:
		return "year"
	case Month:
		return "month"
	case Week:
		return "week"
	case Day:
		return "day"
	case Hour:
		return "hour"
	case Minute:
		return "minute"
	default:
		return "second"
	}
}

func (u Unit) duration() time.Duration {
	switch u {
	case Week:
		return 7 * day
	case Day:
		return day
	case Hour:
		return time.Hour
	case Minute:
		return time.Minute
	case Second:
		return time.Second
	default:
		return 0
	}
}

// Single letter "M" means months and "m" minutes, every other spelling is
// matched case-insensitively.
var unitNames = map[string]Unit{
	"y":       Year,
	"yr":      Year,
	"yrs":     Year,
	"year":    Year,
	"years":   Year,
	"month":   Month,
	"months":  Month,
	"w":       Week,
	"wk":      Week,
	"wks":     Week,
	"week":    Week,
	"weeks":   Week,
	"d":       Day,
	"day":     Day,
	"days":    Day,
	"h":       Hour,
	"hr":      Hour,
	"hrs":     Hour,
	"hour":    Hour,
	"hours":   Hour,
	"min":     Minute,
	"mins":    Minute,
	"minute":  Minute,
	"minutes": Minute,
	"s":       Second,
	"sec":     Second,
	"secs":    Second,
	"second":  Second,
	"seconds": Second,
}

var monthNames = map[string]time.Month{
	"jan":       time.January,
	"january":   time.January,
	"feb":       time.February,
	"february":  time.February,
	"mar":       time.March,
	"march":     time.March,
	"apr":       time.April,
	"april":     time.April,
	"may":       time.May,
	"jun":       time.June,
	"june":      time.June,
	"jul":       time.July,
	"july":      time.July,
	"aug":       time.August,
	"august":    time.August,
	"sep":       time.September,
	"sept":      time.September,
	"september": time.September,
	"oct":       time.October,
	"october":   time.October,
	"nov":       time.November,
	"november":  time.November,
	"dec":       time.December,
	"december":  time.December,
}

var weekdayNames = []struct {
	name    string
	weekday time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

// ParseError is returned for every expression that cannot be turned into
// a time. Its message is meant to be shown to the user as is.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return e.Msg
}

func errorf(format string, args ...any) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

type Delta struct {
	Value int
	Unit  Unit
}

func (d Delta) apply(t time.Time) (time.Time, error) {
	switch d.Unit {
	case Year:
		if d.Value > maxYears {
			return time.Time{}, errorf("%d years is too far away", d.Value)
		}
		return withYearMonth(t, t.Year()+d.Value, t.Month())
	case Month:
		if d.Value > maxMonths {
			return time.Time{}, errorf("%d months is too far away", d.Value)
		}
		month0 := int(t.Month()-1) + d.Value
		return withYearMonth(t, t.Year()+month0/12, time.Month(month0%12+1))
	default:
		step := d.Unit.duration()
		if int64(d.Value) > math.MaxInt64/int64(step) {
			return time.Time{}, errorf("%d %ss is too far away", d.Value, d.Unit)
		}
		return t.Add(time.Duration(d.Value) * step), nil
	}
}

// withYearMonth moves t to another year and month, keeping the day and the
// time of day. A day that does not exist in the target month is an error.
func withYearMonth(t time.Time, year int, month time.Month) (time.Time, error) {
	moved := time.Date(year, month, t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if moved.Day() != t.Day() {
		return time.Time{}, errorf("%s %d, %d is not a valid date", month, t.Day(), year)
	}
	return moved, nil
}

// Expression is a parsed time expression. Only the fields belonging to Kind
// are set.
type Expression struct {
	Kind    Kind
	Deltas  []Delta
	Weekday time.Weekday
	Month   time.Month
	Day     int
}

// Apply resolves the expression relative to base.
func (e Expression) Apply(base time.Time) (time.Time, error) {
	switch e.Kind {
	case Keyword:
		return base.Add(day), nil

	case NumericDelta:
		t := base
		for _, delta := range e.Deltas {
			var err error
			t, err = delta.apply(t)
			if err != nil {
				return time.Time{}, err
			}
		}
		return t, nil

	case Weekday:
		// Naming today's weekday yields today.
		ahead := (int(e.Weekday) - int(base.Weekday()) + 7) % 7
		return base.AddDate(0, 0, ahead), nil

	case MonthDay:
		year := base.Year()
		if e.Month < base.Month() || (e.Month == base.Month() && e.Day < base.Day()) {
			year++
		}
		target := time.Date(year, e.Month, e.Day, 0, 0, 0, 0, base.Location())
		if e.Day < 1 || target.Month() != e.Month || target.Day() != e.Day {
			return time.Time{}, errorf("%s has no day %d in %d", e.Month, e.Day, year)
		}
		return target, nil

	default:
		return time.Time{}, errorf("could not parse time expression")
	}
}

func (e *Expression) accept(tok token) error {
	if e.Kind != Unmatched && e.Kind != tok.kind {
		first, second := e.Kind, tok.kind
		if second < first {
			first, second = second, first
		}
		return errorf("cannot mix %s and %s", first, second)
	}

	switch tok.kind {
	case NumericDelta:
		e.Deltas = append(e.Deltas, tok.delta)
	case Weekday:
		if e.Kind == Weekday {
			return errorf("cannot name more than one weekday")
		}
		e.Weekday = tok.weekday
	case MonthDay:
		if e.Kind == MonthDay {
			return errorf("cannot have more than one date")
		}
		e.Month, e.Day = tok.month, tok.day
	}

	e.Kind = tok.kind
	return nil
}

// Parse classifies text without resolving it against a point in time.
func Parse(text string) (Expression, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return Expression{}, err
	}

	var expr Expression
	for _, tok := range tokens {
		if err := expr.accept(tok); err != nil {
			return Expression{}, err
		}
	}

	if expr.Kind == Unmatched {
		return Expression{}, errorf("could not parse time expression")
	}

	return expr, nil
}

// Recognise parses text and resolves it relative to base.
func Recognise(base time.Time, text string) (time.Time, error) {
	expr, err := Parse(text)
	if err != nil {
		return time.Time{}, err
	}
	return expr.Apply(base)
}

type token struct {
	kind    Kind
	delta   Delta
	weekday time.Weekday
	month   time.Month
	day     int
}

type runKind int

const (
	letters runKind = iota
	digits
	symbol
)

type run struct {
	kind runKind
	text string
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func scanWhile(text string, start int, pred func(rune) bool) int {
	end := start
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if !pred(r) {
			break
		}
		end += size
	}
	return end
}

// splitRuns cuts text into letter runs, digit runs and single symbols.
// Whitespace only separates runs.
func splitRuns(text string) []run {
	var runs []run
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case isDigit(r):
			end := scanWhile(text, i, isDigit)
			runs = append(runs, run{kind: digits, text: text[i:end]})
			i = end
		case unicode.IsLetter(r):
			end := scanWhile(text, i, unicode.IsLetter)
			runs = append(runs, run{kind: letters, text: text[i:end]})
			i = end
		default:
			runs = append(runs, run{kind: symbol, text: text[i : i+size]})
			i += size
		}
	}
	return runs
}

func lookupUnit(word string) (Unit, bool) {
	switch word {
	case "M":
		return Month, true
	case "m":
		return Minute, true
	}
	unit, ok := unitNames[strings.ToLower(word)]
	return unit, ok
}

func findWeekday(word string) (time.Weekday, bool) {
	for _, wd := range weekdayNames {
		if strings.Contains(word, wd.name) {
			return wd.weekday, true
		}
	}
	return 0, false
}

func tokenize(text string) ([]token, error) {
	runs := splitRuns(text)
	var tokens []token

	for i := 0; i < len(runs); i++ {
		current := runs[i]
		hasNext := i+1 < len(runs)

		switch current.kind {
		case letters:
			lower := strings.ToLower(current.text)

			if strings.Contains(lower, "tomorrow") {
				tokens = append(tokens, token{kind: Keyword})
				continue
			}

			if weekday, ok := findWeekday(lower); ok {
				tokens = append(tokens, token{kind: Weekday, weekday: weekday})
				continue
			}

			month, ok := monthNames[lower]
			if ok && hasNext && runs[i+1].kind == digits {
				dayOfMonth, err := strconv.Atoi(runs[i+1].text)
				if err != nil {
					return nil, errorf("%q is not a day of the month", runs[i+1].text)
				}
				tokens = append(tokens, token{kind: MonthDay, month: month, day: dayOfMonth})
				i++
			}

		case digits:
			if !hasNext || runs[i+1].kind != letters {
				continue
			}
			unit, ok := lookupUnit(runs[i+1].text)
			if !ok {
				continue
			}
			value, err := strconv.Atoi(current.text)
			if err != nil {
				return nil, errorf("%q is not a usable number", current.text)
			}
			tokens = append(tokens, token{kind: NumericDelta, delta: Delta{Value: value, Unit: unit}})
			i++
		}
	}

	return tokens, nil
}
