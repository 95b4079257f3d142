// Package timestamp reads API server timestamps and formats elapsed time.
//
// Parsing is lenient: any calendar field that cannot be read is left at
// zero instead of failing, so a malformed timestamp still produces a value.
package timestamp

import (
	"strconv"
	"strings"
	"time"
)

// Time is a timestamp decomposed into calendar fields.
type Time struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
	Offset int // seconds east of UTC
}

// FromTime decomposes t, keeping its zone offset.
func FromTime(t time.Time) Time {
	_, offset := t.Zone()
	return Time{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
		Offset: offset,
	}
}

// Instant returns the UTC instant described by t. Out-of-range fields are
// normalized the way time.Date does.
func (t Time) Instant() time.Time {
	local := time.Date(t.Year, time.Month(t.Month), t.Day, t.Hour, t.Minute, t.Second, 0, time.UTC)
	return local.Add(-time.Duration(t.Offset) * time.Second)
}

// Parse reads a timestamp such as "2024-01-01T10:04:05Z" or
// "2024-01-01T10:04:05+02:00". The input is normalized first: colons are
// dropped, the date/time separator becomes a space and the zone sign is
// split off, giving "2024-01-01 100405 +0200".
func Parse(s string) Time {
	s = strings.ReplaceAll(s, ":", "")
	s = strings.Replace(s, "T", " ", 1)
	s = strings.Replace(s, "+", " +", 1)

	var t Time
	fields := strings.Fields(s)
	if len(fields) > 0 {
		t.Year, t.Month, t.Day = parseDate(fields[0])
	}
	if len(fields) > 1 {
		var zone string
		t.Hour, t.Minute, t.Second, zone = parseClock(fields[1])
		t.Offset = parseOffset(zone)
	}
	if len(fields) > 2 {
		t.Offset = parseOffset(fields[2])
	}
	return t
}

func parseDate(s string) (year, month, day int) {
	parts := strings.SplitN(s, "-", 3)
	year = atoi(parts, 0)
	month = atoi(parts, 1)
	day = atoi(parts, 2)
	return year, month, day
}

// parseClock reads "hhmmss[.frac][Z|-hhmm]" and returns the trailing zone
// designator, if any.
func parseClock(s string) (hour, minute, second int, zone string) {
	digits := leadingDigits(s)
	hour = digitPair(digits, 0)
	minute = digitPair(digits, 2)
	second = digitPair(digits, 4)

	rest := s[len(digits):]
	if strings.HasPrefix(rest, ".") {
		rest = rest[1+len(leadingDigits(rest[1:])):]
	}
	return hour, minute, second, rest
}

// parseOffset reads "+hhmm", "-hhmm" or "Z". Anything else is UTC.
func parseOffset(s string) int {
	if len(s) < 2 {
		return 0
	}
	sign := 1
	switch s[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return 0
	}
	digits := leadingDigits(s[1:])
	return sign * (digitPair(digits, 0)*3600 + digitPair(digits, 2)*60)
}

func leadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}

func digitPair(digits string, at int) int {
	if at+2 > len(digits) {
		return 0
	}
	n, _ := strconv.Atoi(digits[at : at+2])
	return n
}

func atoi(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	n, err := strconv.Atoi(parts[i])
	if err != nil {
		return 0
	}
	return n
}
