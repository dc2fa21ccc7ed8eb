// Package dates normalizes calendar dates to UTC midnight so that duration
// and deviation math never drifts by a day because of the host timezone.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ISOLayout is the calendar-date layout used for storage and display.
const ISOLayout = "2006-01-02"

// hoursPerDay is the day length used for all duration math.
const hoursPerDay = 24

// timestampLayouts are tried in order after the plain ISO date layout.
//
//nolint:gochecknoglobals // read-only lookup table
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// dayFirstPattern matches DD/MM/YYYY, DD-MM-YYYY and two-digit year variants.
//
//nolint:gochecknoglobals // compiled once
var dayFirstPattern = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2}|\d{4})$`)

// Parse converts an ISO calendar date or a full timestamp into the calendar
// day it names, anchored at UTC midnight. The day written in the input is
// kept even when a timestamp carries a non-UTC offset. It returns false for
// empty or unparseable input.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(ISOLayout, s); err == nil {
		return t, true
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t), true
		}
	}
	return time.Time{}, false
}

// ParseLenient behaves like Parse but also accepts day-first dates such as
// 10/05/2024, 10-05-2024 and 10/05/24 (read as 2024).
func ParseLenient(s string) (time.Time, bool) {
	if t, ok := Parse(s); ok {
		return t, true
	}
	m := dayFirstPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, false
	}
	year := m[3]
	if len(year) == 2 { //nolint:mnd // two-digit year
		year = "20" + year
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	iso := year + "-" + pad2(month) + "-" + pad2(day)
	return Parse(iso)
}

// FromTime anchors the calendar day of t, as seen in t's own location, at
// UTC midnight.
func FromTime(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Format renders t as YYYY-MM-DD using its UTC components.
func Format(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// Normalize parses s and re-formats it, returning false when s is not a date.
func Normalize(s string) (string, bool) {
	t, ok := ParseLenient(s)
	if !ok {
		return "", false
	}
	return Format(t), true
}

// Days returns the signed number of 24h days from from to to.
func Days(from, to time.Time) float64 {
	return to.Sub(from).Hours() / hoursPerDay
}

func pad2(n int) string {
	if n < 10 { //nolint:mnd // zero padding
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
