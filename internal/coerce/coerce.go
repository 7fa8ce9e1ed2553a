// Package coerce parses numbers and dates out of spreadsheet-shaped text.
// Reference data arrives as strings with locale separators, blanks, and the
// occasional garbage cell; every function here degrades to a caller-supplied
// default instead of returning an error.
package coerce

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Int parses text as a decimal number and truncates toward zero.
// Thousands separators are stripped first. Returns def on blank or
// unparseable input.
func Int(s string, def int) int {
	d, ok := parseDecimal(s)
	if !ok {
		return def
	}
	return int(d.IntPart())
}

// Float parses text as a floating value. Returns def on blank or
// unparseable input.
func Float(s string, def float64) float64 {
	d, ok := parseDecimal(s)
	if !ok {
		return def
	}
	f, _ := d.Float64()
	return f
}

// Decimal parses text as an exact decimal quantity. Returns def on blank or
// unparseable input.
func Decimal(s string, def decimal.Decimal) decimal.Decimal {
	d, ok := parseDecimal(s)
	if !ok {
		return def
	}
	return d
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"2006-01",
}

// Date parses free-form date text. The boolean reports whether a date was
// recognized; callers must treat a missing date as "no date", never as an
// error. Year-month values ("2026-03") resolve to the first of the month.
func Date(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(24 * time.Hour), true
		}
	}
	// Bare year-month like "2026/3".
	if parts := strings.Split(s, "/"); len(parts) == 2 {
		y, errY := strconv.Atoi(strings.TrimSpace(parts[0]))
		m, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errY == nil && errM == nil && y >= 1000 && m >= 1 && m <= 12 {
			return time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
