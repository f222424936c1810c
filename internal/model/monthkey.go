package model

import (
	"strings"
	"time"
)

// MonthKeyLayout is the time layout of a month key, e.g. "April-2025".
const MonthKeyLayout = "January-2006"

// DeriveMonthKey formats t as a month key. It only depends on t, so callers
// pick the clock and time zone.
func DeriveMonthKey(t time.Time) string {
	return t.Format(MonthKeyLayout)
}

// ParseMonthKey parses a key produced by DeriveMonthKey. The result is the
// first instant of that month in UTC.
func ParseMonthKey(key string) (time.Time, error) {
	return time.Parse(MonthKeyLayout, key)
}

// DisplayMonth turns "April-2025" into "April 2025".
func DisplayMonth(key string) string {
	return strings.Replace(key, "-", " ", 1)
}
