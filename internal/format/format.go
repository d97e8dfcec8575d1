// Package format holds the display helpers shared by the page templates.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime reads the timestamp shapes the backend emits. Values without a
// zone are taken as local time.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Date formats s as YYYY-MM-DD; unparseable input is returned as is.
func Date(s string) string {
	t, ok := ParseTime(s)
	if !ok {
		return s
	}
	return t.Local().Format("2006-01-02")
}

// DateTime formats s as YYYY-MM-DD HH:MM; unparseable input is returned as is.
func DateTime(s string) string {
	t, ok := ParseTime(s)
	if !ok {
		return s
	}
	return t.Local().Format("2006-01-02 15:04")
}

// TimeAgo renders the distance from s to now in the largest whole unit.
func TimeAgo(s string, now time.Time) string {
	t, ok := ParseTime(s)
	if !ok {
		return s
	}
	diff := now.Sub(t)
	switch {
	case diff >= 24*time.Hour:
		return fmt.Sprintf("%d일 전", int(diff/(24*time.Hour)))
	case diff >= time.Hour:
		return fmt.Sprintf("%d시간 전", int(diff/time.Hour))
	case diff >= time.Minute:
		return fmt.Sprintf("%d분 전", int(diff/time.Minute))
	default:
		return "방금 전"
	}
}

// Number formats v with a fixed number of decimals.
func Number(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// Percent is value/total as a percentage with one decimal. A zero total
// yields "0.0".
func Percent(value, total float64) string {
	if total == 0 {
		return "0.0"
	}
	return Number(value/total*100, 1)
}

// Truncate cuts s to n runes and appends "..." when it was longer.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

// Or returns s, or fallback when s is blank.
func Or(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
