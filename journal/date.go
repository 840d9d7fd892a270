package journal

import (
	"fmt"
	"time"
)

// Date represents a calendar date in ISO 8601 format (YYYY-MM-DD). Entries
// carry a date; transactions inherit it unless a report stage overrides the
// displayed date through scratch annotations.
type Date struct {
	time.Time
}

// NewDate parses a YYYY-MM-DD date string.
func NewDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date: %s", s)
	}
	return Date{Time: t}, nil
}

// MustDate parses a YYYY-MM-DD date string and panics on error.
// Use only in tests or when you're certain the date is valid.
func MustDate(s string) Date {
	d, err := NewDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Today returns the current calendar date in UTC.
func Today() Date {
	return DateOf(time.Now().UTC())
}

// DateOf truncates a time to its calendar date in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}
