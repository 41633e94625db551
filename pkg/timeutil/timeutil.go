// Package timeutil provides the date and time defaults used when the operator
// leaves the date or time of a registration or a mark empty.
// Stamps are stored verbatim, so nothing here parses operator input.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// Common date/time formats.
const (
	// FormatDate is the date part of a stamp (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatTime is the time part of a stamp (HH:MM).
	FormatTime = "15:04"
	// FormatDateTime is a whole stamp.
	FormatDateTime = "2006-01-02 15:04"
)

// Clock yields the current time in a fixed location.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock returns a Clock for loc. A nil loc means time.Local.
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{loc: loc, now: time.Now}
}

// FixedClock returns a Clock that always reports t. Used by tests.
func FixedClock(t time.Time) Clock {
	return Clock{loc: t.Location(), now: func() time.Time { return t }}
}

// Now returns the current time in the clock's location.
func (c Clock) Now() time.Time {
	now := c.now
	if now == nil {
		now = time.Now
	}
	loc := c.loc
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc)
}

// Today returns the current date as YYYY-MM-DD.
func (c Clock) Today() string {
	return c.Now().Format(FormatDate)
}

// NowTime returns the current time of day as HH:MM.
func (c Clock) NowTime() string {
	return c.Now().Format(FormatTime)
}

// DateOr returns date, or today when date is empty.
func (c Clock) DateOr(date string) string {
	if date != "" {
		return date
	}
	return c.Today()
}
