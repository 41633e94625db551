// Package shared contains common domain types, errors and value objects
// that are used across all domain packages.
package shared

import (
	"context"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// RollNumber is the student identifier. It is the primary key of the roster
// and the join key of the attendance ledger.
type RollNumber string

// IsValid checks that the roll number is not empty.
func (r RollNumber) IsValid() bool {
	return r != ""
}

// String returns the string representation.
func (r RollNumber) String() string {
	return string(r)
}

// ═══════════════════════════════════════════════════════════════════════════
// Time Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// Stamp is a "<date> <time>" string as typed by the operator. It is stored
// verbatim and never parsed, so any date/time layout round-trips unchanged.
type Stamp string

// NewStamp joins a date and a time of day with a single space.
func NewStamp(date, clock string) Stamp {
	return Stamp(date + " " + clock)
}

// Date returns the part before the last space. Dates typed with spaces,
// such as "10 Jan 2024", stay whole; a time of day never contains one.
func (s Stamp) Date() string {
	i := strings.LastIndex(string(s), " ")
	if i < 0 {
		return string(s)
	}
	return string(s[:i])
}

// Clock returns the part after the last space, or "" when there is none.
func (s Stamp) Clock() string {
	i := strings.LastIndex(string(s), " ")
	if i < 0 {
		return ""
	}
	return string(s[i+1:])
}

// String returns the string representation.
func (s Stamp) String() string {
	return string(s)
}

// ═══════════════════════════════════════════════════════════════════════════
// Persistence contract
// ═══════════════════════════════════════════════════════════════════════════

// DocumentStore loads and saves whole tables as single documents.
//
// Load leaves dst untouched when the named document does not exist, so the
// caller passes a freshly constructed empty table as the default. Content that
// cannot be decoded is reported with ErrInvalidFormat. Save replaces the whole
// document in one operation and reports failures with ErrStorage.
type DocumentStore interface {
	Load(ctx context.Context, name string, dst any) error
	Save(ctx context.Context, name string, src any) error
}
