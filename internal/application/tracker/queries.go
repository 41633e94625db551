package tracker

import (
	"fmt"

	"github.com/classroll/attendance-tracker/internal/domain/attendance"
	"github.com/classroll/attendance-tracker/internal/domain/shared"
	"github.com/classroll/attendance-tracker/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// QUERIES
// Read-only views over the in-memory tables. They never touch the store.
// ══════════════════════════════════════════════════════════════════════════════

// List returns (roll number, name) pairs in registration order.
func (t *Tracker) List() []student.Summary {
	return t.roster.List()
}

// Students returns every registered student in registration order.
func (t *Tracker) Students() []student.Student {
	return t.roster.All()
}

// Get returns the student registered under roll, or a NotFound error.
func (t *Tracker) Get(roll string) (student.Student, error) {
	return t.roster.Get(shared.RollNumber(roll))
}

// Aggregate tallies the ledger entries of roll. Unknown roll numbers and
// roll numbers without entries yield 0/0/0.
func (t *Tracker) Aggregate(roll string) attendance.Summary {
	return t.ledger.Aggregate(shared.RollNumber(roll))
}

// Entries returns the ledger entries of roll sorted by date and time.
func (t *Tracker) Entries(roll string) []attendance.Entry {
	return t.ledger.Entries(shared.RollNumber(roll))
}

// AllEntries returns every ledger entry, grouped by roll number.
func (t *Tracker) AllEntries() []attendance.Entry {
	var out []attendance.Entry
	for _, roll := range t.ledger.Rolls() {
		out = append(out, t.ledger.Entries(roll)...)
	}
	return out
}

// Orphans - номера, у которых есть записи в журнале, но нет записи в реестре.
func (t *Tracker) Orphans() []shared.RollNumber {
	out := make([]shared.RollNumber, 0)
	for _, roll := range t.ledger.Rolls() {
		if !t.roster.Has(roll) {
			out = append(out, roll)
		}
	}
	return out
}

// Profile - карточка студента: имя, номер и процент посещаемости.
type Profile struct {
	RollNumber shared.RollNumber `json:"roll_number"`
	Name       string            `json:"name"`
	Percentage float64           `json:"percentage"`
}

// String renders the profile the way the tracker shows it to the operator.
func (p Profile) String() string {
	return fmt.Sprintf("Name: %s\nRoll No: %s\nAttendance: %.2f%%", p.Name, p.RollNumber, p.Percentage)
}

// Profile returns the card of roll. An empty roll number is an InvalidInput
// error; an unregistered one is a NotFound error.
func (t *Tracker) Profile(roll string) (Profile, error) {
	id := shared.RollNumber(roll)
	if !id.IsValid() {
		return Profile{}, shared.WrapError("roster", "Profile", shared.ErrMissingRollNumber, "enter roll number", nil)
	}

	s, err := t.roster.Get(id)
	if err != nil {
		return Profile{}, err
	}

	return Profile{
		RollNumber: s.RollNumber,
		Name:       s.Name,
		Percentage: t.ledger.Aggregate(id).Percentage,
	}, nil
}
