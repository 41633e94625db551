package attendance

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/classroll/attendance-tracker/internal/domain/shared"
)

// Ledger - журнал посещаемости в памяти: номер -> отметка -> статус.
//
// Номер - слабая ссылка на реестр: журнал не проверяет, что студент
// существует, и может хранить записи для неизвестных номеров.
// Ledger is not safe for concurrent use.
type Ledger struct {
	entries map[shared.RollNumber]map[shared.Stamp]Status
}

// NewLedger создаёт пустой журнал.
func NewLedger() *Ledger {
	return &Ledger{
		entries: make(map[shared.RollNumber]map[shared.Stamp]Status),
	}
}

// Mark записывает статус. Повторная отметка с тем же "<date> <time>"
// перезаписывает предыдущую.
func (l *Ledger) Mark(roll shared.RollNumber, at shared.Stamp, status Status) error {
	if !roll.IsValid() {
		return shared.WrapError("attendance", "Mark", shared.ErrMissingRollNumber, "no student selected", nil)
	}
	if !status.IsValid() {
		return shared.WrapError("attendance", "Mark", shared.ErrInvalidStatus,
			fmt.Sprintf("got %q", status), nil)
	}

	byStamp, ok := l.entries[roll]
	if !ok {
		byStamp = make(map[shared.Stamp]Status)
		l.entries[roll] = byStamp
	}
	byStamp[at] = status
	return nil
}

// Purge удаляет все записи номера. Для неизвестного номера ничего не делает.
func (l *Ledger) Purge(roll shared.RollNumber) {
	delete(l.entries, roll)
}

// Status returns the status recorded for roll at stamp.
func (l *Ledger) Status(roll shared.RollNumber, at shared.Stamp) (Status, bool) {
	s, ok := l.entries[roll][at]
	return s, ok
}

// Count returns the number of entries recorded for roll.
func (l *Ledger) Count(roll shared.RollNumber) int {
	return len(l.entries[roll])
}

// Entries returns the entries of roll sorted by stamp.
func (l *Ledger) Entries(roll shared.RollNumber) []Entry {
	byStamp := l.entries[roll]
	out := make([]Entry, 0, len(byStamp))
	for at, status := range byStamp {
		out = append(out, Entry{RollNumber: roll, At: at, Status: status})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At < out[j].At })
	return out
}

// Rolls returns every roll number that has a ledger row, sorted.
func (l *Ledger) Rolls() []shared.RollNumber {
	out := make([]shared.RollNumber, 0, len(l.entries))
	for roll := range l.entries {
		out = append(out, roll)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Aggregate считает Present и Absent по номеру. Прочие строки не учитываются.
func (l *Ledger) Aggregate(roll shared.RollNumber) Summary {
	var present, absent int
	for _, status := range l.entries[roll] {
		switch status {
		case StatusPresent:
			present++
		case StatusAbsent:
			absent++
		}
	}
	return NewSummary(present, absent)
}

// MarshalJSON writes {"<roll>": {"<date> <time>": "<status>"}}.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.entries)
}

// UnmarshalJSON replaces the ledger contents. A JSON null decodes to an
// empty ledger. Status strings are kept as found.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	var raw map[shared.RollNumber]map[shared.Stamp]Status
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		raw = make(map[shared.RollNumber]map[shared.Stamp]Status)
	}
	for roll, byStamp := range raw {
		if byStamp == nil {
			raw[roll] = make(map[shared.Stamp]Status)
		}
	}
	l.entries = raw
	return nil
}
