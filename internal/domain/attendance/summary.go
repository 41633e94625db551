package attendance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// percentPlaces is the rounding applied to the attendance percentage.
const percentPlaces = 2

// Summary is the aggregate of a student's ledger entries.
type Summary struct {
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Percentage float64 `json:"percentage"`
}

// NewSummary computes the percentage present/(present+absent)*100, rounded
// half away from zero to two decimals. An empty tally yields 0.
func NewSummary(present, absent int) Summary {
	return Summary{
		Present:    present,
		Absent:     absent,
		Percentage: percentage(present, absent).InexactFloat64(),
	}
}

// Total returns the number of counted entries.
func (s Summary) Total() int {
	return s.Present + s.Absent
}

// String renders the summary the way the tracker reports it to the operator.
func (s Summary) String() string {
	return fmt.Sprintf("Present: %d\nAbsent: %d\nAttendance: %.2f%%", s.Present, s.Absent, s.Percentage)
}

func percentage(present, absent int) decimal.Decimal {
	total := present + absent
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(present)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(percentPlaces)
}
