package attendance

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classroll/attendance-tracker/internal/domain/shared"
)

func TestLedger_MarkOverwritesSameStamp(t *testing.T) {
	l := NewLedger()
	at := shared.NewStamp("2024-01-11", "09:05")

	require.NoError(t, l.Mark("001", at, StatusPresent))
	require.NoError(t, l.Mark("001", at, StatusAbsent))

	assert.Equal(t, 1, l.Count("001"))
	status, ok := l.Status("001", at)
	assert.True(t, ok)
	assert.Equal(t, StatusAbsent, status)
}

func TestLedger_MarkRejectsUnknownStatus(t *testing.T) {
	l := NewLedger()

	err := l.Mark("001", "2024-01-11 09:05", Status("Late"))
	assert.True(t, shared.IsValidation(err))
	assert.Equal(t, 0, l.Count("001"))
}

func TestLedger_PurgeIsIdempotent(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Mark("001", "2024-01-11 09:05", StatusPresent))

	l.Purge("001")
	l.Purge("001")
	l.Purge("never-marked")

	assert.Equal(t, 0, l.Count("001"))
	assert.Empty(t, l.Rolls())
}

func TestLedger_AggregateEmpty(t *testing.T) {
	assert.Equal(t, Summary{Present: 0, Absent: 0, Percentage: 0}, NewLedger().Aggregate("001"))
}

func TestLedger_AggregateTwoThirds(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Mark("001", "2024-01-11 09:00", StatusPresent))
	require.NoError(t, l.Mark("001", "2024-01-12 09:00", StatusPresent))
	require.NoError(t, l.Mark("001", "2024-01-13 09:00", StatusAbsent))

	s := l.Aggregate("001")
	assert.Equal(t, 2, s.Present)
	assert.Equal(t, 1, s.Absent)
	assert.Equal(t, 66.67, s.Percentage)
	assert.Equal(t, "Present: 2\nAbsent: 1\nAttendance: 66.67%", s.String())
}

func TestLedger_AggregateSkipsForeignStatuses(t *testing.T) {
	l := NewLedger()
	require.NoError(t, json.Unmarshal([]byte(`{
		"001": {
			"2024-01-11 09:00": "Present",
			"2024-01-12 09:00": "Late",
			"2024-01-13 09:00": "Absent"
		}
	}`), l))

	s := l.Aggregate("001")
	assert.Equal(t, NewSummary(1, 1), s)
	assert.Equal(t, 50.0, s.Percentage)
	assert.Equal(t, 2, s.Total())
	assert.Equal(t, 3, l.Count("001"))
}

func TestLedger_EntriesSortedByStamp(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Mark("001", "2024-01-12 09:00", StatusAbsent))
	require.NoError(t, l.Mark("001", "2024-01-11 09:05", StatusPresent))

	assert.Equal(t, []Entry{
		{RollNumber: "001", At: "2024-01-11 09:05", Status: StatusPresent},
		{RollNumber: "001", At: "2024-01-12 09:00", Status: StatusAbsent},
	}, l.Entries("001"))
}

func TestLedger_JSONRoundTrip(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Mark("001", "2024-01-11 09:05", StatusPresent))
	require.NoError(t, l.Mark("002", "2024-01-11 09:05", StatusAbsent))

	data, err := json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"001": {"2024-01-11 09:05": "Present"},
		"002": {"2024-01-11 09:05": "Absent"}
	}`, string(data))

	loaded := NewLedger()
	require.NoError(t, json.Unmarshal(data, loaded))
	assert.Equal(t, l, loaded)
}

func TestSummary_Percentages(t *testing.T) {
	assert.Equal(t, 50.0, NewSummary(1, 1).Percentage)
	assert.Equal(t, 100.0, NewSummary(3, 0).Percentage)
	assert.Equal(t, 0.0, NewSummary(0, 4).Percentage)
	assert.Equal(t, 33.33, NewSummary(1, 2).Percentage)
	assert.Equal(t, 14.29, NewSummary(1, 6).Percentage)
}
