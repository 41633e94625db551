package student

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classroll/attendance-tracker/internal/domain/shared"
)

func mustStudent(t *testing.T, roll, name string) Student {
	t.Helper()
	st, err := NewStudent(NewStudentParams{
		RollNumber: roll,
		Name:       name,
		Date:       "2024-01-10",
		Time:       "09:00",
	})
	require.NoError(t, err)
	return st
}

func TestNewStudent_ComposesRegistrationStamp(t *testing.T) {
	st := mustStudent(t, "001", "Alice")

	assert.Equal(t, shared.RollNumber("001"), st.RollNumber)
	assert.Equal(t, "Alice", st.Name)
	assert.Equal(t, shared.Stamp("2024-01-10 09:00"), st.RegisteredOn)
}

func TestNewStudent_RejectsEmptyFields(t *testing.T) {
	cases := map[string]NewStudentParams{
		"roll": {Name: "Alice", Date: "2024-01-10", Time: "09:00"},
		"name": {RollNumber: "001", Date: "2024-01-10", Time: "09:00"},
		"date": {RollNumber: "001", Name: "Alice", Time: "09:00"},
		"time": {RollNumber: "001", Name: "Alice", Date: "2024-01-10"},
	}

	for field, params := range cases {
		_, err := NewStudent(params)
		assert.ErrorIs(t, err, shared.ErrInvalidInput, "empty %s", field)
	}
}

func TestRoster_AddGetList(t *testing.T) {
	r := NewRoster()
	require.NoError(t, r.Add(mustStudent(t, "002", "Bob")))
	require.NoError(t, r.Add(mustStudent(t, "001", "Alice")))

	got, err := r.Get("001")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	// registration order, not sorted
	assert.Equal(t, []Summary{
		{RollNumber: "002", Name: "Bob"},
		{RollNumber: "001", Name: "Alice"},
	}, r.List())
	assert.Equal(t, 2, r.Len())
}

func TestRoster_AddDuplicateKeepsOriginal(t *testing.T) {
	r := NewRoster()
	require.NoError(t, r.Add(mustStudent(t, "001", "Alice")))

	err := r.Add(mustStudent(t, "001", "Mallory"))
	assert.True(t, shared.IsAlreadyExists(err))
	assert.ErrorIs(t, err, shared.ErrStudentAlreadyExists)

	got, err := r.Get("001")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Len(t, r.List(), 1)
}

func TestRoster_GetUnknown(t *testing.T) {
	_, err := NewRoster().Get("404")
	assert.True(t, shared.IsNotFound(err))
}

func TestRoster_Remove(t *testing.T) {
	r := NewRoster()
	require.NoError(t, r.Add(mustStudent(t, "001", "Alice")))
	require.NoError(t, r.Add(mustStudent(t, "002", "Bob")))
	require.NoError(t, r.Add(mustStudent(t, "003", "Carol")))

	require.NoError(t, r.Remove("002"))
	assert.False(t, r.Has("002"))
	assert.Equal(t, []Summary{
		{RollNumber: "001", Name: "Alice"},
		{RollNumber: "003", Name: "Carol"},
	}, r.List())

	err := r.Remove("002")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRoster_JSONKeepsRegistrationOrder(t *testing.T) {
	r := NewRoster()
	require.NoError(t, r.Add(mustStudent(t, "b", "Bob")))
	require.NoError(t, r.Add(mustStudent(t, "a", "Alice")))

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"b": {"name": "Bob", "registered_on": "2024-01-10 09:00"},
		"a": {"name": "Alice", "registered_on": "2024-01-10 09:00"}
	}`, string(data))
	assert.Less(t, strings.Index(string(data), `"b"`), strings.Index(string(data), `"a"`))

	loaded := NewRoster()
	require.NoError(t, json.Unmarshal(data, loaded))
	assert.Equal(t, r.List(), loaded.List())
	assert.Equal(t, r.All(), loaded.All())
}

func TestRoster_UnmarshalRepeatedKeyKeepsFirstPosition(t *testing.T) {
	r := NewRoster()
	require.NoError(t, json.Unmarshal([]byte(`{
		"001": {"name": "Alice", "registered_on": "2024-01-10 09:00"},
		"002": {"name": "Bob", "registered_on": "2024-01-10 09:00"},
		"001": {"name": "Alicia", "registered_on": "2024-01-11 10:00"}
	}`), r))

	assert.Equal(t, []Summary{
		{RollNumber: "001", Name: "Alicia"},
		{RollNumber: "002", Name: "Bob"},
	}, r.List())

	got, err := r.Get("001")
	require.NoError(t, err)
	assert.Equal(t, shared.RollNumber("001"), got.RollNumber)
	assert.Equal(t, shared.Stamp("2024-01-11 10:00"), got.RegisteredOn)
}

func TestRoster_RemoveThenAddMovesToEnd(t *testing.T) {
	r := NewRoster()
	for _, roll := range []string{"001", "002", "003"} {
		require.NoError(t, r.Add(mustStudent(t, roll, "Student "+roll)))
	}
	require.NoError(t, r.Remove("001"))
	require.NoError(t, r.Add(mustStudent(t, "001", "Again")))

	var rolls []shared.RollNumber
	for _, s := range r.List() {
		rolls = append(rolls, s.RollNumber)
	}
	assert.Equal(t, []shared.RollNumber{"002", "003", "001"}, rolls)
}

func TestRoster_UnmarshalNullAndGarbage(t *testing.T) {
	r := NewRoster()
	require.NoError(t, json.Unmarshal([]byte(`null`), r))
	assert.Equal(t, 0, r.Len())

	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), NewRoster()))
	assert.Error(t, json.Unmarshal([]byte(`{"001": "Alice"}`), NewRoster()))
}
