package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classroll/attendance-tracker/internal/application/tracker"
	"github.com/classroll/attendance-tracker/internal/domain/attendance"
	"github.com/classroll/attendance-tracker/internal/infrastructure/persistence/jsonfile"
	"github.com/classroll/attendance-tracker/pkg/timeutil"
)

var testClock = timeutil.FixedClock(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := jsonfile.NewStore(t.TempDir())
	tr, err := tracker.Open(context.Background(), store, tracker.Options{})
	require.NoError(t, err)

	return NewServer(DefaultConfig(), Dependencies{Tracker: tr, Clock: testClock, Storage: store})
}

type downStorage struct{}

func (downStorage) Ping(context.Context) error {
	return errors.New("connection refused")
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func registerAlice(t *testing.T, s *Server) {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/students",
		`{"roll_number":"001","name":"Alice","date":"2024-01-10","time":"09:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["strict_mark"])
	assert.EqualValues(t, 0, body["students"])
}

func TestHealth_StorageDown(t *testing.T) {
	tr, err := tracker.Open(context.Background(), jsonfile.NewStore(t.TempDir()),
		tracker.Options{StrictMark: true})
	require.NoError(t, err)
	s := NewServer(DefaultConfig(), Dependencies{Tracker: tr, Clock: testClock, Storage: downStorage{}})

	rec := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "unavailable", body["status"])
	assert.Equal(t, "connection refused", body["storage"])
	assert.Equal(t, true, body["strict_mark"])
}

func TestRegisterAndGet(t *testing.T) {
	s := newTestServer(t)
	registerAlice(t, s)

	rec := do(t, s, http.MethodGet, "/students/001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[studentResponse](t, rec)
	assert.Equal(t, studentResponse{RollNumber: "001", Name: "Alice", RegisteredOn: "2024-01-10 09:00"}, got)

	rec = do(t, s, http.MethodGet, "/students", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"roll_number":"001","name":"Alice"}]`, rec.Body.String())
}

func TestRegister_ErrorCodes(t *testing.T) {
	s := newTestServer(t)
	registerAlice(t, s)

	rec := do(t, s, http.MethodPost, "/students",
		`{"roll_number":"001","name":"Bob","date":"2024-01-10","time":"09:00"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_exists", decode[errorResponse](t, rec).Error)

	rec = do(t, s, http.MethodPost, "/students", `{"roll_number":"002","time":"09:00"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_input", decode[errorResponse](t, rec).Error)

	rec = do(t, s, http.MethodPost, "/students", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_DateDefaultsToToday(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/students", `{"roll_number":"002","name":"Bob","time":"10:30"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "2024-01-10 10:30", decode[studentResponse](t, rec).RegisteredOn)
}

func TestGetStudent_NotFound(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/students/404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRollNumbersWithReservedCharacters(t *testing.T) {
	tests := []struct {
		name string
		roll string
		path string
	}{
		{name: "slash", roll: "CS/001", path: "/students/CS%2F001"},
		{name: "space", roll: "A 01", path: "/students/A%2001"},
		{name: "percent", roll: "50%", path: "/students/50%25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			body, err := json.Marshal(map[string]string{
				"roll_number": tt.roll, "name": "Alice", "date": "2024-01-10", "time": "09:00",
			})
			require.NoError(t, err)
			rec := do(t, s, http.MethodPost, "/students", string(body))
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

			rec = do(t, s, http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.roll, decode[studentResponse](t, rec).RollNumber)

			rec = do(t, s, http.MethodPost, tt.path+"/attendance",
				`{"date":"2024-01-11","time":"09:05","status":"Present"}`)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			rec = do(t, s, http.MethodGet, tt.path+"/attendance", "")
			require.Equal(t, http.StatusOK, rec.Code)
			report := decode[attendanceResponse](t, rec)
			assert.Equal(t, tt.roll, report.RollNumber)
			assert.Equal(t, attendance.Summary{Present: 1, Percentage: 100}, report.Summary)

			rec = do(t, s, http.MethodGet, tt.path+"/profile", "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.roll, decode[map[string]any](t, rec)["roll_number"])

			rec = do(t, s, http.MethodGet, "/orphans", "")
			assert.JSONEq(t, `[]`, rec.Body.String())

			rec = do(t, s, http.MethodDelete, tt.path+"?confirm=true", "")
			assert.Equal(t, http.StatusNoContent, rec.Code)
		})
	}
}

func TestMarkAndReport(t *testing.T) {
	s := newTestServer(t)
	registerAlice(t, s)

	rec := do(t, s, http.MethodPost, "/students/001/attendance",
		`{"date":"2024-01-11","time":"09:05","status":"Present"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/students/001/attendance",
		`{"date":"2024-01-12","time":"09:00","status":"Absent"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, attendance.Summary{Present: 1, Absent: 1, Percentage: 50}, decode[attendance.Summary](t, rec))

	rec = do(t, s, http.MethodGet, "/students/001/attendance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[attendanceResponse](t, rec)
	require.Len(t, report.Entries, 2)
	assert.Equal(t, attendance.StatusPresent, report.Entries[0].Status)

	rec = do(t, s, http.MethodGet, "/students/001/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"roll_number":"001","name":"Alice","percentage":50}`, rec.Body.String())
}

func TestMark_InvalidInput(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/students/001/attendance", `{"date":"2024-01-11","status":"Present"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Message, "enter time")

	rec = do(t, s, http.MethodPost, "/students/001/attendance", `{"time":"09:00","status":"Late"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	s := newTestServer(t)
	registerAlice(t, s)
	do(t, s, http.MethodPost, "/students/001/attendance", `{"time":"09:05","status":"Present"}`)

	rec := do(t, s, http.MethodDelete, "/students/001", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodDelete, "/students/001?confirm=true", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodDelete, "/students/001?confirm=true", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodGet, "/students/001/attendance", "")
	report := decode[attendanceResponse](t, rec)
	assert.Empty(t, report.Entries)
	assert.Equal(t, attendance.Summary{}, report.Summary)
}

func TestOrphans(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/students/777/attendance", `{"time":"09:05","status":"Absent"}`)

	rec := do(t, s, http.MethodGet, "/orphans", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["777"]`, rec.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
