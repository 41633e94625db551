package http

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/classroll/attendance-tracker/internal/application/tracker"
	"github.com/classroll/attendance-tracker/internal/domain/attendance"
	"github.com/classroll/attendance-tracker/internal/domain/shared"
	"github.com/classroll/attendance-tracker/internal/domain/student"
	"github.com/classroll/attendance-tracker/pkg/logger"
)

// studentResponse is a roster record with its key.
type studentResponse struct {
	RollNumber   string `json:"roll_number"`
	Name         string `json:"name"`
	RegisteredOn string `json:"registered_on"`
}

func newStudentResponse(s student.Student) studentResponse {
	return studentResponse{
		RollNumber:   s.RollNumber.String(),
		Name:         s.Name,
		RegisteredOn: s.RegisteredOn.String(),
	}
}

// markRequest is the body of POST /students/:roll/attendance.
// An empty date means today.
type markRequest struct {
	Date   string            `json:"date"`
	Time   string            `json:"time"`
	Status attendance.Status `json:"status"`
}

// attendanceResponse lists a student's entries with their aggregate.
type attendanceResponse struct {
	RollNumber string             `json:"roll_number"`
	Entries    []attendance.Entry `json:"entries"`
	Summary    attendance.Summary `json:"summary"`
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(c echo.Context) error {
	s.mu.Lock()
	students := len(s.tracker.List())
	s.mu.Unlock()

	body := map[string]any{
		"status":      "ok",
		"uptime":      s.Uptime().String(),
		"students":    students,
		"strict_mark": s.tracker.StrictMark(),
	}

	if s.storage != nil {
		if err := s.storage.Ping(c.Request().Context()); err != nil {
			s.logger.Warn("storage health check failed", logger.Err(err))
			body["status"] = "unavailable"
			body["storage"] = err.Error()
			return c.JSON(http.StatusServiceUnavailable, body)
		}
	}
	return c.JSON(http.StatusOK, body)
}

// rollParam returns the decoded :roll segment. echo routes on the escaped
// path when one is present, so "CS%2F001" arrives still escaped.
func rollParam(c echo.Context) (string, error) {
	raw := c.Param("roll")
	if c.Request().URL.RawPath == "" {
		return raw, nil
	}

	roll, err := url.PathUnescape(raw)
	if err != nil {
		return "", shared.WrapError("roster", "rollParam", shared.ErrInvalidInput,
			"malformed roll number in path", err)
	}
	return roll, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListStudents(c echo.Context) error {
	return c.JSON(http.StatusOK, s.tracker.List())
}

func (s *Server) handleRegisterStudent(c echo.Context) error {
	var cmd tracker.RegisterCommand
	if err := c.Bind(&cmd); err != nil {
		return err
	}
	cmd.Date = s.clock.DateOr(cmd.Date)

	created, err := s.tracker.Register(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newStudentResponse(created))
}

func (s *Server) handleGetStudent(c echo.Context) error {
	roll, err := rollParam(c)
	if err != nil {
		return err
	}

	found, err := s.tracker.Get(roll)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newStudentResponse(found))
}

func (s *Server) handleDeleteStudent(c echo.Context) error {
	if c.QueryParam("confirm") != "true" {
		return shared.WrapError("roster", "Delete", shared.ErrInvalidInput,
			"deletion must be confirmed with confirm=true", nil)
	}

	roll, err := rollParam(c)
	if err != nil {
		return err
	}

	if err := s.tracker.Delete(c.Request().Context(), roll); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleMarkAttendance(c echo.Context) error {
	roll, err := rollParam(c)
	if err != nil {
		return err
	}

	var req markRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	cmd := tracker.MarkCommand{
		RollNumber: roll,
		Date:       s.clock.DateOr(req.Date),
		Time:       req.Time,
		Status:     req.Status,
	}
	if err := s.tracker.Mark(c.Request().Context(), cmd); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, s.tracker.Aggregate(cmd.RollNumber))
}

func (s *Server) handleGetAttendance(c echo.Context) error {
	roll, err := rollParam(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, attendanceResponse{
		RollNumber: roll,
		Entries:    s.tracker.Entries(roll),
		Summary:    s.tracker.Aggregate(roll),
	})
}

func (s *Server) handleGetProfile(c echo.Context) error {
	roll, err := rollParam(c)
	if err != nil {
		return err
	}

	profile, err := s.tracker.Profile(roll)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (s *Server) handleGetOrphans(c echo.Context) error {
	return c.JSON(http.StatusOK, s.tracker.Orphans())
}
