package tracker

import (
	"context"

	"github.com/classroll/attendance-tracker/internal/domain/shared"
	"github.com/classroll/attendance-tracker/internal/domain/student"
	"github.com/classroll/attendance-tracker/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER STUDENT COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// RegisterCommand - поля нового студента. Все обязательны.
type RegisterCommand struct {
	RollNumber string `json:"roll_number" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Date       string `json:"date" validate:"required"`
	Time       string `json:"time" validate:"required"`
}

// Register добавляет студента и сохраняет реестр.
//
// Returns an InvalidInput error when a field is empty and an AlreadyExists
// error when the roll number is taken. In both cases the roster is unchanged.
func (t *Tracker) Register(ctx context.Context, cmd RegisterCommand) (student.Student, error) {
	if err := t.validate.Struct(cmd); err != nil {
		if errs := fieldErrors(err); len(errs) > 0 {
			return student.Student{}, shared.WrapError("roster", "Register", shared.ErrMissingFields,
				"missing: "+fieldNames(errs), nil)
		}
		return student.Student{}, shared.WrapError("roster", "Register", shared.ErrInvalidInput,
			"invalid command", err)
	}

	s, err := student.NewStudent(student.NewStudentParams{
		RollNumber: cmd.RollNumber,
		Name:       cmd.Name,
		Date:       cmd.Date,
		Time:       cmd.Time,
	})
	if err != nil {
		return student.Student{}, err
	}

	if err := t.roster.Add(s); err != nil {
		return student.Student{}, err
	}

	if err := t.saveRoster(ctx); err != nil {
		return s, err
	}

	t.log.Debug("student registered", logger.RollNumber(s.RollNumber.String()))
	return s, nil
}
