package tracker

import (
	"context"
	"fmt"

	"github.com/classroll/attendance-tracker/internal/domain/attendance"
	"github.com/classroll/attendance-tracker/internal/domain/shared"
	"github.com/classroll/attendance-tracker/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MARK ATTENDANCE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// MarkCommand - одна отметка студента на "<date> <time>".
type MarkCommand struct {
	RollNumber string            `json:"roll_number" validate:"required"`
	Date       string            `json:"date" validate:"required"`
	Time       string            `json:"time" validate:"required"`
	Status     attendance.Status `json:"status" validate:"required,oneof=Present Absent"`
}

// Mark записывает статус и сохраняет журнал. Отметка на те же дату и время
// перезаписывается.
//
// The roll number is not checked against the roster unless StrictMark is set,
// in which case an unregistered roll number yields a NotFound error.
func (t *Tracker) Mark(ctx context.Context, cmd MarkCommand) error {
	if err := t.validateMark(cmd); err != nil {
		return err
	}

	roll := shared.RollNumber(cmd.RollNumber)
	if t.opts.StrictMark && !t.roster.Has(roll) {
		return shared.WrapError("attendance", "Mark", shared.ErrStudentNotFound,
			fmt.Sprintf("roll number %q", roll), nil)
	}

	at := shared.NewStamp(cmd.Date, cmd.Time)
	if err := t.ledger.Mark(roll, at, cmd.Status); err != nil {
		return err
	}

	if err := t.saveLedger(ctx); err != nil {
		return err
	}

	t.log.Debug("attendance marked",
		logger.RollNumber(cmd.RollNumber),
		logger.String("at", at.String()),
		logger.Status(cmd.Status.String()),
	)
	return nil
}

// validateMark maps rule failures onto the attendance errors. A missing time
// wins over a bad status, matching the order the fields are checked in.
func (t *Tracker) validateMark(cmd MarkCommand) error {
	err := t.validate.Struct(cmd)
	if err == nil {
		return nil
	}

	errs := fieldErrors(err)
	if len(errs) == 0 {
		return shared.WrapError("attendance", "Mark", shared.ErrInvalidInput, "invalid command", err)
	}

	for _, fe := range errs {
		if fe.Field == "time" {
			return shared.ErrMissingTime
		}
	}
	for _, fe := range errs {
		switch fe.Field {
		case "roll_number":
			return shared.WrapError("attendance", "Mark", shared.ErrMissingRollNumber, "no student selected", nil)
		case "status":
			return shared.WrapError("attendance", "Mark", shared.ErrInvalidStatus,
				fmt.Sprintf("got %q", cmd.Status), nil)
		}
	}
	return shared.WrapError("attendance", "Mark", shared.ErrInvalidInput, "missing: "+fieldNames(errs), nil)
}
