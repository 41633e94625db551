package tracker

import (
	"context"

	"github.com/classroll/attendance-tracker/internal/domain/shared"
	"github.com/classroll/attendance-tracker/pkg/logger"
)

// Delete удаляет студента вместе со всеми его записями в журнале и сохраняет
// обе таблицы. Подтверждение - забота вызывающего.
//
// Returns a NotFound error when the roll number is not registered.
func (t *Tracker) Delete(ctx context.Context, roll string) error {
	id := shared.RollNumber(roll)
	if !id.IsValid() {
		return shared.WrapError("roster", "Delete", shared.ErrMissingRollNumber, "no student selected", nil)
	}

	if err := t.roster.Remove(id); err != nil {
		return err
	}
	t.ledger.Purge(id)

	if err := t.saveRoster(ctx); err != nil {
		return err
	}
	if err := t.saveLedger(ctx); err != nil {
		return err
	}

	t.log.Debug("student deleted", logger.RollNumber(roll))
	return nil
}
