package student

import (
	"github.com/classroll/attendance-tracker/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student - зарегистрированный студент. После регистрации запись не
// меняется, её можно только удалить.
type Student struct {
	// RollNumber - ключ реестра. В значение документа не пишется: документ
	// и так индексирован по нему.
	RollNumber shared.RollNumber `json:"-"`

	// Name is the display name.
	Name string `json:"name"`

	// RegisteredOn is the "<date> <time>" registration stamp.
	RegisteredOn shared.Stamp `json:"registered_on"`
}

// NewStudentParams - сырые поля формы регистрации.
type NewStudentParams struct {
	RollNumber string
	Name       string
	Date       string
	Time       string
}

// NewStudent собирает Student. Любое пустое поле даёт ErrMissingFields.
func NewStudent(p NewStudentParams) (Student, error) {
	if p.RollNumber == "" || p.Name == "" || p.Date == "" || p.Time == "" {
		return Student{}, shared.ErrMissingFields
	}

	return Student{
		RollNumber:   shared.RollNumber(p.RollNumber),
		Name:         p.Name,
		RegisteredOn: shared.NewStamp(p.Date, p.Time),
	}, nil
}

// Summary is the (roll number, name) pair shown in selection lists.
type Summary struct {
	RollNumber shared.RollNumber `json:"roll_number"`
	Name       string            `json:"name"`
}
