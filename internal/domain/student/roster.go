package student

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/classroll/attendance-tracker/internal/domain/shared"
)

// Roster - таблица студентов в памяти, ключ - номер зачётки.
// Порядок регистрации сохраняется: в нём List отдаёт студентов и в нём же
// пишется JSON-документ.
//
// Roster не потокобезопасен.
type Roster struct {
	students *orderedmap.OrderedMap[shared.RollNumber, Student]
}

// NewRoster создаёт пустой реестр.
func NewRoster() *Roster {
	return &Roster{students: orderedmap.New[shared.RollNumber, Student]()}
}

// Len returns the number of registered students.
func (r *Roster) Len() int {
	return r.students.Len()
}

// Has проверяет, зарегистрирован ли номер.
func (r *Roster) Has(roll shared.RollNumber) bool {
	_, ok := r.students.Get(roll)
	return ok
}

// Add добавляет нового студента в конец реестра.
// Если номер уже занят, возвращает ErrStudentAlreadyExists и запись не меняет.
func (r *Roster) Add(s Student) error {
	if !s.RollNumber.IsValid() {
		return shared.ErrMissingRollNumber
	}
	if r.Has(s.RollNumber) {
		return shared.WrapError("roster", "Add", shared.ErrStudentAlreadyExists,
			fmt.Sprintf("roll number %q", s.RollNumber), nil)
	}

	r.students.Set(s.RollNumber, s)
	return nil
}

// Get возвращает студента по номеру или ErrStudentNotFound.
func (r *Roster) Get(roll shared.RollNumber) (Student, error) {
	s, ok := r.students.Get(roll)
	if !ok {
		return Student{}, notFound("Get", roll)
	}
	return s, nil
}

// Remove удаляет студента. Отметки в журнале не трогает.
func (r *Roster) Remove(roll shared.RollNumber) error {
	if _, ok := r.students.Delete(roll); !ok {
		return notFound("Remove", roll)
	}
	return nil
}

// List returns (roll number, name) pairs in registration order.
func (r *Roster) List() []Summary {
	out := make([]Summary, 0, r.students.Len())
	for pair := r.students.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Summary{RollNumber: pair.Key, Name: pair.Value.Name})
	}
	return out
}

// All returns every student in registration order.
func (r *Roster) All() []Student {
	out := make([]Student, 0, r.students.Len())
	for pair := r.students.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

func notFound(op string, roll shared.RollNumber) error {
	return shared.WrapError("roster", op, shared.ErrStudentNotFound,
		fmt.Sprintf("roll number %q", roll), nil)
}

// ══════════════════════════════════════════════════════════════════════════════
// JSON
// Документ: {"<roll>": {"name": ..., "registered_on": ...}} в порядке регистрации.
// ══════════════════════════════════════════════════════════════════════════════

// MarshalJSON пишет реестр одним объектом, ключи идут в порядке регистрации.
func (r *Roster) MarshalJSON() ([]byte, error) {
	return r.students.MarshalJSON()
}

// UnmarshalJSON заменяет содержимое реестра декодированным объектом.
// JSON null даёт пустой реестр. Повторный ключ сохраняет первую позицию и
// последнее значение.
func (r *Roster) UnmarshalJSON(data []byte) error {
	fresh := orderedmap.New[shared.RollNumber, Student]()
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		r.students = fresh
		return nil
	}

	if err := json.Unmarshal(data, fresh); err != nil {
		return fmt.Errorf("roster: %w", err)
	}
	for pair := fresh.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.RollNumber = pair.Key
	}

	r.students = fresh
	return nil
}
