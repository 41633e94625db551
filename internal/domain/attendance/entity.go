// Package attendance содержит журнал посещаемости: статусы студентов по
// отметкам времени "<date> <time>" и агрегат по ним.
package attendance

import (
	"github.com/classroll/attendance-tracker/internal/domain/shared"
)

// Status - записанный статус посещения.
//
// В сохранённом журнале тут может оказаться любая строка: файлы правят
// руками. Mark accepts only Present and Absent, and only they are counted.
type Status string

const (
	// StatusPresent - the student attended.
	StatusPresent Status = "Present"
	// StatusAbsent - the student did not attend.
	StatusAbsent Status = "Absent"
)

// IsValid - true только для Present и Absent.
func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Status) String() string {
	return string(s)
}

// Entry - одна запись журнала.
type Entry struct {
	RollNumber shared.RollNumber `json:"roll_number"`
	At         shared.Stamp      `json:"at"`
	Status     Status            `json:"status"`
}
