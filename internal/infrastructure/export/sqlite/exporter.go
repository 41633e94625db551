// Package sqlite writes a relational snapshot of the roster and the ledger
// to a SQLite database, for ad hoc SQL reporting. The JSON documents stay the
// source of truth; every export replaces the previous snapshot.
package sqlite

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/classroll/attendance-tracker/internal/domain/attendance"
	"github.com/classroll/attendance-tracker/internal/domain/shared"
	"github.com/classroll/attendance-tracker/internal/domain/student"
)

// batchSize bounds the rows per INSERT statement.
const batchSize = 200

// StudentRow is one roster record. Position keeps registration order.
type StudentRow struct {
	RollNumber   string `gorm:"primaryKey"`
	Position     int    `gorm:"not null;index"`
	Name         string `gorm:"not null"`
	RegisteredOn string `gorm:"not null"`
}

// TableName overrides the table name used by gorm.
func (StudentRow) TableName() string { return "students" }

// AttendanceRow is one ledger entry. RollNumber is not a foreign key because
// the ledger may reference students that are no longer registered.
type AttendanceRow struct {
	ID         uint   `gorm:"primaryKey"`
	RollNumber string `gorm:"not null;uniqueIndex:idx_attendance_roll_at"`
	At         string `gorm:"not null;uniqueIndex:idx_attendance_roll_at"`
	Date       string `gorm:"not null;index"`
	Time       string `gorm:"not null"`
	Status     string `gorm:"not null"`
}

// TableName overrides the table name used by gorm.
func (AttendanceRow) TableName() string { return "attendance" }

// Stats reports what an export wrote.
type Stats struct {
	Students int `json:"students"`
	Entries  int `json:"entries"`
}

// Open opens (or creates) the SQLite database at path and migrates it.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := db.AutoMigrate(&StudentRow{}, &AttendanceRow{}); err != nil {
		_ = Close(db)
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return db, nil
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Export replaces the snapshot at path with students and entries in one
// transaction. A failed export leaves the previous snapshot in place.
func Export(ctx context.Context, path string, students []student.Student, entries []attendance.Entry) (Stats, error) {
	db, err := Open(path)
	if err != nil {
		return Stats{}, shared.WrapError("export", "Export", shared.ErrStorage, "cannot open snapshot", err)
	}
	defer Close(db)

	studentRows := make([]StudentRow, 0, len(students))
	for i, s := range students {
		studentRows = append(studentRows, StudentRow{
			RollNumber:   s.RollNumber.String(),
			Position:     i,
			Name:         s.Name,
			RegisteredOn: s.RegisteredOn.String(),
		})
	}

	entryRows := make([]AttendanceRow, 0, len(entries))
	for _, e := range entries {
		entryRows = append(entryRows, AttendanceRow{
			RollNumber: e.RollNumber.String(),
			At:         e.At.String(),
			Date:       e.At.Date(),
			Time:       e.At.Clock(),
			Status:     e.Status.String(),
		})
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&AttendanceRow{}).Error; err != nil {
			return err
		}
		if err := all.Delete(&StudentRow{}).Error; err != nil {
			return err
		}
		if len(studentRows) > 0 {
			if err := tx.CreateInBatches(studentRows, batchSize).Error; err != nil {
				return err
			}
		}
		if len(entryRows) > 0 {
			if err := tx.CreateInBatches(entryRows, batchSize).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Stats{}, shared.WrapError("export", "Export", shared.ErrStorage, "cannot write snapshot", err)
	}

	return Stats{Students: len(studentRows), Entries: len(entryRows)}, nil
}
