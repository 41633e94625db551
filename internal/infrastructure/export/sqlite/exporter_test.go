package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classroll/attendance-tracker/internal/domain/attendance"
	"github.com/classroll/attendance-tracker/internal/domain/shared"
	"github.com/classroll/attendance-tracker/internal/domain/student"
)

func TestExport_WritesOrderedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.db")
	ctx := context.Background()

	students := []student.Student{
		{RollNumber: "042", Name: "Zed", RegisteredOn: "2024-01-09 08:00"},
		{RollNumber: "001", Name: "Alice", RegisteredOn: "2024-01-10 09:00"},
	}
	entries := []attendance.Entry{
		{RollNumber: "001", At: "2024-01-11 09:05", Status: attendance.StatusPresent},
		{RollNumber: "001", At: "2024-01-12 09:00", Status: attendance.StatusAbsent},
		{RollNumber: "999", At: "2024-01-12 09:00", Status: "Late"},
	}

	stats, err := Export(ctx, path, students, entries)
	require.NoError(t, err)
	assert.Equal(t, Stats{Students: 2, Entries: 3}, stats)

	db, err := Open(path)
	require.NoError(t, err)
	defer Close(db)

	var rows []StudentRow
	require.NoError(t, db.Order("position").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, "042", rows[0].RollNumber)
	assert.Equal(t, "Alice", rows[1].Name)

	var present int64
	require.NoError(t, db.Model(&AttendanceRow{}).
		Where("roll_number = ? AND status = ?", "001", "Present").Count(&present).Error)
	assert.Equal(t, int64(1), present)

	var row AttendanceRow
	require.NoError(t, db.Where("roll_number = ?", "999").First(&row).Error)
	assert.Equal(t, "2024-01-12", row.Date)
	assert.Equal(t, "09:00", row.Time)
}

func TestExport_ReplacesPreviousSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.db")
	ctx := context.Background()

	_, err := Export(ctx, path,
		[]student.Student{{RollNumber: "001", Name: "Alice", RegisteredOn: "2024-01-10 09:00"}},
		[]attendance.Entry{{RollNumber: "001", At: "2024-01-11 09:05", Status: attendance.StatusPresent}},
	)
	require.NoError(t, err)

	stats, err := Export(ctx, path, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)

	db, err := Open(path)
	require.NoError(t, err)
	defer Close(db)

	var students, entries int64
	require.NoError(t, db.Model(&StudentRow{}).Count(&students).Error)
	require.NoError(t, db.Model(&AttendanceRow{}).Count(&entries).Error)
	assert.Zero(t, students)
	assert.Zero(t, entries)
}

func TestExport_SplitsSpacedDatesAtLastSpace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.db")

	_, err := Export(context.Background(), path, nil, []attendance.Entry{
		{RollNumber: "001", At: shared.NewStamp("10 Jan 2024", "09:00"), Status: attendance.StatusPresent},
	})
	require.NoError(t, err)

	db, err := Open(path)
	require.NoError(t, err)
	defer Close(db)

	var row AttendanceRow
	require.NoError(t, db.Where("roll_number = ?", "001").First(&row).Error)
	assert.Equal(t, "10 Jan 2024", row.Date)
	assert.Equal(t, "09:00", row.Time)
}
