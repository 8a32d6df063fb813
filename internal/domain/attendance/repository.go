package attendance

import (
	"context"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// List returns records joined with their employee snapshot, newest date first.
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, error)

	// Upsert creates the record for (EmployeeID, Date) or overwrites its status.
	Upsert(ctx context.Context, record Attendance) (Attendance, error)

	// CountByEmployee counts records owned by an employee
	CountByEmployee(ctx context.Context, employeeID string) (int64, error)
}
