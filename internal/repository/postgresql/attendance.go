package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-lite-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-lite-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/metrics"
)

type attendanceRepository struct {
	db      database.Pool
	metrics *metrics.Metrics
}

func NewAttendanceRepository(db database.Pool, m *metrics.Metrics) attendance.AttendanceRepository {
	return &attendanceRepository{db: db, metrics: m}
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, error) {
	defer a.metrics.ObserveQuery("list_attendance", time.Now())
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, filter.EmployeeID)
		argIdx++
	}
	if filter.DateFrom != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, filter.DateTo)
	}

	query := `
		SELECT a.id, a.employee_id, a.date, a.status, a.created_at, a.updated_at,
			e.employee_id, e.full_name, e.department
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		WHERE ` + baseWhere + `
		ORDER BY a.date DESC, a.created_at DESC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	records := []attendance.Attendance{}
	for rows.Next() {
		var att attendance.Attendance
		var status string
		err := rows.Scan(
			&att.ID, &att.EmployeeID, &att.Date, &status, &att.CreatedAt, &att.UpdatedAt,
			&att.EmployeeCode, &att.EmployeeName, &att.Department,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		att.Status = attendance.Status(status)
		records = append(records, att)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}

	return records, nil
}

// Upsert implements attendance.AttendanceRepository.
func (a *attendanceRepository) Upsert(ctx context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	defer a.metrics.ObserveQuery("upsert_attendance", time.Now())
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance (employee_id, date, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id, date)
		DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
		RETURNING id, employee_id, date, status, created_at, updated_at
	`

	var saved attendance.Attendance
	var status string
	err := q.QueryRow(ctx, query, record.EmployeeID, record.Date, string(record.Status)).Scan(
		&saved.ID, &saved.EmployeeID, &saved.Date, &status, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		err = database.AsStoreError(err)
		var storeErr *database.StoreError
		if errors.As(err, &storeErr) && storeErr.IsForeignKeyViolation() {
			return attendance.Attendance{}, employee.ErrEmployeeNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}
	saved.Status = attendance.Status(status)

	return saved, nil
}

// CountByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) CountByEmployee(ctx context.Context, employeeID string) (int64, error) {
	defer a.metrics.ObserveQuery("count_attendance_by_employee", time.Now())
	q := GetQuerier(ctx, a.db)

	var total int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendance WHERE employee_id = $1`, employeeID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	return total, nil
}
