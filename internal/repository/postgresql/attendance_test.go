package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-lite-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-lite-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-lite-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	upsertAttendanceQuery = `INSERT INTO attendance \(employee_id, date, status\)\s+VALUES \(\$1, \$2, \$3\)\s+ON CONFLICT \(employee_id, date\)\s+DO UPDATE SET status = EXCLUDED.status`
	countAttendanceQuery  = `SELECT COUNT\(\*\) FROM attendance WHERE employee_id = \$1`
)

var (
	attendanceColumns = []string{
		"id", "employee_id", "date", "status", "created_at", "updated_at",
		"employee_id", "full_name", "department",
	}
	upsertColumns = []string{"id", "employee_id", "date", "status", "created_at", "updated_at"}
)

func TestAttendanceRepository_List_NoFilter(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	stamp := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM attendance a\s+JOIN employees e ON e.id = a.employee_id\s+WHERE TRUE\s+ORDER BY a.date DESC, a.created_at DESC`).
		WillReturnRows(pgxmock.NewRows(attendanceColumns).
			AddRow("att-1", employeeUUID, date, "Present", stamp, stamp, "EMP001", "John Doe", "Sales"))

	repo := postgresql.NewAttendanceRepository(mock, newMetrics())
	got, err := repo.List(context.Background(), attendance.AttendanceFilter{})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, attendance.StatusPresent, got[0].Status)
	assert.Equal(t, "EMP001", got[0].EmployeeCode)
	assert.Equal(t, "John Doe", got[0].EmployeeName)
	assert.Equal(t, "Sales", got[0].Department)
	assert.Equal(t, date, got[0].Date)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_List_AllFilters(t *testing.T) {
	t.Parallel()
	mock := newMock(t)

	mock.ExpectQuery(`WHERE TRUE AND a.employee_id = \$1 AND a.date >= \$2 AND a.date <= \$3`).
		WithArgs(employeeUUID, "2024-01-01", "2024-01-31").
		WillReturnRows(pgxmock.NewRows(attendanceColumns))

	repo := postgresql.NewAttendanceRepository(mock, newMetrics())
	got, err := repo.List(context.Background(), attendance.AttendanceFilter{
		EmployeeID: employeeUUID,
		DateFrom:   "2024-01-01",
		DateTo:     "2024-01-31",
	})

	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_List_DateToOnly(t *testing.T) {
	t.Parallel()
	mock := newMock(t)

	mock.ExpectQuery(`WHERE TRUE AND a.date <= \$1\s`).
		WithArgs("2024-01-31").
		WillReturnRows(pgxmock.NewRows(attendanceColumns))

	repo := postgresql.NewAttendanceRepository(mock, newMetrics())
	_, err := repo.List(context.Background(), attendance.AttendanceFilter{DateTo: "2024-01-31"})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_Upsert_Success(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	stamp := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(upsertAttendanceQuery).
		WithArgs(employeeUUID, date, "Absent").
		WillReturnRows(pgxmock.NewRows(upsertColumns).
			AddRow("att-1", employeeUUID, date, "Absent", stamp, stamp.Add(time.Hour)))

	repo := postgresql.NewAttendanceRepository(mock, newMetrics())
	got, err := repo.Upsert(context.Background(), attendance.Attendance{
		EmployeeID: employeeUUID,
		Date:       date,
		Status:     attendance.StatusAbsent,
	})

	require.NoError(t, err)
	assert.Equal(t, "att-1", got.ID)
	assert.Equal(t, attendance.StatusAbsent, got.Status)
	assert.Equal(t, stamp.Add(time.Hour), got.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_Upsert_UnknownEmployee(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(upsertAttendanceQuery).
		WithArgs(employeeUUID, date, "Present").
		WillReturnError(&pgconn.PgError{
			Code:           database.CodeForeignKeyViolation,
			ConstraintName: "attendance_employee_id_fkey",
			Message:        `insert or update on table "attendance" violates foreign key constraint "attendance_employee_id_fkey"`,
		})

	repo := postgresql.NewAttendanceRepository(mock, newMetrics())
	_, err := repo.Upsert(context.Background(), attendance.Attendance{
		EmployeeID: employeeUUID,
		Date:       date,
		Status:     attendance.StatusPresent,
	})

	require.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_CountByEmployee(t *testing.T) {
	t.Parallel()
	mock := newMock(t)

	mock.ExpectQuery(countAttendanceQuery).WithArgs(employeeUUID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	repo := postgresql.NewAttendanceRepository(mock, newMetrics())
	got, err := repo.CountByEmployee(context.Background(), employeeUUID)

	require.NoError(t, err)
	assert.EqualValues(t, 3, got)
	require.NoError(t, mock.ExpectationsWereMet())
}
