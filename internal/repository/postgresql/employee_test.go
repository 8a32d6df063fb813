package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-lite-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-lite-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	listEmployeesQuery  = `SELECT id, employee_id, full_name, email, department, created_at\s+FROM employees\s+ORDER BY created_at DESC`
	getEmployeeQuery    = `FROM employees\s+WHERE id = \$1`
	createEmployeeQuery = `INSERT INTO employees \(employee_id, full_name, email, department\)`
	deleteEmployeeQuery = `DELETE FROM employees WHERE id = \$1`

	employeeUUID = "0190a5b2-0000-7000-8000-000000000001"
)

var employeeColumns = []string{"id", "employee_id", "full_name", "email", "department", "created_at"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func newMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.NewRegistry())
}

func TestEmployeeRepository_List_Success(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(listEmployeesQuery).
		WillReturnRows(pgxmock.NewRows(employeeColumns).
			AddRow(employeeUUID, "EMP002", "Jane Roe", "jane@company.com", "Design", created.Add(time.Hour)).
			AddRow("0190a5b2-0000-7000-8000-000000000009", "EMP001", "John Doe", "john@company.com", "Sales", created))

	repo := postgresql.NewEmployeeRepository(mock, newMetrics())
	got, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "EMP002", got[0].EmployeeCode)
	assert.Equal(t, employee.DepartmentDesign, got[0].Department)
	assert.Equal(t, "John Doe", got[1].FullName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_List_Empty(t *testing.T) {
	t.Parallel()
	mock := newMock(t)

	mock.ExpectQuery(listEmployeesQuery).WillReturnRows(pgxmock.NewRows(employeeColumns))

	repo := postgresql.NewEmployeeRepository(mock, newMetrics())
	got, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_List_QueryError(t *testing.T) {
	t.Parallel()
	mock := newMock(t)

	mock.ExpectQuery(listEmployeesQuery).WillReturnError(assert.AnError)

	repo := postgresql.NewEmployeeRepository(mock, newMetrics())
	_, err := repo.List(context.Background())

	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, "failed to query employees: "+assert.AnError.Error(), err.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	mock := newMock(t)

	mock.ExpectQuery(getEmployeeQuery).WithArgs(employeeUUID).WillReturnError(pgx.ErrNoRows)

	repo := postgresql.NewEmployeeRepository(mock, newMetrics())
	_, err := repo.GetByID(context.Background(), employeeUUID)

	require.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Create_Success(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(createEmployeeQuery).
		WithArgs("EMP001", "John Doe", "john@company.com", "Engineering").
		WillReturnRows(pgxmock.NewRows(employeeColumns).
			AddRow(employeeUUID, "EMP001", "John Doe", "john@company.com", "Engineering", created))

	repo := postgresql.NewEmployeeRepository(mock, newMetrics())
	got, err := repo.Create(context.Background(), employee.Employee{
		EmployeeCode: "EMP001",
		FullName:     "John Doe",
		Email:        "john@company.com",
		Department:   employee.DepartmentEngineering,
	})

	require.NoError(t, err)
	assert.Equal(t, employeeUUID, got.ID)
	assert.Equal(t, created, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Create_DuplicateEmployeeID(t *testing.T) {
	t.Parallel()
	mock := newMock(t)

	mock.ExpectQuery(createEmployeeQuery).
		WithArgs("EMP001", "John Doe", "john@company.com", "Engineering").
		WillReturnError(&pgconn.PgError{
			Code:           database.CodeUniqueViolation,
			ConstraintName: "employees_employee_id_key",
			Message:        `duplicate key value violates unique constraint "employees_employee_id_key"`,
		})

	repo := postgresql.NewEmployeeRepository(mock, newMetrics())
	_, err := repo.Create(context.Background(), employee.Employee{
		EmployeeCode: "EMP001",
		FullName:     "John Doe",
		Email:        "john@company.com",
		Department:   employee.DepartmentEngineering,
	})

	require.ErrorIs(t, err, employee.ErrEmployeeIDExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Create_DuplicateEmail(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	message := `duplicate key value violates unique constraint "employees_email_key"`

	mock.ExpectQuery(createEmployeeQuery).
		WithArgs("EMP002", "John Doe", "john@company.com", "Engineering").
		WillReturnError(&pgconn.PgError{
			Code:           database.CodeUniqueViolation,
			ConstraintName: "employees_email_key",
			Message:        message,
		})

	repo := postgresql.NewEmployeeRepository(mock, newMetrics())
	_, err := repo.Create(context.Background(), employee.Employee{
		EmployeeCode: "EMP002",
		FullName:     "John Doe",
		Email:        "john@company.com",
		Department:   employee.DepartmentEngineering,
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, employee.ErrEmployeeIDExists)
	var storeErr *database.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, message, storeErr.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Delete(t *testing.T) {
	t.Parallel()

	t.Run("deleted", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(deleteEmployeeQuery).WithArgs(employeeUUID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := postgresql.NewEmployeeRepository(mock, newMetrics())
		require.NoError(t, repo.Delete(context.Background(), employeeUUID))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(deleteEmployeeQuery).WithArgs(employeeUUID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := postgresql.NewEmployeeRepository(mock, newMetrics())
		require.ErrorIs(t, repo.Delete(context.Background(), employeeUUID), employee.ErrEmployeeNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
