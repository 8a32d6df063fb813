//go:build integration

package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-lite-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-lite-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-lite-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamathecxder/randomail"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupDatabase(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("hris_lite"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	sqlDB := stdlib.OpenDBFromPool(db.Pool)
	defer sqlDB.Close()
	require.NoError(t, goose.Up(sqlDB, "../../../migrations"))

	return db
}

func TestPostgresStore_EndToEnd(t *testing.T) {
	db := setupDatabase(t)
	ctx := context.Background()
	m := newMetrics()
	employees := postgresql.NewEmployeeRepository(db, m)
	records := postgresql.NewAttendanceRepository(db, m)
	tx := postgresql.NewTransactor(db)

	alice, err := employees.Create(ctx, employee.Employee{
		EmployeeCode: "EMP001", FullName: "Alice", Email: randomail.GenerateRandomEmail(), Department: employee.DepartmentEngineering,
	})
	require.NoError(t, err)
	bob, err := employees.Create(ctx, employee.Employee{
		EmployeeCode: "EMP002", FullName: "Bob", Email: randomail.GenerateRandomEmail(), Department: employee.DepartmentSales,
	})
	require.NoError(t, err)

	_, err = employees.Create(ctx, employee.Employee{
		EmployeeCode: "EMP001", FullName: "Dup", Email: randomail.GenerateRandomEmail(), Department: employee.DepartmentSales,
	})
	require.ErrorIs(t, err, employee.ErrEmployeeIDExists)

	_, err = employees.Create(ctx, employee.Employee{
		EmployeeCode: "EMP003", FullName: "Dup", Email: alice.Email, Department: employee.DepartmentSales,
	})
	var storeErr *database.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "employees_email_key", storeErr.Constraint)

	list, err := employees.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, bob.ID, list[0].ID)

	jan15 := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	first, err := records.Upsert(ctx, attendance.Attendance{EmployeeID: alice.ID, Date: jan15, Status: attendance.StatusPresent})
	require.NoError(t, err)
	second, err := records.Upsert(ctx, attendance.Attendance{EmployeeID: alice.ID, Date: jan15, Status: attendance.StatusAbsent})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, attendance.StatusAbsent, second.Status)

	_, err = records.Upsert(ctx, attendance.Attendance{EmployeeID: bob.ID, Date: jan15.AddDate(0, 0, -1), Status: attendance.StatusPresent})
	require.NoError(t, err)

	_, err = records.Upsert(ctx, attendance.Attendance{
		EmployeeID: "0190a5b2-0000-7000-8000-000000000001", Date: jan15, Status: attendance.StatusPresent,
	})
	require.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	filtered, err := records.List(ctx, attendance.AttendanceFilter{DateFrom: "2024-01-15", DateTo: "2024-01-15"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Alice", filtered[0].EmployeeName)
	assert.Equal(t, "EMP001", filtered[0].EmployeeCode)

	var removed int64
	err = tx.WithinTx(ctx, func(ctx context.Context) error {
		if removed, err = records.CountByEmployee(ctx, alice.ID); err != nil {
			return err
		}
		return employees.Delete(ctx, alice.ID)
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	remaining, err := records.List(ctx, attendance.AttendanceFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, bob.ID, remaining[0].EmployeeID)

	require.ErrorIs(t, employees.Delete(ctx, alice.ID), employee.ErrEmployeeNotFound)
}
