package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hris-lite-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-lite-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/validator"
)

const listEmployeesKey = cache.ViewEmployees + "list"

type EmployeeServiceImpl struct {
	tx             database.Transactor
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	cache          *cache.Cache
	metrics        *metrics.Metrics
	log            *slog.Logger
}

func NewEmployeeService(
	tx database.Transactor,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	queryCache *cache.Cache,
	m *metrics.Metrics,
	log *slog.Logger,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:             tx,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		cache:          queryCache,
		metrics:        m,
		log:            log,
	}
}

// ListEmployees implements employee.EmployeeService.
// The whole roster is cached once and searched in memory.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	employees, err := cache.GetOrLoad(ctx, s.cache, listEmployeesKey, s.employeeRepo.List)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		if !filter.Matches(emp) {
			continue
		}
		responses = append(responses, employee.NewEmployeeResponse(emp))
	}

	return employee.ListEmployeeResponse{
		Employees:  responses,
		TotalCount: len(responses),
		Filtered:   strings.TrimSpace(filter.Search) != "",
	}, nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	if !validator.IsValidUUID(id) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}

	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return employee.NewEmployeeResponse(emp), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		EmployeeCode: req.EmployeeCode,
		FullName:     req.FullName,
		Email:        req.Email,
		Department:   employee.Department(req.Department),
	})
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeIDExists) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeIDExists
		}
		return employee.EmployeeResponse{}, err
	}

	s.metrics.EmployeesCreated.Inc()
	s.cache.Invalidate(cache.ViewEmployees)
	s.log.InfoContext(ctx, "Employee created", "id", created.ID, "employee_id", created.EmployeeCode)

	return employee.NewEmployeeResponse(created), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) (employee.DeleteEmployeeResponse, error) {
	if !validator.IsValidUUID(id) {
		return employee.DeleteEmployeeResponse{}, employee.ErrEmployeeNotFound
	}

	var removed int64
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		count, err := s.attendanceRepo.CountByEmployee(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.employeeRepo.Delete(txCtx, id); err != nil {
			return err
		}
		removed = count
		return nil
	})
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.DeleteEmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.DeleteEmployeeResponse{}, fmt.Errorf("failed to delete employee: %w", err)
	}

	s.metrics.EmployeesDeleted.Inc()
	s.cache.Invalidate(cache.ViewEmployees)
	s.cache.Invalidate(cache.ViewAttendance)
	s.log.InfoContext(ctx, "Employee deleted", "id", id, "attendance_removed", removed)

	return employee.DeleteEmployeeResponse{ID: id, AttendanceRemoved: removed}, nil
}

// ListDepartments implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListDepartments(ctx context.Context) []string {
	departments := employee.Departments()
	names := make([]string, 0, len(departments))
	for _, d := range departments {
		names = append(names, string(d))
	}
	return names
}
