package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-lite-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-lite-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/validator"
)

const (
	listAttendanceView = cache.ViewAttendance + "list"
	summaryKey         = cache.ViewAttendance + "summary"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	cache          *cache.Cache
	metrics        *metrics.Metrics
	log            *slog.Logger
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	queryCache *cache.Cache,
	m *metrics.Metrics,
	log *slog.Logger,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		cache:          queryCache,
		metrics:        m,
		log:            log,
	}
}

func unknownEmployee() error {
	var errs validator.ValidationErrors
	errs.Add("employee_id", "Selected employee does not exist")
	return errs
}

// MarkAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAttendance(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	owner, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.AttendanceResponse{}, unknownEmployee()
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	saved, err := s.attendanceRepo.Upsert(ctx, attendance.Attendance{
		EmployeeID: owner.ID,
		Date:       req.ParsedDate,
		Status:     attendance.Status(req.Status),
	})
	if err != nil {
		// the employee was deleted between the lookup and the write
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.AttendanceResponse{}, unknownEmployee()
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to mark attendance: %w", err)
	}

	saved.EmployeeCode = owner.EmployeeCode
	saved.EmployeeName = owner.FullName
	saved.Department = string(owner.Department)

	s.metrics.AttendanceMarked.WithLabelValues(string(saved.Status)).Inc()
	s.cache.Invalidate(cache.ViewAttendance)
	s.log.InfoContext(ctx, "Attendance marked",
		"employee_id", owner.EmployeeCode,
		"date", saved.Date.Format(validator.DateLayout),
		"status", saved.Status,
	)

	return attendance.NewAttendanceResponse(saved), nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	key := cache.Key(listAttendanceView,
		"employee_id", filter.EmployeeID,
		"date_from", filter.DateFrom,
		"date_to", filter.DateTo,
	)
	records, err := cache.GetOrLoad(ctx, s.cache, key, func(ctx context.Context) ([]attendance.Attendance, error) {
		return s.attendanceRepo.List(ctx, filter)
	})
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, attendance.NewAttendanceResponse(record))
	}

	return attendance.ListAttendanceResponse{
		Records:    responses,
		TotalCount: len(responses),
		Filtered:   filter.IsFiltered(),
	}, nil
}

// GetSummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetSummary(ctx context.Context) ([]attendance.SummaryResponse, error) {
	summaries, err := cache.GetOrLoad(ctx, s.cache, summaryKey, func(ctx context.Context) ([]attendance.Summary, error) {
		records, err := s.attendanceRepo.List(ctx, attendance.AttendanceFilter{})
		if err != nil {
			return nil, err
		}
		return attendance.Summarize(records), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to summarize attendance: %w", err)
	}

	responses := make([]attendance.SummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		responses = append(responses, attendance.NewSummaryResponse(summary))
	}
	return responses, nil
}
