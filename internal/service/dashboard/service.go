package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-lite-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-lite-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-lite-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	employeeService   employee.EmployeeService
	attendanceService attendance.AttendanceService
	location          *time.Location
	now               func() time.Time
}

// NewDashboardService builds the dashboard from the employee and attendance
// views. "Today" is the current date in location.
func NewDashboardService(
	employeeService employee.EmployeeService,
	attendanceService attendance.AttendanceService,
	location *time.Location,
	now func() time.Time,
) dashboard.DashboardService {
	if location == nil {
		location = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &DashboardServiceImpl{
		employeeService:   employeeService,
		attendanceService: attendanceService,
		location:          location,
		now:               now,
	}
}

// GetDashboard returns combined dashboard data, loading each view in parallel
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (dashboard.DashboardResponse, error) {
	today := s.now().In(s.location).Format(validator.DateLayout)

	var (
		employees employee.ListEmployeeResponse
		todays    attendance.ListAttendanceResponse
		summary   []attendance.SummaryResponse
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Roster
	g.Go(func() error {
		var err error
		employees, err = s.employeeService.ListEmployees(gCtx, employee.EmployeeFilter{})
		return err
	})

	// 2. Today's records
	g.Go(func() error {
		var err error
		todays, err = s.attendanceService.ListAttendance(gCtx, attendance.AttendanceFilter{DateFrom: today, DateTo: today})
		return err
	})

	// 3. Per-employee summary
	g.Go(func() error {
		var err error
		summary, err = s.attendanceService.GetSummary(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		return dashboard.DashboardResponse{}, err
	}

	departments := make(map[string]struct{})
	for _, emp := range employees.Employees {
		departments[emp.Department] = struct{}{}
	}

	todayStats := dashboard.TodayAttendanceResponse{Date: today}
	for _, record := range todays.Records {
		switch attendance.Status(record.Status) {
		case attendance.StatusPresent:
			todayStats.Present++
		case attendance.StatusAbsent:
			todayStats.Absent++
		}
	}
	tally := attendance.Summary{Present: todayStats.Present, Total: len(todays.Records)}
	if rate, ok := tally.Rate(); ok {
		todayStats.Rate = &rate
	}

	return dashboard.DashboardResponse{
		TotalEmployees: employees.TotalCount,
		Departments:    len(departments),
		Today:          todayStats,
		Summary:        summary,
	}, nil
}
