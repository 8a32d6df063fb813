package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-lite-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-lite-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type attendanceRepository struct {
	store *Store
}

func NewAttendanceRepository(s *Store) attendance.AttendanceRepository {
	return &attendanceRepository{store: s}
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, error) {
	r.store.mu.RLock()
	stored := make([]storedAttendance, 0, len(r.store.attendance))
	for key, rec := range r.store.attendance {
		if filter.EmployeeID != "" && key.employeeID != filter.EmployeeID {
			continue
		}
		if filter.DateFrom != "" && key.date < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && key.date > filter.DateTo {
			continue
		}
		if owner, ok := r.store.employees[key.employeeID]; ok {
			rec.EmployeeCode = owner.EmployeeCode
			rec.EmployeeName = owner.FullName
			rec.Department = string(owner.Department)
		}
		stored = append(stored, rec)
	}
	r.store.mu.RUnlock()

	sort.Slice(stored, func(i, j int) bool {
		if !stored[i].Date.Equal(stored[j].Date) {
			return stored[i].Date.After(stored[j].Date)
		}
		if !stored[i].CreatedAt.Equal(stored[j].CreatedAt) {
			return stored[i].CreatedAt.After(stored[j].CreatedAt)
		}
		return stored[i].seq > stored[j].seq
	})

	records := make([]attendance.Attendance, 0, len(stored))
	for _, rec := range stored {
		records = append(records, rec.Attendance)
	}
	return records, nil
}

// Upsert implements attendance.AttendanceRepository.
func (r *attendanceRepository) Upsert(ctx context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	date := time.Date(record.Date.Year(), record.Date.Month(), record.Date.Day(), 0, 0, 0, 0, time.UTC)
	key := attendanceKey{employeeID: record.EmployeeID, date: date.Format(validator.DateLayout)}

	defer r.store.lockWrite(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.employees[record.EmployeeID]; !ok {
		return attendance.Attendance{}, employee.ErrEmployeeNotFound
	}

	now := r.store.now().UTC()
	if existing, ok := r.store.attendance[key]; ok {
		existing.Status = record.Status
		existing.UpdatedAt = now
		r.store.attendance[key] = existing
		return existing.Attendance, nil
	}

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}
	saved := attendance.Attendance{
		ID:         id.String(),
		EmployeeID: record.EmployeeID,
		Date:       date,
		Status:     record.Status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.store.attendance[key] = storedAttendance{Attendance: saved, seq: r.store.nextSeq()}
	return saved, nil
}

// CountByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepository) CountByEmployee(ctx context.Context, employeeID string) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var total int64
	for key := range r.store.attendance {
		if key.employeeID == employeeID {
			total++
		}
	}
	return total, nil
}
