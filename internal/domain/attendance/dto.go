package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// MarkAttendanceRequest records one day's status for one employee. EmployeeID
// is the employee's system id, not the user-facing code.
type MarkAttendanceRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`   // YYYY-MM-DD
	Status     string `json:"status"` // Present, Absent

	ParsedDate time.Time `json:"-"`
}

func (r *MarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	r.Date = strings.TrimSpace(r.Date)
	r.Status = strings.TrimSpace(r.Status)

	switch {
	case r.EmployeeID == "":
		errs.Add("employee_id", "Please select an employee")
	case !validator.IsValidUUID(r.EmployeeID):
		errs.Add("employee_id", "Selected employee is not valid")
	}

	if r.Date == "" {
		errs.Add("date", "Please select a date")
	} else if date, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "Date must be a valid date (YYYY-MM-DD)")
	} else {
		r.ParsedDate = date
	}

	switch {
	case r.Status == "":
		errs.Add("status", "Please select status")
	case !Status(r.Status).IsValid():
		errs.Add("status", "Status must be Present or Absent")
	}

	return errs.Err()
}

// AttendanceFilter narrows the attendance list. Empty fields do not filter.
type AttendanceFilter struct {
	EmployeeID string `json:"employee_id,omitempty"`
	DateFrom   string `json:"date_from,omitempty"` // YYYY-MM-DD, inclusive
	DateTo     string `json:"date_to,omitempty"`   // YYYY-MM-DD, inclusive
}

// Validate normalizes the "all" employee selection to no filter.
func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	f.EmployeeID = strings.TrimSpace(f.EmployeeID)
	if f.EmployeeID == "all" {
		f.EmployeeID = ""
	}
	if f.EmployeeID != "" && !validator.IsValidUUID(f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid id")
	}

	from, fromOK := validator.IsValidDate(f.DateFrom)
	if f.DateFrom != "" && !fromOK {
		errs.Add("date_from", "date_from must be in YYYY-MM-DD format")
	}
	to, toOK := validator.IsValidDate(f.DateTo)
	if f.DateTo != "" && !toOK {
		errs.Add("date_to", "date_to must be in YYYY-MM-DD format")
	}
	if fromOK && toOK && to.Before(from) {
		errs.Add("date_to", "date_to must not be before date_from")
	}

	return errs.Err()
}

// IsFiltered reports whether any filter is set.
func (f AttendanceFilter) IsFiltered() bool {
	return f.EmployeeID != "" || f.DateFrom != "" || f.DateTo != ""
}

type EmployeeSnapshot struct {
	EmployeeCode string `json:"employee_id"`
	FullName     string `json:"full_name"`
	Department   string `json:"department"`
}

type AttendanceResponse struct {
	ID         string            `json:"id"`
	EmployeeID string            `json:"employee_id"`
	Date       string            `json:"date"`
	Status     string            `json:"status"`
	CreatedAt  string            `json:"created_at"`
	UpdatedAt  string            `json:"updated_at"`
	Employee   *EmployeeSnapshot `json:"employee,omitempty"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		Date:       a.Date.Format(validator.DateLayout),
		Status:     string(a.Status),
		CreatedAt:  a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  a.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if a.EmployeeCode != "" || a.EmployeeName != "" {
		resp.Employee = &EmployeeSnapshot{
			EmployeeCode: a.EmployeeCode,
			FullName:     a.EmployeeName,
			Department:   a.Department,
		}
	}
	return resp
}

type ListAttendanceResponse struct {
	Records    []AttendanceResponse `json:"records"`
	TotalCount int                  `json:"total_count"`
	Filtered   bool                 `json:"filtered"`
}

type SummaryResponse struct {
	EmployeeID   string `json:"employee_uuid"`
	EmployeeCode string `json:"employee_id"`
	FullName     string `json:"full_name"`
	Department   string `json:"department"`
	Present      int    `json:"present"`
	Absent       int    `json:"absent"`
	Total        int    `json:"total"`
	Rate         *int   `json:"rate"` // percent, null when total is 0
}

func NewSummaryResponse(s Summary) SummaryResponse {
	resp := SummaryResponse{
		EmployeeID:   s.EmployeeID,
		EmployeeCode: s.EmployeeCode,
		FullName:     s.FullName,
		Department:   s.Department,
		Present:      s.Present,
		Absent:       s.Absent,
		Total:        s.Total,
	}
	if rate, ok := s.Rate(); ok {
		resp.Rate = &rate
	}
	return resp
}
