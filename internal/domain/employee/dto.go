package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/validator"
)

const (
	maxEmployeeCodeLength = 20
	maxFullNameLength     = 100
	maxEmailLength        = 255
)

type CreateEmployeeRequest struct {
	EmployeeCode string `json:"employee_id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Department   string `json:"department"`
}

// Validate trims the text fields in place and reports every failing field.
func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmployeeCode = strings.TrimSpace(r.EmployeeCode)
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.TrimSpace(r.Email)

	switch {
	case r.EmployeeCode == "":
		errs.Add("employee_id", "Employee ID is required")
	case !validator.MaxLen(r.EmployeeCode, maxEmployeeCodeLength):
		errs.Add("employee_id", "Employee ID must be under 20 characters")
	}

	switch {
	case r.FullName == "":
		errs.Add("full_name", "Full name is required")
	case !validator.MaxLen(r.FullName, maxFullNameLength):
		errs.Add("full_name", "Name must be under 100 characters")
	}

	switch {
	case !validator.IsValidEmail(r.Email):
		errs.Add("email", "Please enter a valid email address")
	case !validator.MaxLen(r.Email, maxEmailLength):
		errs.Add("email", "Email must be under 255 characters")
	}

	switch {
	case validator.IsEmpty(r.Department):
		errs.Add("department", "Please select a department")
	case !Department(r.Department).IsValid():
		errs.Add("department", "Department must be one of the listed departments")
	}

	return errs.Err()
}

type EmployeeResponse struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employee_id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Department   string `json:"department"`
	CreatedAt    string `json:"created_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		FullName:     e.FullName,
		Email:        e.Email,
		Department:   string(e.Department),
		CreatedAt:    e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// EmployeeFilter narrows the roster. Search is a case-insensitive substring
// matched against the name, employee ID, email and department.
type EmployeeFilter struct {
	Search string `json:"search,omitempty"`
}

// Matches reports whether e passes the filter. An empty search matches all.
func (f EmployeeFilter) Matches(e Employee) bool {
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	if needle == "" {
		return true
	}
	for _, field := range []string{e.FullName, e.EmployeeCode, e.Email, string(e.Department)} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

type ListEmployeeResponse struct {
	Employees  []EmployeeResponse `json:"employees"`
	TotalCount int                `json:"total_count"`
	Filtered   bool               `json:"filtered"`
}

type DeleteEmployeeResponse struct {
	ID                string `json:"id"`
	AttendanceRemoved int64  `json:"attendance_removed"`
}
