package employee

import (
	"time"
)

type Employee struct {
	ID           string
	EmployeeCode string
	FullName     string
	Email        string
	Department   Department
	CreatedAt    time.Time
}

type Department string

const (
	DepartmentEngineering    Department = "Engineering"
	DepartmentMarketing      Department = "Marketing"
	DepartmentSales          Department = "Sales"
	DepartmentHumanResources Department = "Human Resources"
	DepartmentFinance        Department = "Finance"
	DepartmentOperations     Department = "Operations"
	DepartmentDesign         Department = "Design"
	DepartmentProduct        Department = "Product"
)

var departments = []Department{
	DepartmentEngineering,
	DepartmentMarketing,
	DepartmentSales,
	DepartmentHumanResources,
	DepartmentFinance,
	DepartmentOperations,
	DepartmentDesign,
	DepartmentProduct,
}

// Departments returns the organizational units an employee can belong to, in display order.
func Departments() []Department {
	return append([]Department(nil), departments...)
}

func (d Department) IsValid() bool {
	for _, known := range departments {
		if d == known {
			return true
		}
	}
	return false
}
