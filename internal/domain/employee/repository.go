package employee

import "context"

type EmployeeRepository interface {
	// List returns every employee, newest first.
	List(ctx context.Context) ([]Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	// Create fails with ErrEmployeeIDExists when the employee code is taken.
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	// Delete removes the employee; the store removes its attendance records.
	Delete(ctx context.Context, id string) error
}
