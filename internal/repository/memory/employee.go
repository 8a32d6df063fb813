package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/hris-lite-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/database"
	"github.com/google/uuid"
)

type employeeRepository struct {
	store *Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{store: s}
}

// List implements employee.EmployeeRepository.
func (r *employeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	r.store.mu.RLock()
	stored := make([]storedEmployee, 0, len(r.store.employees))
	for _, e := range r.store.employees {
		stored = append(stored, e)
	}
	r.store.mu.RUnlock()

	sort.Slice(stored, func(i, j int) bool {
		if !stored[i].CreatedAt.Equal(stored[j].CreatedAt) {
			return stored[i].CreatedAt.After(stored[j].CreatedAt)
		}
		return stored[i].seq > stored[j].seq
	})

	employees := make([]employee.Employee, 0, len(stored))
	for _, e := range stored {
		employees = append(employees, e.Employee)
	}
	return employees, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e.Employee, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to generate employee id: %w", err)
	}

	defer r.store.lockWrite(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// employee_id is checked across every row before email, as the unique
	// indexes are in Postgres.
	for _, existing := range r.store.employees {
		if existing.EmployeeCode == newEmployee.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeIDExists
		}
	}
	for _, existing := range r.store.employees {
		if existing.Email == newEmployee.Email {
			return employee.Employee{}, fmt.Errorf("failed to create employee: %w", &database.StoreError{
				Code:       database.CodeUniqueViolation,
				Constraint: "employees_email_key",
				Message:    `duplicate key value violates unique constraint "employees_email_key"`,
			})
		}
	}

	newEmployee.ID = id.String()
	newEmployee.CreatedAt = r.store.now().UTC()
	r.store.employees[newEmployee.ID] = storedEmployee{Employee: newEmployee, seq: r.store.nextSeq()}

	return newEmployee, nil
}

// Delete implements employee.EmployeeRepository. Attendance owned by the
// employee is removed with it.
func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	defer r.store.lockWrite(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.employees[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(r.store.employees, id)
	for key := range r.store.attendance {
		if key.employeeID == id {
			delete(r.store.attendance, key)
		}
	}
	return nil
}
