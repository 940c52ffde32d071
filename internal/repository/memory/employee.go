package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smj-bricks/payroll-backend-go/internal/domain/employee"
)

type employeeRepository struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
}

func NewEmployeeRepository() employee.EmployeeRepository {
	return &employeeRepository{employees: make(map[string]employee.Employee)}
}

func (r *employeeRepository) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	emp.CreatedAt = now
	emp.UpdatedAt = now

	r.employees[emp.ID] = emp
	return emp, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []employee.Employee
	for _, emp := range r.employees {
		if emp.IsActive() {
			result = append(result, emp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FullName < result[j].FullName })
	return result, nil
}
