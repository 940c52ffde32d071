package employee

import "context"

// EmployeeRepository defines data access methods for employees. Employee
// records are managed by the main business app; payroll reads them and only
// writes through Create for seeding and tests.
type EmployeeRepository interface {
	Create(ctx context.Context, emp Employee) (Employee, error)

	GetByID(ctx context.Context, id string) (Employee, error)

	// ListActive retrieves employees eligible for payroll operations
	ListActive(ctx context.Context) ([]Employee, error)
}
