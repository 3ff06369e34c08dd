package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	GetByEmail(ctx context.Context, companyID string, email string) (Employee, error)
	List(ctx context.Context, companyID string, filter EmployeeFilter) ([]Employee, int64, error)
	GetManyByIDs(ctx context.Context, companyID string, ids []string) ([]Employee, error)

	// UpdateByEmail applies a partial update keyed by the (company, email)
	// pair and returns the number of rows touched. Zero rows means the email
	// does not belong to any employee of the tenant.
	UpdateByEmail(ctx context.Context, companyID string, email string, fields UpdateFields) (int64, error)

	// Deactivate marks the employee inactive. Offboarding never deletes rows.
	Deactivate(ctx context.Context, id string, companyID string) error
}
