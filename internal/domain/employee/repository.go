package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)
	List(ctx context.Context, filter EmployeeFilter, companyID string) ([]Employee, int64, error)
	Update(ctx context.Context, id string, companyID string, req UpdateEmployeeRequest) (Employee, error)
	SetActive(ctx context.Context, id string, companyID string, active bool) (Employee, error)
	Delete(ctx context.Context, id string, companyID string) error
	CountByCompanyID(ctx context.Context, companyID string) (int64, error)
}
