package employee

import "context"

type EmployeeService interface {
	Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetByID(ctx context.Context, companyID string, id string) (EmployeeResponse, error)
	List(ctx context.Context, companyID string, filter EmployeeFilter) ([]EmployeeResponse, int64, error)
	Update(ctx context.Context, companyID string, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	SetActive(ctx context.Context, companyID string, id string, active bool) (EmployeeResponse, error)
	Delete(ctx context.Context, companyID string, id string) error
}
