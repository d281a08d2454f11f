package company

import "context"

type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (Company, error)
	List(ctx context.Context, filter CompanyFilter) ([]Company, int64, error)
	Create(ctx context.Context, newCompany Company) (Company, error)
	Update(ctx context.Context, id string, req UpdateCompanyRequest) (Company, error)
	SetActive(ctx context.Context, id string, active bool) (Company, error)
	UpdateLogo(ctx context.Context, id string, logoURL string) error
	Delete(ctx context.Context, id string) error
}
