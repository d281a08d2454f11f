package company

import (
	"context"
)

type CompanyService interface {
	List(ctx context.Context, filter CompanyFilter) ([]CompanyResponse, int64, error)
	Create(ctx context.Context, req CreateCompanyRequest) (CompanyResponse, error)
	GetByID(ctx context.Context, id string) (CompanyResponse, error)
	Update(ctx context.Context, id string, req UpdateCompanyRequest) (CompanyResponse, error)
	SetActive(ctx context.Context, id string, active bool) (CompanyResponse, error)
	Delete(ctx context.Context, id string) error
	UploadLogo(ctx context.Context, req UploadCompanyLogoRequest) (UploadCompanyLogoResponse, error)
}
