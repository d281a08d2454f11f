package company

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/company"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/employee"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/schedule"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/database"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/storage"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/utils"
)

type CompanyServiceImpl struct {
	tx           database.Transactor
	companyRepo  company.CompanyRepository
	scheduleRepo schedule.WorkScheduleRepository
	employeeRepo employee.EmployeeRepository
	storage      storage.FileStorage
}

func NewCompanyService(
	tx database.Transactor,
	companyRepo company.CompanyRepository,
	scheduleRepo schedule.WorkScheduleRepository,
	employeeRepo employee.EmployeeRepository,
	fileStorage storage.FileStorage,
) company.CompanyService {
	return &CompanyServiceImpl{
		tx:           tx,
		companyRepo:  companyRepo,
		scheduleRepo: scheduleRepo,
		employeeRepo: employeeRepo,
		storage:      fileStorage,
	}
}

// Create stores the company and seeds its default work week in the same
// transaction.
func (c *CompanyServiceImpl) Create(ctx context.Context, req company.CreateCompanyRequest) (company.CompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}

	var created company.Company
	err := c.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = c.companyRepo.Create(ctx, company.Company{
			ID:            utils.NewID(),
			Name:          req.Name,
			Address:       req.Address,
			Currency:      req.Currency,
			PayPeriodType: req.PayPeriodType,
			IsActive:      true,
			ThemeColor:    req.ThemeColor,
		})
		if err != nil {
			return fmt.Errorf("failed to create company: %w", err)
		}

		if err := c.scheduleRepo.ReplaceForCompany(ctx, created.ID, schedule.DefaultWeek(created.ID).Days()); err != nil {
			return fmt.Errorf("failed to seed default work schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return company.CompanyResponse{}, err
	}

	slog.InfoContext(ctx, "Company created", "company_id", created.ID, "name", created.Name)
	return company.NewCompanyResponse(created), nil
}

func (c *CompanyServiceImpl) List(ctx context.Context, filter company.CompanyFilter) ([]company.CompanyResponse, int64, error) {
	companies, total, err := c.companyRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]company.CompanyResponse, 0, len(companies))
	for _, comp := range companies {
		responses = append(responses, company.NewCompanyResponse(comp))
	}
	return responses, total, nil
}

func (c *CompanyServiceImpl) GetByID(ctx context.Context, id string) (company.CompanyResponse, error) {
	comp, err := c.companyRepo.GetByID(ctx, id)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	return company.NewCompanyResponse(comp), nil
}

func (c *CompanyServiceImpl) Update(ctx context.Context, id string, req company.UpdateCompanyRequest) (company.CompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}

	updated, err := c.companyRepo.Update(ctx, id, req)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	return company.NewCompanyResponse(updated), nil
}

// SetActive enables or disables a company. Users of a disabled company
// cannot log in and no pay run can be generated for it.
func (c *CompanyServiceImpl) SetActive(ctx context.Context, id string, active bool) (company.CompanyResponse, error) {
	updated, err := c.companyRepo.SetActive(ctx, id, active)
	if err != nil {
		return company.CompanyResponse{}, err
	}

	slog.InfoContext(ctx, "Company status changed", "company_id", id, "is_active", active)
	return company.NewCompanyResponse(updated), nil
}

func (c *CompanyServiceImpl) Delete(ctx context.Context, id string) error {
	err := c.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := c.companyRepo.GetByID(ctx, id); err != nil {
			return err
		}

		count, err := c.employeeRepo.CountByCompanyID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to count employees: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: %d employees", company.ErrCompanyHasEmployees, count)
		}

		return c.companyRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Company deleted", "company_id", id)
	return nil
}

func (c *CompanyServiceImpl) UploadLogo(ctx context.Context, req company.UploadCompanyLogoRequest) (company.UploadCompanyLogoResponse, error) {
	if req.Size > company.MaxLogoSize {
		return company.UploadCompanyLogoResponse{}, company.ErrLogoTooLarge
	}

	if _, err := c.companyRepo.GetByID(ctx, req.CompanyID); err != nil {
		return company.UploadCompanyLogoResponse{}, err
	}

	logo, err := readLogo(req.File)
	if err != nil {
		return company.UploadCompanyLogoResponse{}, err
	}

	key := path.Join("logos", req.CompanyID, utils.NewID()+logo.ext)
	storedKey, err := c.storage.Upload(ctx, bytes.NewReader(logo.data), key, logo.contentType)
	if err != nil {
		return company.UploadCompanyLogoResponse{}, fmt.Errorf("failed to upload company logo: %w", err)
	}

	logoURL := c.storage.URL(storedKey)
	if err := c.companyRepo.UpdateLogo(ctx, req.CompanyID, logoURL); err != nil {
		if delErr := c.storage.Delete(ctx, storedKey); delErr != nil {
			slog.ErrorContext(ctx, "Failed to remove orphaned logo", "key", storedKey, "error", delErr)
		}
		return company.UploadCompanyLogoResponse{}, err
	}

	slog.InfoContext(ctx, "Company logo updated", "company_id", req.CompanyID, "bytes", len(logo.data))
	return company.UploadCompanyLogoResponse{LogoURL: logoURL}, nil
}
