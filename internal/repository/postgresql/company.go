package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/company"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/database"
)

const companyColumns = `id, name, address, currency, pay_period_type, is_active, logo_url, theme_color, created_at, updated_at`

type companyRepositoryImpl struct {
	db database.Querier
}

func NewCompanyRepository(db database.Querier) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

func scanCompany(row rowScanner) (company.Company, error) {
	var (
		c          company.Company
		address    sql.NullString
		logoURL    sql.NullString
		themeColor sql.NullString
		period     string
	)
	if err := row.Scan(&c.ID, &c.Name, &address, &c.Currency, &period, &c.IsActive, &logoURL, &themeColor, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, err
	}
	c.Address = stringPtr(address)
	c.LogoURL = stringPtr(logoURL)
	c.ThemeColor = stringPtr(themeColor)
	c.PayPeriodType = company.PayPeriodType(period)
	return c, nil
}

// Create implements company.CompanyRepository.
func (c *companyRepositoryImpl) Create(ctx context.Context, newCompany company.Company) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		INSERT INTO companies (id, name, address, currency, pay_period_type, is_active, theme_color)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + companyColumns

	created, err := scanCompany(q.QueryRow(ctx, query,
		newCompany.ID, newCompany.Name, newCompany.Address, newCompany.Currency,
		string(newCompany.PayPeriodType), newCompany.IsActive, newCompany.ThemeColor,
	))
	if err != nil {
		return company.Company{}, fmt.Errorf("failed to create company: %w", err)
	}
	return created, nil
}

// GetByID implements company.CompanyRepository.
func (c *companyRepositoryImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	q := GetQuerier(ctx, c.db)
	return scanCompany(q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
}

// List implements company.CompanyRepository.
func (c *companyRepositoryImpl) List(ctx context.Context, filter company.CompanyFilter) ([]company.Company, int64, error) {
	q := GetQuerier(ctx, c.db)

	f := &filterBuilder{}
	if filter.Search != nil && *filter.Search != "" {
		f.add("name ILIKE $%d", "%"+*filter.Search+"%")
	}
	if filter.IsActive != nil {
		f.add("is_active = $%d", *filter.IsActive)
	}
	where := f.where()

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM companies WHERE "+where, f.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count companies: %w", err)
	}

	order := orderBy(filter.SortBy, filter.SortOrder, map[string]string{
		"name":      "name",
		"createdAt": "created_at",
	}, "created_at")
	limit, args := f.page(filter.Page, filter.Limit)

	rows, err := q.Query(ctx, fmt.Sprintf("SELECT %s FROM companies WHERE %s %s %s", companyColumns, where, order, limit), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []company.Company
	for rows.Next() {
		found, err := scanCompany(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, found)
	}
	return companies, total, rows.Err()
}

// Update implements company.CompanyRepository.
func (c *companyRepositoryImpl) Update(ctx context.Context, id string, req company.UpdateCompanyRequest) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	setClauses := []string{}
	args := []any{}
	set := func(column string, value any) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.Address != nil {
		set("address", *req.Address)
	}
	if req.Currency != nil {
		set("currency", *req.Currency)
	}
	if req.PayPeriodType != nil {
		set("pay_period_type", string(*req.PayPeriodType))
	}
	if req.ThemeColor != nil {
		set("theme_color", *req.ThemeColor)
	}
	if len(setClauses) == 0 {
		return c.GetByID(ctx, id)
	}
	set("updated_at", time.Now())

	args = append(args, id)
	query := fmt.Sprintf("UPDATE companies SET %s WHERE id = $%d RETURNING %s", joinComma(setClauses), len(args), companyColumns)

	updated, err := scanCompany(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, company.ErrCompanyNotFound) {
			return company.Company{}, err
		}
		return company.Company{}, fmt.Errorf("failed to update company with id %s: %w", id, err)
	}
	return updated, nil
}

// SetActive implements company.CompanyRepository.
func (c *companyRepositoryImpl) SetActive(ctx context.Context, id string, active bool) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	query := `UPDATE companies SET is_active = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + companyColumns
	return scanCompany(q.QueryRow(ctx, query, active, id))
}

// UpdateLogo implements company.CompanyRepository.
func (c *companyRepositoryImpl) UpdateLogo(ctx context.Context, id string, logoURL string) error {
	q := GetQuerier(ctx, c.db)

	tag, err := q.Exec(ctx, `UPDATE companies SET logo_url = $1, updated_at = NOW() WHERE id = $2`, logoURL, id)
	if err != nil {
		return fmt.Errorf("failed to update company logo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}

// Delete implements company.CompanyRepository. Employees reference their
// company with ON DELETE RESTRICT.
func (c *companyRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, c.db)

	tag, err := q.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		if pgErrorCode(err) == foreignKeyViolationCode {
			return company.ErrCompanyHasEmployees
		}
		return fmt.Errorf("failed to delete company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}
