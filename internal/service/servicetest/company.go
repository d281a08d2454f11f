package servicetest

import (
	"context"

	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/company"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/schedule"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/user"
)

type CompanyRepo struct{ *Store }

var _ company.CompanyRepository = CompanyRepo{}

func (r CompanyRepo) GetByID(ctx context.Context, id string) (company.Company, error) {
	unlock, err := r.begin("Company.GetByID")
	defer unlock()
	if err != nil {
		return company.Company{}, err
	}
	c, ok := r.Companies[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return c, nil
}

func (r CompanyRepo) List(ctx context.Context, filter company.CompanyFilter) ([]company.Company, int64, error) {
	unlock, err := r.begin("Company.List")
	defer unlock()
	if err != nil {
		return nil, 0, err
	}
	var out []company.Company
	for _, c := range r.Companies {
		if filter.IsActive != nil && c.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r CompanyRepo) Create(ctx context.Context, c company.Company) (company.Company, error) {
	unlock, err := r.begin("Company.Create")
	defer unlock()
	if err != nil {
		return company.Company{}, err
	}
	c.CreatedAt = r.Now()
	c.UpdatedAt = c.CreatedAt
	r.Companies[c.ID] = c
	r.wrote()
	return c, nil
}

func (r CompanyRepo) Update(ctx context.Context, id string, req company.UpdateCompanyRequest) (company.Company, error) {
	unlock, err := r.begin("Company.Update")
	defer unlock()
	if err != nil {
		return company.Company{}, err
	}
	c, ok := r.Companies[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Address != nil {
		c.Address = req.Address
	}
	if req.Currency != nil {
		c.Currency = *req.Currency
	}
	if req.PayPeriodType != nil {
		c.PayPeriodType = *req.PayPeriodType
	}
	if req.ThemeColor != nil {
		c.ThemeColor = req.ThemeColor
	}
	c.UpdatedAt = r.Now()
	r.Companies[id] = c
	r.wrote()
	return c, nil
}

func (r CompanyRepo) SetActive(ctx context.Context, id string, active bool) (company.Company, error) {
	unlock, err := r.begin("Company.SetActive")
	defer unlock()
	if err != nil {
		return company.Company{}, err
	}
	c, ok := r.Companies[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	c.IsActive = active
	r.Companies[id] = c
	r.wrote()
	return c, nil
}

func (r CompanyRepo) UpdateLogo(ctx context.Context, id string, logoURL string) error {
	unlock, err := r.begin("Company.UpdateLogo")
	defer unlock()
	if err != nil {
		return err
	}
	c, ok := r.Companies[id]
	if !ok {
		return company.ErrCompanyNotFound
	}
	c.LogoURL = &logoURL
	r.Companies[id] = c
	r.wrote()
	return nil
}

func (r CompanyRepo) Delete(ctx context.Context, id string) error {
	unlock, err := r.begin("Company.Delete")
	defer unlock()
	if err != nil {
		return err
	}
	if _, ok := r.Companies[id]; !ok {
		return company.ErrCompanyNotFound
	}
	delete(r.Companies, id)
	delete(r.Schedules, id)
	r.wrote()
	return nil
}

type ScheduleRepo struct{ *Store }

var _ schedule.WorkScheduleRepository = ScheduleRepo{}

func (r ScheduleRepo) GetByCompanyID(ctx context.Context, companyID string) ([]schedule.WorkScheduleDay, error) {
	unlock, err := r.begin("Schedule.GetByCompanyID")
	defer unlock()
	if err != nil {
		return nil, err
	}
	return append([]schedule.WorkScheduleDay(nil), r.Schedules[companyID]...), nil
}

func (r ScheduleRepo) ReplaceForCompany(ctx context.Context, companyID string, days []schedule.WorkScheduleDay) error {
	unlock, err := r.begin("Schedule.ReplaceForCompany")
	defer unlock()
	if err != nil {
		return err
	}
	r.Schedules[companyID] = append([]schedule.WorkScheduleDay(nil), days...)
	r.wrote()
	return nil
}

type UserRepo struct{ *Store }

var _ user.UserRepository = UserRepo{}

func (r UserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	unlock, err := r.begin("User.GetByEmail")
	defer unlock()
	if err != nil {
		return user.User{}, err
	}
	for _, u := range r.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r UserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	unlock, err := r.begin("User.GetByID")
	defer unlock()
	if err != nil {
		return user.User{}, err
	}
	u, ok := r.Users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r UserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	unlock, err := r.begin("User.Create")
	defer unlock()
	if err != nil {
		return user.User{}, err
	}
	for _, existing := range r.Users {
		if existing.Email == u.Email {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	u.CreatedAt = r.Now()
	u.UpdatedAt = u.CreatedAt
	r.Users[u.ID] = u
	r.wrote()
	return u, nil
}

func (r UserRepo) ListByCompany(ctx context.Context, companyID string) ([]user.User, error) {
	unlock, err := r.begin("User.ListByCompany")
	defer unlock()
	if err != nil {
		return nil, err
	}
	var out []user.User
	for _, u := range r.Users {
		if u.CompanyID != nil && *u.CompanyID == companyID {
			out = append(out, u)
		}
	}
	return out, nil
}
