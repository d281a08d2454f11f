package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/employee"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/database"
)

const employeeColumns = `id, company_id, employee_code, first_name, last_name, email, phone, position,
	contract_type, daily_rate, fixed_salary, hourly_rate, hire_date, is_active, created_at, updated_at`

const employeeCodeConstraint = "uq_employees_company_code"

type employeeRepositoryImpl struct {
	db database.Querier
}

func NewEmployeeRepository(db database.Querier) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row rowScanner) (employee.Employee, error) {
	var (
		e                            employee.Employee
		email, phone, position       sql.NullString
		contractType                 string
		dailyRate, fixedSalary, rate decimal.NullDecimal
	)
	if err := row.Scan(
		&e.ID, &e.CompanyID, &e.EmployeeCode, &e.FirstName, &e.LastName, &email, &phone, &position,
		&contractType, &dailyRate, &fixedSalary, &rate, &e.HireDate, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	e.Email = stringPtr(email)
	e.Phone = stringPtr(phone)
	e.Position = stringPtr(position)
	e.ContractType = employee.ContractType(contractType)
	e.DailyRate = decimalPtr(dailyRate)
	e.FixedSalary = decimalPtr(fixedSalary)
	e.HourlyRate = decimalPtr(rate)
	e.HireDate = dateOnly(e.HireDate)
	return e, nil
}

func translateEmployeeError(err error) error {
	switch {
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return err
	case isUniqueViolation(err, employeeCodeConstraint):
		return employee.ErrEmployeeCodeExists
	case pgErrorCode(err) == foreignKeyViolationCode:
		return employee.ErrEmployeeHasRecords
	}
	return err
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			id, company_id, employee_code, first_name, last_name, email, phone, position,
			contract_type, daily_rate, fixed_salary, hourly_rate, hire_date, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.CompanyID, newEmployee.EmployeeCode, newEmployee.FirstName, newEmployee.LastName,
		newEmployee.Email, newEmployee.Phone, newEmployee.Position, string(newEmployee.ContractType),
		newEmployee.DailyRate, newEmployee.FixedSalary, newEmployee.HourlyRate, newEmployee.HireDate, newEmployee.IsActive,
	))
	if err != nil {
		if translated := translateEmployeeError(err); translated != err {
			return employee.Employee{}, translated
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	return scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1 AND company_id = $2`, id, companyID))
}

// GetActiveByCompanyID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+employeeColumns+`
		FROM employees
		WHERE company_id = $1 AND is_active = TRUE
		ORDER BY employee_code`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active employees: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter, companyID string) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	f := newFilter("company_id", companyID)
	if filter.Search != nil && *filter.Search != "" {
		f.add("(first_name ILIKE $%d OR last_name ILIKE $%d OR employee_code ILIKE $%d)", "%"+*filter.Search+"%")
	}
	f.addString("contract_type = $%d", filter.ContractType)
	if filter.IsActive != nil {
		f.add("is_active = $%d", *filter.IsActive)
	}
	where := f.where()

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM employees WHERE "+where, f.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	order := orderBy(filter.SortBy, filter.SortOrder, map[string]string{
		"employeeCode": "employee_code",
		"lastName":     "last_name",
		"hireDate":     "hire_date",
		"createdAt":    "created_at",
	}, "created_at")
	limit, args := f.page(filter.Page, filter.Limit)

	rows, err := q.Query(ctx, fmt.Sprintf("SELECT %s FROM employees WHERE %s %s %s", employeeColumns, where, order, limit), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees, err := collectEmployees(rows)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, id string, companyID string, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	setClauses := []string{}
	args := []any{}
	set := func(column string, value any) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.FirstName != nil {
		set("first_name", *req.FirstName)
	}
	if req.LastName != nil {
		set("last_name", *req.LastName)
	}
	if req.Email != nil {
		set("email", *req.Email)
	}
	if req.Phone != nil {
		set("phone", *req.Phone)
	}
	if req.Position != nil {
		set("position", *req.Position)
	}
	if req.ContractType != nil {
		set("contract_type", string(*req.ContractType))
	}
	if req.DailyRate != nil {
		set("daily_rate", *req.DailyRate)
	}
	if req.FixedSalary != nil {
		set("fixed_salary", *req.FixedSalary)
	}
	if req.HourlyRate != nil {
		set("hourly_rate", *req.HourlyRate)
	}
	if req.HireDate != nil {
		set("hire_date", *req.HireDate)
	}
	if len(setClauses) == 0 {
		return r.GetByID(ctx, id, companyID)
	}
	set("updated_at", time.Now())

	args = append(args, id, companyID)
	query := fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d AND company_id = $%d RETURNING %s",
		joinComma(setClauses), len(args)-1, len(args), employeeColumns)

	updated, err := scanEmployee(q.QueryRow(ctx, query, args...))
	if err != nil {
		if translated := translateEmployeeError(err); translated != err {
			return employee.Employee{}, translated
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee with id %s: %w", id, err)
	}
	return updated, nil
}

// SetActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SetActive(ctx context.Context, id string, companyID string, active bool) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE employees SET is_active = $1, updated_at = NOW() WHERE id = $2 AND company_id = $3 RETURNING ` + employeeColumns
	return scanEmployee(q.QueryRow(ctx, query, active, id, companyID))
}

// Delete implements employee.EmployeeRepository. Employees with attendance
// or payslips are kept; deactivate them instead.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		if translated := translateEmployeeError(err); translated != err {
			return translated
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// CountByCompanyID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) CountByCompanyID(ctx context.Context, companyID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE company_id = $1`, companyID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return count, nil
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
