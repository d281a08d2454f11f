package employee

import (
	"context"
	"log/slog"
	"time"

	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/company"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/employee"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/utils"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	companyRepo  company.CompanyRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, companyRepo company.CompanyRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		companyRepo:  companyRepo,
	}
}

// Create adds an employee. A missing rate for the contract type is accepted
// here and reported when a pay run is generated.
func (s *EmployeeServiceImpl) Create(ctx context.Context, companyID string, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if _, err := s.companyRepo.GetByID(ctx, companyID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	hireDate, _ := time.Parse(time.DateOnly, req.HireDate)
	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		ID:           utils.NewID(),
		CompanyID:    companyID,
		EmployeeCode: req.EmployeeCode,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Position:     req.Position,
		ContractType: req.ContractType,
		DailyRate:    req.DailyRate,
		FixedSalary:  req.FixedSalary,
		HourlyRate:   req.HourlyRate,
		HireDate:     hireDate,
		IsActive:     true,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.InfoContext(ctx, "Employee created", "company_id", companyID, "employee_id", created.ID, "contract_type", created.ContractType)
	return employee.NewEmployeeResponse(created), nil
}

func (s *EmployeeServiceImpl) GetByID(ctx context.Context, companyID string, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp), nil
}

func (s *EmployeeServiceImpl) List(ctx context.Context, companyID string, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, int64, error) {
	employees, total, err := s.employeeRepo.List(ctx, filter, companyID)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.NewEmployeeResponse(e))
	}
	return responses, total, nil
}

func (s *EmployeeServiceImpl) Update(ctx context.Context, companyID string, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	updated, err := s.employeeRepo.Update(ctx, id, companyID, req)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(updated), nil
}

// SetActive toggles whether the employee takes part in future pay runs and
// attendance. Existing payslips are unaffected.
func (s *EmployeeServiceImpl) SetActive(ctx context.Context, companyID string, id string, active bool) (employee.EmployeeResponse, error) {
	updated, err := s.employeeRepo.SetActive(ctx, id, companyID, active)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.InfoContext(ctx, "Employee status changed", "company_id", companyID, "employee_id", id, "is_active", active)
	return employee.NewEmployeeResponse(updated), nil
}

func (s *EmployeeServiceImpl) Delete(ctx context.Context, companyID string, id string) error {
	if err := s.employeeRepo.Delete(ctx, id, companyID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Employee deleted", "company_id", companyID, "employee_id", id)
	return nil
}
