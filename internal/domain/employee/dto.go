package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/validator"
)

type EmployeeResponse struct {
	ID           string           `json:"id"`
	CompanyID    string           `json:"companyId"`
	EmployeeCode string           `json:"employeeCode"`
	FirstName    string           `json:"firstName"`
	LastName     string           `json:"lastName"`
	Email        *string          `json:"email,omitempty"`
	Phone        *string          `json:"phone,omitempty"`
	Position     *string          `json:"position,omitempty"`
	ContractType ContractType     `json:"contractType"`
	DailyRate    *decimal.Decimal `json:"dailyRate,omitempty"`
	FixedSalary  *decimal.Decimal `json:"fixedSalary,omitempty"`
	HourlyRate   *decimal.Decimal `json:"hourlyRate,omitempty"`
	HireDate     string           `json:"hireDate"`
	IsActive     bool             `json:"isActive"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		CompanyID:    e.CompanyID,
		EmployeeCode: e.EmployeeCode,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Email:        e.Email,
		Phone:        e.Phone,
		Position:     e.Position,
		ContractType: e.ContractType,
		DailyRate:    e.DailyRate,
		FixedSalary:  e.FixedSalary,
		HourlyRate:   e.HourlyRate,
		HireDate:     e.HireDate.Format(time.DateOnly),
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

type CreateEmployeeRequest struct {
	EmployeeCode string           `json:"employeeCode" validate:"required,max=50"`
	FirstName    string           `json:"firstName" validate:"required,max=100"`
	LastName     string           `json:"lastName" validate:"required,max=100"`
	Email        *string          `json:"email,omitempty" validate:"omitempty,email"`
	Phone        *string          `json:"phone,omitempty" validate:"omitempty,max=30"`
	Position     *string          `json:"position,omitempty" validate:"omitempty,max=100"`
	ContractType ContractType     `json:"contractType" validate:"required,oneof=DAILY FIXED HONORARIUM"`
	DailyRate    *decimal.Decimal `json:"dailyRate,omitempty"`
	FixedSalary  *decimal.Decimal `json:"fixedSalary,omitempty"`
	HourlyRate   *decimal.Decimal `json:"hourlyRate,omitempty"`
	HireDate     string           `json:"hireDate" validate:"required,date"`
}

func (r *CreateEmployeeRequest) Validate() error {
	r.EmployeeCode = strings.TrimSpace(r.EmployeeCode)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)

	errs := validator.Struct(r)
	validateRate(&errs, "dailyRate", r.DailyRate)
	validateRate(&errs, "fixedSalary", r.FixedSalary)
	validateRate(&errs, "hourlyRate", r.HourlyRate)
	return errs.Err()
}

type UpdateEmployeeRequest struct {
	FirstName    *string          `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName     *string          `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Email        *string          `json:"email,omitempty" validate:"omitempty,email"`
	Phone        *string          `json:"phone,omitempty" validate:"omitempty,max=30"`
	Position     *string          `json:"position,omitempty" validate:"omitempty,max=100"`
	ContractType *ContractType    `json:"contractType,omitempty" validate:"omitempty,oneof=DAILY FIXED HONORARIUM"`
	DailyRate    *decimal.Decimal `json:"dailyRate,omitempty"`
	FixedSalary  *decimal.Decimal `json:"fixedSalary,omitempty"`
	HourlyRate   *decimal.Decimal `json:"hourlyRate,omitempty"`
	HireDate     *string          `json:"hireDate,omitempty" validate:"omitempty,date"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	errs := validator.Struct(r)
	validateRate(&errs, "dailyRate", r.DailyRate)
	validateRate(&errs, "fixedSalary", r.FixedSalary)
	validateRate(&errs, "hourlyRate", r.HourlyRate)
	return errs.Err()
}

func validateRate(errs *validator.ValidationErrors, field string, rate *decimal.Decimal) {
	if rate == nil {
		return
	}
	if rate.IsNegative() {
		errs.Add(field, field+" must not be negative")
	} else if !validator.HasMaxTwoDecimals(*rate) {
		errs.Add(field, field+" must have at most 2 decimal places")
	}
}

type SetActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

func (r *SetActiveRequest) Validate() error {
	return validator.Struct(r).Err()
}

type EmployeeFilter struct {
	Search       *string
	ContractType *string
	IsActive     *bool
	Page         int
	Limit        int
	SortBy       string
	SortOrder    string
}
