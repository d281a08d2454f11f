package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type ContractType string

const (
	ContractDaily      ContractType = "DAILY"
	ContractFixed      ContractType = "FIXED"
	ContractHonorarium ContractType = "HONORARIUM"
)

func (c ContractType) IsValid() bool {
	switch c {
	case ContractDaily, ContractFixed, ContractHonorarium:
		return true
	}
	return false
}

// Employee belongs to exactly one company. Only the rate matching
// ContractType is meaningful: DailyRate for DAILY, FixedSalary for FIXED,
// HourlyRate for HONORARIUM.
type Employee struct {
	ID           string
	CompanyID    string
	EmployeeCode string
	FirstName    string
	LastName     string
	Email        *string
	Phone        *string
	Position     *string
	ContractType ContractType
	DailyRate    *decimal.Decimal
	FixedSalary  *decimal.Decimal
	HourlyRate   *decimal.Decimal
	HireDate     time.Time
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// Rate returns the rate field required by the contract type, or nil.
func (e *Employee) Rate() *decimal.Decimal {
	switch e.ContractType {
	case ContractDaily:
		return e.DailyRate
	case ContractFixed:
		return e.FixedSalary
	case ContractHonorarium:
		return e.HourlyRate
	}
	return nil
}
