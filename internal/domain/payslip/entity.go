package payslip

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusArchived Status = "ARCHIVED" // generated, held until the pay run is approved
	StatusPending  Status = "PENDING"
	StatusPartial  Status = "PARTIAL"
	StatusPaid     Status = "PAID"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusArchived, StatusPending, StatusPartial, StatusPaid:
		return true
	}
	return false
}

type DeductionType string

const (
	DeductionTax    DeductionType = "TAX"
	DeductionSocial DeductionType = "SOCIAL"
)

type Payslip struct {
	ID              string
	CompanyID       string
	PayRunID        string
	EmployeeID      string
	PayslipNumber   string
	GrossAmount     decimal.Decimal
	TotalDeductions decimal.Decimal
	NetAmount       decimal.Decimal
	AmountPaid      decimal.Decimal
	DaysWorked      *int
	HoursWorked     *decimal.Decimal
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO / Join
	EmployeeCode      string
	EmployeeFirstName string
	EmployeeLastName  string
	PayRunTitle       string
	PayRunStatus      string
	PeriodStart       time.Time
	PeriodEnd         time.Time
	Deductions        []Deduction
}

// Remaining is what is still owed on the payslip.
func (p *Payslip) Remaining() decimal.Decimal {
	return p.NetAmount.Sub(p.AmountPaid)
}

// Deduction rows are written once with their payslip and never updated.
type Deduction struct {
	ID          string
	PayslipID   string
	Type        DeductionType
	Description string
	Rate        decimal.Decimal
	Amount      decimal.Decimal
	CreatedAt   time.Time
}

// DeriveStatus maps the amount paid against the net amount to a payment
// status.
func DeriveStatus(amountPaid, netAmount decimal.Decimal) Status {
	switch {
	case amountPaid.GreaterThanOrEqual(netAmount):
		return StatusPaid
	case amountPaid.IsPositive():
		return StatusPartial
	default:
		return StatusPending
	}
}
