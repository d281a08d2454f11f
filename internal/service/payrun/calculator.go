package payrun

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/employee"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payslip"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/schedule"
)

// Rules are the company-wide payroll constants.
type Rules struct {
	TaxRate         decimal.Decimal
	SocialRate      decimal.Decimal
	HonorariumHours decimal.Decimal
}

type Input struct {
	Employee    employee.Employee
	PeriodStart time.Time
	PeriodEnd   time.Time
	Week        schedule.Week
	// AttendanceHours replaces the reference hours for HONORARIUM contracts
	// when set and positive.
	AttendanceHours *decimal.Decimal
}

type Result struct {
	Gross           decimal.Decimal
	TotalDeductions decimal.Decimal
	Net             decimal.Decimal
	DaysWorked      *int
	HoursWorked     *decimal.Decimal
	Deductions      []payslip.Deduction
}

// Calculator computes payslip amounts. It has no side effects.
type Calculator struct {
	rules Rules
}

func NewCalculator(rules Rules) Calculator {
	return Calculator{rules: rules}
}

func (c Calculator) Calculate(in Input) (Result, error) {
	emp := in.Employee
	rate := emp.Rate()
	if rate == nil || !rate.IsPositive() {
		return Result{}, fmt.Errorf("%w: employee %s (%s)", payslip.ErrMissingRate, emp.EmployeeCode, emp.ContractType)
	}

	var res Result
	switch emp.ContractType {
	case employee.ContractDaily:
		days := in.Week.CountWorkingDays(in.PeriodStart, in.PeriodEnd)
		res.DaysWorked = &days
		res.Gross = rate.Mul(decimal.NewFromInt(int64(days)))
	case employee.ContractFixed:
		res.Gross = *rate
	case employee.ContractHonorarium:
		hours := c.rules.HonorariumHours
		if in.AttendanceHours != nil && in.AttendanceHours.IsPositive() {
			hours = *in.AttendanceHours
		}
		hours = hours.Round(2)
		res.HoursWorked = &hours
		res.Gross = rate.Mul(hours)
	default:
		return Result{}, fmt.Errorf("%w: employee %s has unknown contract type %q", payslip.ErrMissingRate, emp.EmployeeCode, emp.ContractType)
	}
	res.Gross = res.Gross.Round(2)

	tax := res.Gross.Mul(c.rules.TaxRate).Round(2)
	social := res.Gross.Mul(c.rules.SocialRate).Round(2)
	res.Deductions = []payslip.Deduction{
		{Type: payslip.DeductionTax, Description: "Income tax", Rate: c.rules.TaxRate, Amount: tax},
		{Type: payslip.DeductionSocial, Description: "Social security contribution", Rate: c.rules.SocialRate, Amount: social},
	}
	res.TotalDeductions = tax.Add(social)
	res.Net = res.Gross.Sub(res.TotalDeductions)

	return res, nil
}
