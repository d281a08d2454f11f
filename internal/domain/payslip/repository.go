package payslip

import (
	"context"

	"github.com/shopspring/decimal"
)

type PayslipRepository interface {
	Create(ctx context.Context, p Payslip) (Payslip, error)
	CreateDeductions(ctx context.Context, deductions []Deduction) error
	GetByID(ctx context.Context, id string, companyID string) (Payslip, error)
	// GetByIDForUpdate locks the payslip row until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id string, companyID string) (Payslip, error)
	List(ctx context.Context, filter PayslipFilter, companyID string) ([]Payslip, int64, error)
	ListByPayRun(ctx context.Context, payRunID string, companyID string) ([]Payslip, error)
	ListDeductions(ctx context.Context, payslipID string) ([]Deduction, error)
	ReleaseArchived(ctx context.Context, payRunID string, companyID string) (int64, error)
	ApplyPayment(ctx context.Context, id string, companyID string, amountPaid decimal.Decimal, status Status) error
	UpdateStatus(ctx context.Context, id string, companyID string, status Status) error
	CountByStatus(ctx context.Context, companyID string) (map[Status]int64, error)
}
