package payrun

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PayRunRepository interface {
	Create(ctx context.Context, p PayRun) (PayRun, error)
	GetByID(ctx context.Context, id string, companyID string) (PayRun, error)
	// GetByIDForUpdate locks the pay run row until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id string, companyID string) (PayRun, error)
	List(ctx context.Context, filter PayRunFilter, companyID string) ([]PayRun, int64, error)
	UpdateTotals(ctx context.Context, id string, totalGross, totalNet decimal.Decimal, payslipCount int) (PayRun, error)
	MarkApproved(ctx context.Context, id string, companyID string, approvedByID string, at time.Time) (PayRun, error)
	MarkClosed(ctx context.Context, id string, companyID string, at time.Time) (PayRun, error)
	Delete(ctx context.Context, id string, companyID string) error
}
