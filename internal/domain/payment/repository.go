package payment

import (
	"context"
	"time"
)

type PaymentRepository interface {
	Create(ctx context.Context, p Payment) (Payment, error)
	GetByID(ctx context.Context, id string, companyID string) (Payment, error)
	List(ctx context.Context, filter PaymentFilter, companyID string) ([]Payment, int64, error)
	ListByPayslip(ctx context.Context, payslipID string, companyID string) ([]Payment, error)
	Stats(ctx context.Context, companyID string, from, to *time.Time) (Stats, error)
}
