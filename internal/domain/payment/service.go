package payment

import "context"

type PaymentService interface {
	Record(ctx context.Context, companyID string, actorID string, req RecordPaymentRequest) (RecordPaymentResponse, error)
	GetByID(ctx context.Context, companyID string, id string) (PaymentResponse, error)
	List(ctx context.Context, companyID string, filter PaymentFilter) ([]PaymentResponse, int64, error)
	ListByPayslip(ctx context.Context, companyID string, payslipID string) ([]PaymentResponse, error)
	Stats(ctx context.Context, companyID string, filter StatsFilter) (StatsResponse, error)
}
