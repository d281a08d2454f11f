package payslip

import "context"

type PayslipService interface {
	List(ctx context.Context, companyID string, filter PayslipFilter) ([]PayslipResponse, int64, error)
	GetByID(ctx context.Context, companyID string, id string) (PayslipResponse, error)
	UpdateStatus(ctx context.Context, companyID string, id string, req UpdateStatusRequest) (PayslipResponse, error)
	Download(ctx context.Context, companyID string, id string) (Document, error)
}
