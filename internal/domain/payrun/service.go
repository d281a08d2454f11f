package payrun

import "context"

type PayRunService interface {
	Create(ctx context.Context, companyID string, actorID string, req CreatePayRunRequest) (PayRunResponse, error)
	Approve(ctx context.Context, companyID string, id string, actorID string) (PayRunResponse, error)
	UpdateStatus(ctx context.Context, companyID string, id string, actorID string, req UpdateStatusRequest) (PayRunResponse, error)
	GetByID(ctx context.Context, companyID string, id string) (PayRunResponse, error)
	List(ctx context.Context, companyID string, filter PayRunFilter) ([]PayRunResponse, int64, error)
	Delete(ctx context.Context, companyID string, id string) error
}
