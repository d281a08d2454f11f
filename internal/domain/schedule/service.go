package schedule

import "context"

type WorkScheduleService interface {
	Get(ctx context.Context, companyID string) (WorkScheduleResponse, error)
	Replace(ctx context.Context, companyID string, req ReplaceWorkScheduleRequest) (WorkScheduleResponse, error)
	Week(ctx context.Context, companyID string) (Week, error)
}
