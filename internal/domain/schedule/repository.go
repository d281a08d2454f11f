package schedule

import "context"

type WorkScheduleRepository interface {
	GetByCompanyID(ctx context.Context, companyID string) ([]WorkScheduleDay, error)
	ReplaceForCompany(ctx context.Context, companyID string, days []WorkScheduleDay) error
}
