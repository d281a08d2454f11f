package schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/company"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/schedule"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/database"
)

type WorkScheduleServiceImpl struct {
	tx           database.Transactor
	scheduleRepo schedule.WorkScheduleRepository
	companyRepo  company.CompanyRepository
}

func NewWorkScheduleService(tx database.Transactor, scheduleRepo schedule.WorkScheduleRepository, companyRepo company.CompanyRepository) schedule.WorkScheduleService {
	return &WorkScheduleServiceImpl{
		tx:           tx,
		scheduleRepo: scheduleRepo,
		companyRepo:  companyRepo,
	}
}

// Get returns all seven days, falling back to the default week when the
// company has not configured one.
func (s *WorkScheduleServiceImpl) Get(ctx context.Context, companyID string) (schedule.WorkScheduleResponse, error) {
	week, err := s.Week(ctx, companyID)
	if err != nil {
		return schedule.WorkScheduleResponse{}, err
	}
	return schedule.NewWorkScheduleResponse(companyID, week), nil
}

func (s *WorkScheduleServiceImpl) Replace(ctx context.Context, companyID string, req schedule.ReplaceWorkScheduleRequest) (schedule.WorkScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	days := req.ToDays(companyID)
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.companyRepo.GetByID(ctx, companyID); err != nil {
			return err
		}
		if err := s.scheduleRepo.ReplaceForCompany(ctx, companyID, days); err != nil {
			return fmt.Errorf("failed to replace work schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	week := schedule.NewWeek(companyID, days)
	resp := schedule.NewWorkScheduleResponse(companyID, week)
	slog.InfoContext(ctx, "Work schedule replaced", "company_id", companyID, "working_days", resp.WorkingDaysWeek)
	return resp, nil
}

func (s *WorkScheduleServiceImpl) Week(ctx context.Context, companyID string) (schedule.Week, error) {
	if _, err := s.companyRepo.GetByID(ctx, companyID); err != nil {
		return schedule.Week{}, err
	}
	days, err := s.scheduleRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		return schedule.Week{}, fmt.Errorf("failed to get work schedule: %w", err)
	}
	return schedule.NewWeek(companyID, days), nil
}
