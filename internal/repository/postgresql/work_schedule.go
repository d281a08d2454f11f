package postgresql

import (
	"context"
	"fmt"

	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/schedule"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/database"
)

type workScheduleRepositoryImpl struct {
	db database.Querier
}

func NewWorkScheduleRepository(db database.Querier) schedule.WorkScheduleRepository {
	return &workScheduleRepositoryImpl{db: db}
}

// GetByCompanyID implements schedule.WorkScheduleRepository. An empty slice
// means the company never configured its week.
func (w *workScheduleRepositoryImpl) GetByCompanyID(ctx context.Context, companyID string) ([]schedule.WorkScheduleDay, error) {
	q := GetQuerier(ctx, w.db)

	rows, err := q.Query(ctx, `
		SELECT company_id, day_of_week, start_time, end_time, is_working_day, updated_at
		FROM work_schedules
		WHERE company_id = $1
		ORDER BY day_of_week`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get work schedule: %w", err)
	}
	defer rows.Close()

	var days []schedule.WorkScheduleDay
	for rows.Next() {
		var (
			d   schedule.WorkScheduleDay
			dow int16
		)
		if err := rows.Scan(&d.CompanyID, &dow, &d.StartTime, &d.EndTime, &d.IsWorkingDay, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan work schedule day: %w", err)
		}
		d.DayOfWeek = int(dow)
		days = append(days, d)
	}
	return days, rows.Err()
}

// ReplaceForCompany implements schedule.WorkScheduleRepository. Callers run
// it inside a transaction so readers never see a partial week.
func (w *workScheduleRepositoryImpl) ReplaceForCompany(ctx context.Context, companyID string, days []schedule.WorkScheduleDay) error {
	q := GetQuerier(ctx, w.db)

	if _, err := q.Exec(ctx, `DELETE FROM work_schedules WHERE company_id = $1`, companyID); err != nil {
		return fmt.Errorf("failed to clear work schedule: %w", err)
	}
	if len(days) == 0 {
		return nil
	}

	values := make([]string, 0, len(days))
	args := make([]any, 0, len(days)*5)
	for _, d := range days {
		n := len(args)
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5))
		args = append(args, companyID, d.DayOfWeek, d.StartTime, d.EndTime, d.IsWorkingDay)
	}

	query := "INSERT INTO work_schedules (company_id, day_of_week, start_time, end_time, is_working_day) VALUES " + joinComma(values)
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert work schedule: %w", err)
	}
	return nil
}
