package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/attendance"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/employee"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/schedule"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/database"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/utils"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	tx             database.Transactor
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	scheduleRepo   schedule.WorkScheduleRepository
	rules          Rules
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	scheduleRepo schedule.WorkScheduleRepository,
	rules Rules,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:             tx,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		scheduleRepo:   scheduleRepo,
		rules:          rules,
	}
}

func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, companyID string, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	week, err := a.prepare(ctx, companyID, req.EmployeeID, req.Time)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	scheduledStart, err := week.ScheduledStart(req.Time)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("invalid work schedule: %w", err)
	}
	status, lateMinutes := a.rules.Arrival(req.Time, scheduledStart)

	checkIn := req.Time
	created, err := a.attendanceRepo.Create(ctx, attendance.Attendance{
		ID:          utils.NewID(),
		CompanyID:   companyID,
		EmployeeID:  req.EmployeeID,
		Date:        dateOf(req.Time),
		CheckIn:     &checkIn,
		Status:      status,
		HoursWorked: decimal.Zero,
		LateMinutes: lateMinutes,
		Notes:       req.Notes,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.InfoContext(ctx, "Employee checked in", "company_id", companyID, "employee_id", req.EmployeeID, "status", status, "late_minutes", lateMinutes)
	return attendance.NewAttendanceResponse(created), nil
}

func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, companyID string, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if _, err := a.activeEmployee(ctx, companyID, req.EmployeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var updated attendance.Attendance
	err := a.tx.WithTransaction(ctx, func(ctx context.Context) error {
		current, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, companyID, dateOf(req.Time))
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.ErrNotCheckedIn
		}
		if err != nil {
			return err
		}
		if current.CheckIn == nil {
			return attendance.ErrNotCheckedIn
		}
		if current.CheckOut != nil {
			return attendance.ErrAlreadyCheckedOut
		}
		if !req.Time.After(*current.CheckIn) {
			return attendance.ErrCheckOutBeforeIn
		}

		hours := a.rules.HoursWorked(*current.CheckIn, req.Time, true)
		updated, err = a.attendanceRepo.UpdateCheckOut(ctx, current.ID, companyID, req.Time, hours)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.NewAttendanceResponse(updated), nil
}

// MarkAbsence records an ABSENT or VACATION day. These statuses are never
// derived automatically.
func (a *AttendanceServiceImpl) MarkAbsence(ctx context.Context, companyID string, req attendance.MarkAbsenceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	date, _ := validator.IsValidDate(req.Date)

	if _, err := a.prepare(ctx, companyID, req.EmployeeID, date); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	created, err := a.attendanceRepo.Create(ctx, attendance.Attendance{
		ID:          utils.NewID(),
		CompanyID:   companyID,
		EmployeeID:  req.EmployeeID,
		Date:        date,
		Status:      req.Status,
		HoursWorked: decimal.Zero,
		Notes:       req.Notes,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(created), nil
}

func (a *AttendanceServiceImpl) MarkHalfDay(ctx context.Context, companyID string, req attendance.HalfDayRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if _, err := a.prepare(ctx, companyID, req.EmployeeID, req.CheckInTime); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	checkIn := req.CheckInTime
	checkOut, err := a.rules.HalfDayCheckOut(checkIn)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("invalid half-day cutoff: %w", err)
	}
	if !checkOut.After(checkIn) {
		return attendance.AttendanceResponse{}, attendance.ErrCheckOutBeforeIn
	}

	created, err := a.attendanceRepo.Create(ctx, attendance.Attendance{
		ID:          utils.NewID(),
		CompanyID:   companyID,
		EmployeeID:  req.EmployeeID,
		Date:        dateOf(checkIn),
		CheckIn:     &checkIn,
		CheckOut:    &checkOut,
		Status:      attendance.StatusHalfDay,
		HoursWorked: a.rules.HoursWorked(checkIn, checkOut, false),
		Notes:       req.Notes,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(created), nil
}

func (a *AttendanceServiceImpl) Validate(ctx context.Context, companyID string, id string) (attendance.AttendanceResponse, error) {
	validated, err := a.attendanceRepo.MarkValidated(ctx, id, companyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(validated), nil
}

func (a *AttendanceServiceImpl) GetByID(ctx context.Context, companyID string, id string) (attendance.AttendanceResponse, error) {
	att, err := a.attendanceRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(att), nil
}

func (a *AttendanceServiceImpl) List(ctx context.Context, companyID string, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, int64, error) {
	var errs validator.ValidationErrors
	if filter.From != nil {
		if _, ok := validator.IsValidDate(*filter.From); !ok {
			errs.Add("from", "from must be a date in YYYY-MM-DD format")
		}
	}
	if filter.To != nil {
		if _, ok := validator.IsValidDate(*filter.To); !ok {
			errs.Add("to", "to must be a date in YYYY-MM-DD format")
		}
	}
	if err := errs.Err(); err != nil {
		return nil, 0, err
	}

	records, total, err := a.attendanceRepo.List(ctx, filter, companyID)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.NewAttendanceResponse(r))
	}
	return responses, total, nil
}

// prepare checks the employee is active and that day is a working day of
// the company week.
func (a *AttendanceServiceImpl) prepare(ctx context.Context, companyID, employeeID string, day time.Time) (schedule.Week, error) {
	if _, err := a.activeEmployee(ctx, companyID, employeeID); err != nil {
		return schedule.Week{}, err
	}

	days, err := a.scheduleRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		return schedule.Week{}, fmt.Errorf("failed to get work schedule: %w", err)
	}
	week := schedule.NewWeek(companyID, days)
	if !week.IsWorkingDay(day) {
		return schedule.Week{}, fmt.Errorf("%w: %s", attendance.ErrNonWorkingDay, day.Format(time.DateOnly))
	}
	return week, nil
}

func (a *AttendanceServiceImpl) activeEmployee(ctx context.Context, companyID, employeeID string) (employee.Employee, error) {
	emp, err := a.employeeRepo.GetByID(ctx, employeeID, companyID)
	if err != nil {
		return employee.Employee{}, err
	}
	if !emp.IsActive {
		return employee.Employee{}, employee.ErrEmployeeInactive
	}
	return emp, nil
}

// dateOf keeps the calendar day of t in its own location.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
