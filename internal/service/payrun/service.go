package payrun

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/attendance"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/company"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/employee"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payrun"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payslip"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/schedule"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/database"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/utils"
)

type PayRunServiceImpl struct {
	tx             database.Transactor
	payRunRepo     payrun.PayRunRepository
	payslipRepo    payslip.PayslipRepository
	employeeRepo   employee.EmployeeRepository
	companyRepo    company.CompanyRepository
	scheduleRepo   schedule.WorkScheduleRepository
	attendanceRepo attendance.AttendanceRepository
	calculator     Calculator
	// honorariumFromAttendance feeds validated attendance hours into
	// HONORARIUM payslips.
	honorariumFromAttendance bool
	now                      func() time.Time
}

func NewPayRunService(
	tx database.Transactor,
	payRunRepo payrun.PayRunRepository,
	payslipRepo payslip.PayslipRepository,
	employeeRepo employee.EmployeeRepository,
	companyRepo company.CompanyRepository,
	scheduleRepo schedule.WorkScheduleRepository,
	attendanceRepo attendance.AttendanceRepository,
	calculator Calculator,
	honorariumFromAttendance bool,
) payrun.PayRunService {
	return &PayRunServiceImpl{
		tx:                       tx,
		payRunRepo:               payRunRepo,
		payslipRepo:              payslipRepo,
		employeeRepo:             employeeRepo,
		companyRepo:              companyRepo,
		scheduleRepo:             scheduleRepo,
		attendanceRepo:           attendanceRepo,
		calculator:               calculator,
		honorariumFromAttendance: honorariumFromAttendance,
		now:                      time.Now,
	}
}

// Create inserts a DRAFT pay run and one ARCHIVED payslip per active
// employee. Nothing is persisted if any payslip cannot be computed.
func (s *PayRunServiceImpl) Create(ctx context.Context, companyID string, actorID string, req payrun.CreatePayRunRequest) (payrun.PayRunResponse, error) {
	if err := req.Validate(); err != nil {
		return payrun.PayRunResponse{}, err
	}

	var (
		run      payrun.PayRun
		payslips []payslip.Payslip
	)
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		// The transactor may run this func again after a serialization
		// failure; nothing from a rolled back attempt may survive.
		run = payrun.PayRun{}
		payslips = nil

		comp, err := s.companyRepo.GetByID(ctx, companyID)
		if err != nil {
			return err
		}
		if !comp.IsActive {
			return company.ErrCompanyInactive
		}

		employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
		if err != nil {
			return fmt.Errorf("failed to get employees: %w", err)
		}
		if len(employees) == 0 {
			return payrun.ErrNoActiveEmployees
		}

		days, err := s.scheduleRepo.GetByCompanyID(ctx, companyID)
		if err != nil {
			return fmt.Errorf("failed to get work schedule: %w", err)
		}
		week := schedule.NewWeek(companyID, days)

		var attendanceHours map[string]decimal.Decimal
		if s.honorariumFromAttendance {
			attendanceHours, err = s.attendanceRepo.SumValidatedHours(ctx, companyID, req.Start, req.End)
			if err != nil {
				return fmt.Errorf("failed to sum attendance hours: %w", err)
			}
		}

		run, err = s.payRunRepo.Create(ctx, payrun.PayRun{
			ID:          utils.NewID(),
			CompanyID:   companyID,
			Title:       req.Title,
			PeriodStart: req.Start,
			PeriodEnd:   req.End,
			Status:      payrun.StatusDraft,
			TotalGross:  decimal.Zero,
			TotalNet:    decimal.Zero,
			CreatedByID: &actorID,
		})
		if err != nil {
			return fmt.Errorf("failed to create pay run: %w", err)
		}

		totalGross := decimal.Zero
		totalNet := decimal.Zero
		for _, emp := range employees {
			in := Input{Employee: emp, PeriodStart: req.Start, PeriodEnd: req.End, Week: week}
			if hours, ok := attendanceHours[emp.ID]; ok {
				in.AttendanceHours = &hours
			}

			result, err := s.calculator.Calculate(in)
			if err != nil {
				return err
			}

			slip, err := s.payslipRepo.Create(ctx, payslip.Payslip{
				ID:              utils.NewID(),
				CompanyID:       companyID,
				PayRunID:        run.ID,
				EmployeeID:      emp.ID,
				PayslipNumber:   utils.NewPayslipNumber(req.Start),
				GrossAmount:     result.Gross,
				TotalDeductions: result.TotalDeductions,
				NetAmount:       result.Net,
				AmountPaid:      decimal.Zero,
				DaysWorked:      result.DaysWorked,
				HoursWorked:     result.HoursWorked,
				Status:          payslip.StatusArchived,
			})
			if err != nil {
				return fmt.Errorf("failed to create payslip for employee %s: %w", emp.EmployeeCode, err)
			}

			deductions := make([]payslip.Deduction, 0, len(result.Deductions))
			for _, d := range result.Deductions {
				d.ID = utils.NewID()
				d.PayslipID = slip.ID
				deductions = append(deductions, d)
			}
			if err := s.payslipRepo.CreateDeductions(ctx, deductions); err != nil {
				return fmt.Errorf("failed to create deductions for employee %s: %w", emp.EmployeeCode, err)
			}

			slip.Deductions = deductions
			slip.EmployeeCode = emp.EmployeeCode
			slip.EmployeeFirstName = emp.FirstName
			slip.EmployeeLastName = emp.LastName
			payslips = append(payslips, slip)

			totalGross = totalGross.Add(result.Gross)
			totalNet = totalNet.Add(result.Net)
		}

		run, err = s.payRunRepo.UpdateTotals(ctx, run.ID, totalGross, totalNet, len(payslips))
		if err != nil {
			return fmt.Errorf("failed to update pay run totals: %w", err)
		}
		return nil
	})
	if err != nil {
		return payrun.PayRunResponse{}, err
	}

	slog.InfoContext(ctx, "Pay run created", "company_id", companyID, "pay_run_id", run.ID, "payslip_count", run.PayslipCount, "total_net", run.TotalNet.String())

	return newPayRunResponse(run, payslips), nil
}

func (s *PayRunServiceImpl) Approve(ctx context.Context, companyID string, id string, actorID string) (payrun.PayRunResponse, error) {
	return s.transition(ctx, companyID, id, actorID, payrun.StatusApproved)
}

func (s *PayRunServiceImpl) UpdateStatus(ctx context.Context, companyID string, id string, actorID string, req payrun.UpdateStatusRequest) (payrun.PayRunResponse, error) {
	if err := req.Validate(); err != nil {
		return payrun.PayRunResponse{}, err
	}
	return s.transition(ctx, companyID, id, actorID, req.Status)
}

// transition locks the pay run and applies one step of the state machine.
// Approval releases the run's ARCHIVED payslips for payment.
func (s *PayRunServiceImpl) transition(ctx context.Context, companyID string, id string, actorID string, target payrun.Status) (payrun.PayRunResponse, error) {
	var (
		run      payrun.PayRun
		released int64
	)
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		current, err := s.payRunRepo.GetByIDForUpdate(ctx, id, companyID)
		if err != nil {
			return err
		}
		if !payrun.CanTransition(current.Status, target) {
			return fmt.Errorf("%w: %s to %s", payrun.ErrInvalidTransition, current.Status, target)
		}

		now := s.now()
		switch target {
		case payrun.StatusApproved:
			run, err = s.payRunRepo.MarkApproved(ctx, id, companyID, actorID, now)
			if err != nil {
				return fmt.Errorf("failed to approve pay run: %w", err)
			}
			released, err = s.payslipRepo.ReleaseArchived(ctx, id, companyID)
			if err != nil {
				return fmt.Errorf("failed to release payslips: %w", err)
			}
		case payrun.StatusClosed:
			run, err = s.payRunRepo.MarkClosed(ctx, id, companyID, now)
			if err != nil {
				return fmt.Errorf("failed to close pay run: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return payrun.PayRunResponse{}, err
	}

	slog.InfoContext(ctx, "Pay run status changed", "company_id", companyID, "pay_run_id", id, "status", run.Status, "released_payslips", released)

	return s.withPayslips(ctx, run)
}

func (s *PayRunServiceImpl) GetByID(ctx context.Context, companyID string, id string) (payrun.PayRunResponse, error) {
	run, err := s.payRunRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return payrun.PayRunResponse{}, err
	}
	return s.withPayslips(ctx, run)
}

func (s *PayRunServiceImpl) List(ctx context.Context, companyID string, filter payrun.PayRunFilter) ([]payrun.PayRunResponse, int64, error) {
	runs, total, err := s.payRunRepo.List(ctx, filter, companyID)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]payrun.PayRunResponse, 0, len(runs))
	for _, r := range runs {
		responses = append(responses, payrun.NewPayRunResponse(r))
	}
	return responses, total, nil
}

func (s *PayRunServiceImpl) Delete(ctx context.Context, companyID string, id string) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		run, err := s.payRunRepo.GetByIDForUpdate(ctx, id, companyID)
		if err != nil {
			return err
		}
		if run.Status != payrun.StatusDraft {
			return fmt.Errorf("%w: pay run is %s", payrun.ErrOnlyDraftDeletable, run.Status)
		}
		return s.payRunRepo.Delete(ctx, id, companyID)
	})
}

func (s *PayRunServiceImpl) withPayslips(ctx context.Context, run payrun.PayRun) (payrun.PayRunResponse, error) {
	payslips, err := s.payslipRepo.ListByPayRun(ctx, run.ID, run.CompanyID)
	if err != nil {
		return payrun.PayRunResponse{}, fmt.Errorf("failed to list payslips: %w", err)
	}
	return newPayRunResponse(run, payslips), nil
}

func newPayRunResponse(run payrun.PayRun, payslips []payslip.Payslip) payrun.PayRunResponse {
	resp := payrun.NewPayRunResponse(run)
	resp.Payslips = make([]payslip.PayslipResponse, 0, len(payslips))
	for _, p := range payslips {
		resp.Payslips = append(resp.Payslips, payslip.NewPayslipResponse(p))
	}
	return resp
}
