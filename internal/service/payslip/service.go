package payslip

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/company"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payrun"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payslip"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/database"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/pdf"
)

type PayslipServiceImpl struct {
	tx          database.Transactor
	payslipRepo payslip.PayslipRepository
	companyRepo company.CompanyRepository
}

func NewPayslipService(
	tx database.Transactor,
	payslipRepo payslip.PayslipRepository,
	companyRepo company.CompanyRepository,
) payslip.PayslipService {
	return &PayslipServiceImpl{
		tx:          tx,
		payslipRepo: payslipRepo,
		companyRepo: companyRepo,
	}
}

func (s *PayslipServiceImpl) List(ctx context.Context, companyID string, filter payslip.PayslipFilter) ([]payslip.PayslipResponse, int64, error) {
	payslips, total, err := s.payslipRepo.List(ctx, filter, companyID)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]payslip.PayslipResponse, 0, len(payslips))
	for _, p := range payslips {
		responses = append(responses, payslip.NewPayslipResponse(p))
	}
	return responses, total, nil
}

func (s *PayslipServiceImpl) GetByID(ctx context.Context, companyID string, id string) (payslip.PayslipResponse, error) {
	p, err := s.get(ctx, companyID, id)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}
	return payslip.NewPayslipResponse(p), nil
}

// UpdateStatus is a manual override. It never produces a status that
// contradicts the amount already paid.
func (s *PayslipServiceImpl) UpdateStatus(ctx context.Context, companyID string, id string, req payslip.UpdateStatusRequest) (payslip.PayslipResponse, error) {
	if err := req.Validate(); err != nil {
		return payslip.PayslipResponse{}, err
	}

	var from payslip.Status
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		p, err := s.payslipRepo.GetByIDForUpdate(ctx, id, companyID)
		if err != nil {
			return err
		}
		from = p.Status

		if err := checkOverride(p, req.Status); err != nil {
			return err
		}
		if p.Status == req.Status {
			return nil
		}
		return s.payslipRepo.UpdateStatus(ctx, id, companyID, req.Status)
	})
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	slog.InfoContext(ctx, "Payslip status overridden", "company_id", companyID, "payslip_id", id, "from", from, "to", req.Status)

	return s.GetByID(ctx, companyID, id)
}

func checkOverride(p payslip.Payslip, target payslip.Status) error {
	if p.PayRunStatus == string(payrun.StatusClosed) {
		return payslip.ErrPayRunClosed
	}

	switch target {
	case payslip.StatusArchived, payslip.StatusPending:
		if !p.AmountPaid.IsZero() {
			return fmt.Errorf("%w: payslip already has payments", payslip.ErrInvalidStatusChange)
		}
		if target == payslip.StatusPending && p.PayRunStatus != string(payrun.StatusApproved) {
			return fmt.Errorf("%w: pay run is not approved", payslip.ErrInvalidStatusChange)
		}
	case payslip.StatusPartial, payslip.StatusPaid:
		if derived := payslip.DeriveStatus(p.AmountPaid, p.NetAmount); derived != target {
			return fmt.Errorf("%w: amount paid corresponds to %s", payslip.ErrInvalidStatusChange, derived)
		}
	default:
		return payslip.ErrInvalidStatusChange
	}
	return nil
}

func (s *PayslipServiceImpl) Download(ctx context.Context, companyID string, id string) (payslip.Document, error) {
	p, err := s.get(ctx, companyID, id)
	if err != nil {
		return payslip.Document{}, err
	}

	comp, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return payslip.Document{}, err
	}

	data := pdf.PayslipData{
		CompanyName:     comp.Name,
		Currency:        comp.Currency,
		PayslipNumber:   p.PayslipNumber,
		Status:          string(p.Status),
		EmployeeName:    p.EmployeeFirstName + " " + p.EmployeeLastName,
		EmployeeCode:    p.EmployeeCode,
		PayRunTitle:     p.PayRunTitle,
		PeriodStart:     p.PeriodStart,
		PeriodEnd:       p.PeriodEnd,
		DaysWorked:      p.DaysWorked,
		HoursWorked:     p.HoursWorked,
		Gross:           p.GrossAmount,
		TotalDeductions: p.TotalDeductions,
		Net:             p.NetAmount,
		Paid:            p.AmountPaid,
		Remaining:       p.Remaining(),
	}
	if comp.Address != nil {
		data.CompanyAddress = *comp.Address
	}
	for _, d := range p.Deductions {
		data.Deductions = append(data.Deductions, pdf.DeductionLine{Label: d.Description, Rate: d.Rate, Amount: d.Amount})
	}

	content, err := pdf.RenderPayslip(data)
	if err != nil {
		return payslip.Document{}, err
	}

	return payslip.Document{
		Filename:    p.PayslipNumber + ".pdf",
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

func (s *PayslipServiceImpl) get(ctx context.Context, companyID string, id string) (payslip.Payslip, error) {
	p, err := s.payslipRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return payslip.Payslip{}, err
	}

	p.Deductions, err = s.payslipRepo.ListDeductions(ctx, p.ID)
	if err != nil {
		return payslip.Payslip{}, fmt.Errorf("failed to list deductions: %w", err)
	}
	return p, nil
}
