package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payment"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payrun"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payslip"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/database"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/utils"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/validator"
)

type PaymentServiceImpl struct {
	tx          database.Transactor
	paymentRepo payment.PaymentRepository
	payslipRepo payslip.PayslipRepository
}

func NewPaymentService(
	tx database.Transactor,
	paymentRepo payment.PaymentRepository,
	payslipRepo payslip.PayslipRepository,
) payment.PaymentService {
	return &PaymentServiceImpl{
		tx:          tx,
		paymentRepo: paymentRepo,
		payslipRepo: payslipRepo,
	}
}

// Record applies a payment to a payslip. The payslip row stays locked from
// the balance check until commit, so concurrent payments cannot together
// exceed the net amount.
func (s *PaymentServiceImpl) Record(ctx context.Context, companyID string, actorID string, req payment.RecordPaymentRequest) (payment.RecordPaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return payment.RecordPaymentResponse{}, err
	}

	var (
		created payment.Payment
		slip    payslip.Payslip
	)
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		slip, err = s.payslipRepo.GetByIDForUpdate(ctx, req.PayslipID, companyID)
		if err != nil {
			return err
		}

		if slip.Status == payslip.StatusArchived {
			return payslip.ErrNotPayable
		}
		if slip.PayRunStatus == string(payrun.StatusClosed) {
			return payslip.ErrPayRunClosed
		}

		remaining := slip.Remaining()
		if req.Amount.GreaterThan(remaining) {
			return fmt.Errorf("%w: amount %s, remaining %s", payment.ErrOverpayment, req.Amount.StringFixed(2), remaining.StringFixed(2))
		}

		created, err = s.paymentRepo.Create(ctx, payment.Payment{
			ID:            utils.NewID(),
			CompanyID:     companyID,
			PayslipID:     slip.ID,
			Amount:        req.Amount,
			Method:        req.Method,
			Reference:     req.Reference,
			Notes:         req.Notes,
			ProcessedByID: actorID,
		})
		if err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		slip.AmountPaid = slip.AmountPaid.Add(req.Amount)
		slip.Status = payslip.DeriveStatus(slip.AmountPaid, slip.NetAmount)
		if err := s.payslipRepo.ApplyPayment(ctx, slip.ID, companyID, slip.AmountPaid, slip.Status); err != nil {
			return fmt.Errorf("failed to update payslip balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return payment.RecordPaymentResponse{}, err
	}

	slog.InfoContext(ctx, "Payment recorded",
		"company_id", companyID,
		"payslip_id", slip.ID,
		"payment_id", created.ID,
		"amount", created.Amount.String(),
		"method", created.Method,
		"payslip_status", slip.Status,
	)

	number := slip.PayslipNumber
	created.PayslipNumber = &number
	return payment.RecordPaymentResponse{
		Payment: payment.NewPaymentResponse(created),
		Payslip: payslip.NewPayslipResponse(slip),
	}, nil
}

func (s *PaymentServiceImpl) GetByID(ctx context.Context, companyID string, id string) (payment.PaymentResponse, error) {
	p, err := s.paymentRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return payment.PaymentResponse{}, err
	}
	return payment.NewPaymentResponse(p), nil
}

func (s *PaymentServiceImpl) List(ctx context.Context, companyID string, filter payment.PaymentFilter) ([]payment.PaymentResponse, int64, error) {
	var errs validator.ValidationErrors
	checkDate(&errs, "from", filter.From)
	checkDate(&errs, "to", filter.To)
	if err := errs.Err(); err != nil {
		return nil, 0, err
	}

	payments, total, err := s.paymentRepo.List(ctx, filter, companyID)
	if err != nil {
		return nil, 0, err
	}
	return toResponses(payments), total, nil
}

func (s *PaymentServiceImpl) ListByPayslip(ctx context.Context, companyID string, payslipID string) ([]payment.PaymentResponse, error) {
	if _, err := s.payslipRepo.GetByID(ctx, payslipID, companyID); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.ListByPayslip(ctx, payslipID, companyID)
	if err != nil {
		return nil, err
	}
	return toResponses(payments), nil
}

// Stats aggregates payments in [from, to] and counts payslips per status.
// Dates are inclusive calendar days.
func (s *PaymentServiceImpl) Stats(ctx context.Context, companyID string, filter payment.StatsFilter) (payment.StatsResponse, error) {
	var errs validator.ValidationErrors
	from := checkDate(&errs, "from", filter.From)
	to := checkDate(&errs, "to", filter.To)
	if err := errs.Err(); err != nil {
		return payment.StatsResponse{}, err
	}
	if to != nil {
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		to = &end
	}

	stats, err := s.paymentRepo.Stats(ctx, companyID, from, to)
	if err != nil {
		return payment.StatsResponse{}, err
	}

	counts, err := s.payslipRepo.CountByStatus(ctx, companyID)
	if err != nil {
		return payment.StatsResponse{}, err
	}
	stats.PayslipsByState = make(map[string]int64, len(counts))
	for status, n := range counts {
		stats.PayslipsByState[string(status)] = n
	}

	return payment.NewStatsResponse(stats), nil
}

func checkDate(errs *validator.ValidationErrors, field string, value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	t, ok := validator.IsValidDate(*value)
	if !ok {
		errs.Add(field, field+" must be a date in YYYY-MM-DD format")
		return nil
	}
	return &t
}

func toResponses(payments []payment.Payment) []payment.PaymentResponse {
	responses := make([]payment.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, payment.NewPaymentResponse(p))
	}
	return responses
}
