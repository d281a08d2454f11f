package servicetest

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payment"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payrun"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payslip"
)

type PayRunRepo struct{ *Store }

var _ payrun.PayRunRepository = PayRunRepo{}

func (r PayRunRepo) Create(ctx context.Context, p payrun.PayRun) (payrun.PayRun, error) {
	unlock, err := r.begin("PayRun.Create")
	defer unlock()
	if err != nil {
		return payrun.PayRun{}, err
	}
	p.CreatedAt = r.Now()
	p.UpdatedAt = p.CreatedAt
	r.PayRuns[p.ID] = p
	r.wrote()
	return p, nil
}

func (r PayRunRepo) get(id, companyID string) (payrun.PayRun, error) {
	p, ok := r.PayRuns[id]
	if !ok || p.CompanyID != companyID {
		return payrun.PayRun{}, payrun.ErrPayRunNotFound
	}
	return p, nil
}

func (r PayRunRepo) GetByID(ctx context.Context, id string, companyID string) (payrun.PayRun, error) {
	unlock, err := r.begin("PayRun.GetByID")
	defer unlock()
	if err != nil {
		return payrun.PayRun{}, err
	}
	return r.get(id, companyID)
}

func (r PayRunRepo) GetByIDForUpdate(ctx context.Context, id string, companyID string) (payrun.PayRun, error) {
	unlock, err := r.begin("PayRun.GetByIDForUpdate")
	defer unlock()
	if err != nil {
		return payrun.PayRun{}, err
	}
	return r.get(id, companyID)
}

func (r PayRunRepo) List(ctx context.Context, filter payrun.PayRunFilter, companyID string) ([]payrun.PayRun, int64, error) {
	unlock, err := r.begin("PayRun.List")
	defer unlock()
	if err != nil {
		return nil, 0, err
	}
	var out []payrun.PayRun
	for _, p := range r.PayRuns {
		if p.CompanyID != companyID {
			continue
		}
		if filter.Status != nil && string(p.Status) != *filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r PayRunRepo) UpdateTotals(ctx context.Context, id string, totalGross, totalNet decimal.Decimal, payslipCount int) (payrun.PayRun, error) {
	unlock, err := r.begin("PayRun.UpdateTotals")
	defer unlock()
	if err != nil {
		return payrun.PayRun{}, err
	}
	p, ok := r.PayRuns[id]
	if !ok {
		return payrun.PayRun{}, payrun.ErrPayRunNotFound
	}
	p.TotalGross = totalGross
	p.TotalNet = totalNet
	p.PayslipCount = payslipCount
	r.PayRuns[id] = p
	r.wrote()
	return p, nil
}

func (r PayRunRepo) MarkApproved(ctx context.Context, id string, companyID string, approvedByID string, at time.Time) (payrun.PayRun, error) {
	unlock, err := r.begin("PayRun.MarkApproved")
	defer unlock()
	if err != nil {
		return payrun.PayRun{}, err
	}
	p, err := r.get(id, companyID)
	if err != nil {
		return payrun.PayRun{}, err
	}
	p.Status = payrun.StatusApproved
	p.ApprovedByID = &approvedByID
	p.ApprovedAt = &at
	r.PayRuns[id] = p
	r.wrote()
	return p, nil
}

func (r PayRunRepo) MarkClosed(ctx context.Context, id string, companyID string, at time.Time) (payrun.PayRun, error) {
	unlock, err := r.begin("PayRun.MarkClosed")
	defer unlock()
	if err != nil {
		return payrun.PayRun{}, err
	}
	p, err := r.get(id, companyID)
	if err != nil {
		return payrun.PayRun{}, err
	}
	p.Status = payrun.StatusClosed
	p.ClosedAt = &at
	r.PayRuns[id] = p
	r.wrote()
	return p, nil
}

func (r PayRunRepo) Delete(ctx context.Context, id string, companyID string) error {
	unlock, err := r.begin("PayRun.Delete")
	defer unlock()
	if err != nil {
		return err
	}
	if _, err := r.get(id, companyID); err != nil {
		return err
	}
	delete(r.PayRuns, id)
	for slipID, s := range r.Payslips {
		if s.PayRunID == id {
			delete(r.Payslips, slipID)
		}
	}
	r.wrote()
	return nil
}

type PayslipRepo struct{ *Store }

var _ payslip.PayslipRepository = PayslipRepo{}

// join fills the read-model fields the SQL repository gets from joins.
func (r PayslipRepo) join(p payslip.Payslip) payslip.Payslip {
	if e, ok := r.Employees[p.EmployeeID]; ok {
		p.EmployeeCode = e.EmployeeCode
		p.EmployeeFirstName = e.FirstName
		p.EmployeeLastName = e.LastName
	}
	if run, ok := r.PayRuns[p.PayRunID]; ok {
		p.PayRunTitle = run.Title
		p.PayRunStatus = string(run.Status)
		p.PeriodStart = run.PeriodStart
		p.PeriodEnd = run.PeriodEnd
	}
	return p
}

func (r PayslipRepo) Create(ctx context.Context, p payslip.Payslip) (payslip.Payslip, error) {
	unlock, err := r.begin("Payslip.Create")
	defer unlock()
	if err != nil {
		return payslip.Payslip{}, err
	}
	for _, existing := range r.Payslips {
		if existing.PayslipNumber == p.PayslipNumber {
			return payslip.Payslip{}, payslip.ErrPayslipNumberExists
		}
	}
	p.CreatedAt = r.Now()
	p.UpdatedAt = p.CreatedAt
	r.Payslips[p.ID] = p
	r.wrote()
	return p, nil
}

func (r PayslipRepo) CreateDeductions(ctx context.Context, deductions []payslip.Deduction) error {
	unlock, err := r.begin("Payslip.CreateDeductions")
	defer unlock()
	if err != nil {
		return err
	}
	r.Deductions = append(r.Deductions, deductions...)
	r.wrote()
	return nil
}

func (r PayslipRepo) get(id, companyID string) (payslip.Payslip, error) {
	p, ok := r.Payslips[id]
	if !ok || p.CompanyID != companyID {
		return payslip.Payslip{}, payslip.ErrPayslipNotFound
	}
	return r.join(p), nil
}

func (r PayslipRepo) GetByID(ctx context.Context, id string, companyID string) (payslip.Payslip, error) {
	unlock, err := r.begin("Payslip.GetByID")
	defer unlock()
	if err != nil {
		return payslip.Payslip{}, err
	}
	return r.get(id, companyID)
}

func (r PayslipRepo) GetByIDForUpdate(ctx context.Context, id string, companyID string) (payslip.Payslip, error) {
	unlock, err := r.begin("Payslip.GetByIDForUpdate")
	defer unlock()
	if err != nil {
		return payslip.Payslip{}, err
	}
	return r.get(id, companyID)
}

func (r PayslipRepo) List(ctx context.Context, filter payslip.PayslipFilter, companyID string) ([]payslip.Payslip, int64, error) {
	unlock, err := r.begin("Payslip.List")
	defer unlock()
	if err != nil {
		return nil, 0, err
	}
	var out []payslip.Payslip
	for _, p := range r.Payslips {
		if p.CompanyID != companyID {
			continue
		}
		if filter.Status != nil && string(p.Status) != *filter.Status {
			continue
		}
		if filter.PayRunID != nil && p.PayRunID != *filter.PayRunID {
			continue
		}
		if filter.EmployeeID != nil && p.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, r.join(p))
	}
	return out, int64(len(out)), nil
}

func (r PayslipRepo) ListByPayRun(ctx context.Context, payRunID string, companyID string) ([]payslip.Payslip, error) {
	unlock, err := r.begin("Payslip.ListByPayRun")
	defer unlock()
	if err != nil {
		return nil, err
	}
	var out []payslip.Payslip
	for _, p := range r.Payslips {
		if p.PayRunID == payRunID && p.CompanyID == companyID {
			out = append(out, r.join(p))
		}
	}
	return out, nil
}

func (r PayslipRepo) ListDeductions(ctx context.Context, payslipID string) ([]payslip.Deduction, error) {
	unlock, err := r.begin("Payslip.ListDeductions")
	defer unlock()
	if err != nil {
		return nil, err
	}
	var out []payslip.Deduction
	for _, d := range r.Deductions {
		if d.PayslipID == payslipID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r PayslipRepo) ReleaseArchived(ctx context.Context, payRunID string, companyID string) (int64, error) {
	unlock, err := r.begin("Payslip.ReleaseArchived")
	defer unlock()
	if err != nil {
		return 0, err
	}
	var n int64
	for id, p := range r.Payslips {
		if p.PayRunID == payRunID && p.CompanyID == companyID && p.Status == payslip.StatusArchived {
			p.Status = payslip.StatusPending
			r.Payslips[id] = p
			n++
		}
	}
	r.wrote()
	return n, nil
}

func (r PayslipRepo) ApplyPayment(ctx context.Context, id string, companyID string, amountPaid decimal.Decimal, status payslip.Status) error {
	unlock, err := r.begin("Payslip.ApplyPayment")
	defer unlock()
	if err != nil {
		return err
	}
	p, ok := r.Payslips[id]
	if !ok || p.CompanyID != companyID {
		return payslip.ErrPayslipNotFound
	}
	p.AmountPaid = amountPaid
	p.Status = status
	r.Payslips[id] = p
	r.wrote()
	return nil
}

func (r PayslipRepo) UpdateStatus(ctx context.Context, id string, companyID string, status payslip.Status) error {
	unlock, err := r.begin("Payslip.UpdateStatus")
	defer unlock()
	if err != nil {
		return err
	}
	p, ok := r.Payslips[id]
	if !ok || p.CompanyID != companyID {
		return payslip.ErrPayslipNotFound
	}
	p.Status = status
	r.Payslips[id] = p
	r.wrote()
	return nil
}

func (r PayslipRepo) CountByStatus(ctx context.Context, companyID string) (map[payslip.Status]int64, error) {
	unlock, err := r.begin("Payslip.CountByStatus")
	defer unlock()
	if err != nil {
		return nil, err
	}
	counts := map[payslip.Status]int64{}
	for _, p := range r.Payslips {
		if p.CompanyID == companyID {
			counts[p.Status]++
		}
	}
	return counts, nil
}

type PaymentRepo struct{ *Store }

var _ payment.PaymentRepository = PaymentRepo{}

func (r PaymentRepo) Create(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	unlock, err := r.begin("Payment.Create")
	defer unlock()
	if err != nil {
		return payment.Payment{}, err
	}
	p.CreatedAt = r.Now()
	r.Payments[p.ID] = p
	r.wrote()
	return p, nil
}

func (r PaymentRepo) GetByID(ctx context.Context, id string, companyID string) (payment.Payment, error) {
	unlock, err := r.begin("Payment.GetByID")
	defer unlock()
	if err != nil {
		return payment.Payment{}, err
	}
	p, ok := r.Payments[id]
	if !ok || p.CompanyID != companyID {
		return payment.Payment{}, payment.ErrPaymentNotFound
	}
	return p, nil
}

func (r PaymentRepo) List(ctx context.Context, filter payment.PaymentFilter, companyID string) ([]payment.Payment, int64, error) {
	unlock, err := r.begin("Payment.List")
	defer unlock()
	if err != nil {
		return nil, 0, err
	}
	var out []payment.Payment
	for _, p := range r.Payments {
		if p.CompanyID != companyID {
			continue
		}
		if filter.PayslipID != nil && p.PayslipID != *filter.PayslipID {
			continue
		}
		if filter.Method != nil && string(p.Method) != *filter.Method {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r PaymentRepo) ListByPayslip(ctx context.Context, payslipID string, companyID string) ([]payment.Payment, error) {
	unlock, err := r.begin("Payment.ListByPayslip")
	defer unlock()
	if err != nil {
		return nil, err
	}
	var out []payment.Payment
	for _, p := range r.Payments {
		if p.PayslipID == payslipID && p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r PaymentRepo) Stats(ctx context.Context, companyID string, from, to *time.Time) (payment.Stats, error) {
	unlock, err := r.begin("Payment.Stats")
	defer unlock()
	if err != nil {
		return payment.Stats{}, err
	}
	var stats payment.Stats
	byMethod := map[payment.Method]*payment.MethodTotal{}
	var order []payment.Method
	for _, p := range r.Payments {
		if p.CompanyID != companyID {
			continue
		}
		if from != nil && p.CreatedAt.Before(*from) || to != nil && p.CreatedAt.After(*to) {
			continue
		}
		stats.TotalAmount = stats.TotalAmount.Add(p.Amount)
		stats.PaymentCount++
		mt, ok := byMethod[p.Method]
		if !ok {
			mt = &payment.MethodTotal{Method: p.Method}
			byMethod[p.Method] = mt
			order = append(order, p.Method)
		}
		mt.Count++
		mt.Total = mt.Total.Add(p.Amount)
	}
	for _, m := range order {
		stats.ByMethod = append(stats.ByMethod, *byMethod[m])
	}
	return stats, nil
}
