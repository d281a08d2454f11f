package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payrun"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payslip"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/database"
)

const payRunColumns = `id, company_id, title, period_start, period_end, status, total_gross, total_net,
	payslip_count, created_by_id, approved_by_id, approved_at, closed_at, created_at, updated_at`

type payRunRepositoryImpl struct {
	db database.Querier
}

func NewPayRunRepository(db database.Querier) payrun.PayRunRepository {
	return &payRunRepositoryImpl{db: db}
}

func scanPayRun(row rowScanner) (payrun.PayRun, error) {
	var (
		p                     payrun.PayRun
		status                string
		createdBy, approvedBy sql.NullString
		approvedAt, closedAt  sql.NullTime
	)
	if err := row.Scan(
		&p.ID, &p.CompanyID, &p.Title, &p.PeriodStart, &p.PeriodEnd, &status, &p.TotalGross, &p.TotalNet,
		&p.PayslipCount, &createdBy, &approvedBy, &approvedAt, &closedAt, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payrun.PayRun{}, payrun.ErrPayRunNotFound
		}
		return payrun.PayRun{}, err
	}
	p.PeriodStart = dateOnly(p.PeriodStart)
	p.PeriodEnd = dateOnly(p.PeriodEnd)
	p.Status = payrun.Status(status)
	p.CreatedByID = stringPtr(createdBy)
	p.ApprovedByID = stringPtr(approvedBy)
	p.ApprovedAt = timePtr(approvedAt)
	p.ClosedAt = timePtr(closedAt)
	return p, nil
}

// Create implements payrun.PayRunRepository.
func (r *payRunRepositoryImpl) Create(ctx context.Context, p payrun.PayRun) (payrun.PayRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO pay_runs (id, company_id, title, period_start, period_end, status, created_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + payRunColumns

	created, err := scanPayRun(q.QueryRow(ctx, query,
		p.ID, p.CompanyID, p.Title, dateOnly(p.PeriodStart), dateOnly(p.PeriodEnd), string(p.Status), p.CreatedByID,
	))
	if err != nil {
		return payrun.PayRun{}, fmt.Errorf("failed to create pay run: %w", err)
	}
	return created, nil
}

// GetByID implements payrun.PayRunRepository.
func (r *payRunRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (payrun.PayRun, error) {
	q := GetQuerier(ctx, r.db)
	return scanPayRun(q.QueryRow(ctx, `SELECT `+payRunColumns+` FROM pay_runs WHERE id = $1 AND company_id = $2`, id, companyID))
}

// GetByIDForUpdate implements payrun.PayRunRepository.
func (r *payRunRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string, companyID string) (payrun.PayRun, error) {
	q := GetQuerier(ctx, r.db)
	return scanPayRun(q.QueryRow(ctx, `SELECT `+payRunColumns+` FROM pay_runs WHERE id = $1 AND company_id = $2 FOR UPDATE`, id, companyID))
}

// List implements payrun.PayRunRepository.
func (r *payRunRepositoryImpl) List(ctx context.Context, filter payrun.PayRunFilter, companyID string) ([]payrun.PayRun, int64, error) {
	q := GetQuerier(ctx, r.db)

	f := newFilter("company_id", companyID)
	f.addString("status = $%d", filter.Status)
	where := f.where()

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM pay_runs WHERE "+where, f.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count pay runs: %w", err)
	}

	order := orderBy(filter.SortBy, filter.SortOrder, map[string]string{
		"createdAt":   "created_at",
		"periodStart": "period_start",
		"title":       "title",
	}, "created_at")
	limit, args := f.page(filter.Page, filter.Limit)

	rows, err := q.Query(ctx, fmt.Sprintf("SELECT %s FROM pay_runs WHERE %s %s %s", payRunColumns, where, order, limit), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pay runs: %w", err)
	}
	defer rows.Close()

	var runs []payrun.PayRun
	for rows.Next() {
		p, err := scanPayRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan pay run: %w", err)
		}
		runs = append(runs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return runs, total, nil
}

// UpdateTotals implements payrun.PayRunRepository.
func (r *payRunRepositoryImpl) UpdateTotals(ctx context.Context, id string, totalGross, totalNet decimal.Decimal, payslipCount int) (payrun.PayRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE pay_runs
		SET total_gross = $1, total_net = $2, payslip_count = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + payRunColumns

	updated, err := scanPayRun(q.QueryRow(ctx, query, totalGross, totalNet, payslipCount, id))
	if err != nil && !errors.Is(err, payrun.ErrPayRunNotFound) {
		return payrun.PayRun{}, fmt.Errorf("failed to update pay run totals: %w", err)
	}
	return updated, err
}

// MarkApproved implements payrun.PayRunRepository.
func (r *payRunRepositoryImpl) MarkApproved(ctx context.Context, id string, companyID string, approvedByID string, at time.Time) (payrun.PayRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE pay_runs
		SET status = 'APPROVED', approved_by_id = $1, approved_at = $2, updated_at = NOW()
		WHERE id = $3 AND company_id = $4 AND status = 'DRAFT'
		RETURNING ` + payRunColumns

	updated, err := scanPayRun(q.QueryRow(ctx, query, approvedByID, at, id, companyID))
	if errors.Is(err, payrun.ErrPayRunNotFound) {
		return payrun.PayRun{}, payrun.ErrInvalidTransition
	}
	if err != nil {
		return payrun.PayRun{}, fmt.Errorf("failed to approve pay run: %w", err)
	}
	return updated, nil
}

// MarkClosed implements payrun.PayRunRepository.
func (r *payRunRepositoryImpl) MarkClosed(ctx context.Context, id string, companyID string, at time.Time) (payrun.PayRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE pay_runs
		SET status = 'CLOSED', closed_at = $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3 AND status = 'APPROVED'
		RETURNING ` + payRunColumns

	updated, err := scanPayRun(q.QueryRow(ctx, query, at, id, companyID))
	if errors.Is(err, payrun.ErrPayRunNotFound) {
		return payrun.PayRun{}, payrun.ErrInvalidTransition
	}
	if err != nil {
		return payrun.PayRun{}, fmt.Errorf("failed to close pay run: %w", err)
	}
	return updated, nil
}

// Delete implements payrun.PayRunRepository. Payslips and their deductions
// cascade.
func (r *payRunRepositoryImpl) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM pay_runs WHERE id = $1 AND company_id = $2 AND status = 'DRAFT'`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete pay run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payrun.ErrOnlyDraftDeletable
	}
	return nil
}

const payslipColumns = `p.id, p.company_id, p.pay_run_id, p.employee_id, p.payslip_number,
	p.gross_amount, p.total_deductions, p.net_amount, p.amount_paid, p.days_worked, p.hours_worked,
	p.status, p.created_at, p.updated_at,
	e.employee_code, e.first_name, e.last_name, r.title, r.status, r.period_start, r.period_end`

const payslipFrom = `payslips p
	JOIN employees e ON e.id = p.employee_id
	JOIN pay_runs r ON r.id = p.pay_run_id`

const payslipNumberConstraint = "payslips_payslip_number_key"

type payslipRepositoryImpl struct {
	db database.Querier
}

func NewPayslipRepository(db database.Querier) payslip.PayslipRepository {
	return &payslipRepositoryImpl{db: db}
}

func scanPayslip(row rowScanner) (payslip.Payslip, error) {
	var (
		p          payslip.Payslip
		daysWorked sql.NullInt32
		hours      decimal.NullDecimal
		status     string
	)
	if err := row.Scan(
		&p.ID, &p.CompanyID, &p.PayRunID, &p.EmployeeID, &p.PayslipNumber,
		&p.GrossAmount, &p.TotalDeductions, &p.NetAmount, &p.AmountPaid, &daysWorked, &hours,
		&status, &p.CreatedAt, &p.UpdatedAt,
		&p.EmployeeCode, &p.EmployeeFirstName, &p.EmployeeLastName, &p.PayRunTitle, &p.PayRunStatus,
		&p.PeriodStart, &p.PeriodEnd,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payslip.Payslip{}, payslip.ErrPayslipNotFound
		}
		return payslip.Payslip{}, err
	}
	p.DaysWorked = intPtr(daysWorked)
	p.HoursWorked = decimalPtr(hours)
	p.Status = payslip.Status(status)
	p.PeriodStart = dateOnly(p.PeriodStart)
	p.PeriodEnd = dateOnly(p.PeriodEnd)
	return p, nil
}

// Create implements payslip.PayslipRepository.
func (r *payslipRepositoryImpl) Create(ctx context.Context, p payslip.Payslip) (payslip.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH p AS (
			INSERT INTO payslips (
				id, company_id, pay_run_id, employee_id, payslip_number,
				gross_amount, total_deductions, net_amount, amount_paid, days_worked, hours_worked, status
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING *
		)
		SELECT ` + payslipColumns + `
		FROM p
		JOIN employees e ON e.id = p.employee_id
		JOIN pay_runs r ON r.id = p.pay_run_id`

	created, err := scanPayslip(q.QueryRow(ctx, query,
		p.ID, p.CompanyID, p.PayRunID, p.EmployeeID, p.PayslipNumber,
		p.GrossAmount, p.TotalDeductions, p.NetAmount, p.AmountPaid, p.DaysWorked, p.HoursWorked, string(p.Status),
	))
	if err != nil {
		if isUniqueViolation(err, payslipNumberConstraint) {
			return payslip.Payslip{}, payslip.ErrPayslipNumberExists
		}
		return payslip.Payslip{}, fmt.Errorf("failed to create payslip: %w", err)
	}
	return created, nil
}

// CreateDeductions implements payslip.PayslipRepository.
func (r *payslipRepositoryImpl) CreateDeductions(ctx context.Context, deductions []payslip.Deduction) error {
	if len(deductions) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	values := make([]string, 0, len(deductions))
	args := make([]any, 0, len(deductions)*6)
	for _, d := range deductions {
		n := len(args)
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6))
		args = append(args, d.ID, d.PayslipID, string(d.Type), d.Description, d.Rate, d.Amount)
	}

	query := "INSERT INTO payslip_deductions (id, payslip_id, type, description, rate, amount) VALUES " + joinComma(values)
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create payslip deductions: %w", err)
	}
	return nil
}

// GetByID implements payslip.PayslipRepository.
func (r *payslipRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (payslip.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payslipColumns + ` FROM ` + payslipFrom + ` WHERE p.id = $1 AND p.company_id = $2`
	return scanPayslip(q.QueryRow(ctx, query, id, companyID))
}

// GetByIDForUpdate implements payslip.PayslipRepository. The payslip row is
// locked for update and its pay run for share, so the run cannot be closed
// until the caller's transaction ends.
func (r *payslipRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string, companyID string) (payslip.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payslipColumns + ` FROM ` + payslipFrom + ` WHERE p.id = $1 AND p.company_id = $2 FOR UPDATE OF p FOR SHARE OF r`
	return scanPayslip(q.QueryRow(ctx, query, id, companyID))
}

// List implements payslip.PayslipRepository.
func (r *payslipRepositoryImpl) List(ctx context.Context, filter payslip.PayslipFilter, companyID string) ([]payslip.Payslip, int64, error) {
	q := GetQuerier(ctx, r.db)

	f := newFilter("p.company_id", companyID)
	f.addString("p.status = $%d", filter.Status)
	f.addString("p.pay_run_id = $%d", filter.PayRunID)
	f.addString("p.employee_id = $%d", filter.EmployeeID)
	where := f.where()

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM payslips p WHERE "+where, f.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payslips: %w", err)
	}

	order := orderBy(filter.SortBy, filter.SortOrder, map[string]string{
		"createdAt":     "p.created_at",
		"netAmount":     "p.net_amount",
		"payslipNumber": "p.payslip_number",
	}, "p.created_at")
	limit, args := f.page(filter.Page, filter.Limit)

	rows, err := q.Query(ctx, fmt.Sprintf("SELECT %s FROM %s WHERE %s %s %s", payslipColumns, payslipFrom, where, order, limit), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	payslips, err := collectPayslips(rows)
	if err != nil {
		return nil, 0, err
	}
	return payslips, total, nil
}

// ListByPayRun implements payslip.PayslipRepository.
func (r *payslipRepositoryImpl) ListByPayRun(ctx context.Context, payRunID string, companyID string) ([]payslip.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payslipColumns + ` FROM ` + payslipFrom + `
		WHERE p.pay_run_id = $1 AND p.company_id = $2
		ORDER BY e.employee_code`
	rows, err := q.Query(ctx, query, payRunID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips of pay run: %w", err)
	}
	defer rows.Close()

	return collectPayslips(rows)
}

// ListDeductions implements payslip.PayslipRepository.
func (r *payslipRepositoryImpl) ListDeductions(ctx context.Context, payslipID string) ([]payslip.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, payslip_id, type, description, rate, amount, created_at
		FROM payslip_deductions
		WHERE payslip_id = $1
		ORDER BY type DESC`, payslipID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslip deductions: %w", err)
	}
	defer rows.Close()

	var deductions []payslip.Deduction
	for rows.Next() {
		var (
			d     payslip.Deduction
			dtype string
		)
		if err := rows.Scan(&d.ID, &d.PayslipID, &dtype, &d.Description, &d.Rate, &d.Amount, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payslip deduction: %w", err)
		}
		d.Type = payslip.DeductionType(dtype)
		deductions = append(deductions, d)
	}
	return deductions, rows.Err()
}

// ReleaseArchived implements payslip.PayslipRepository.
func (r *payslipRepositoryImpl) ReleaseArchived(ctx context.Context, payRunID string, companyID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payslips SET status = 'PENDING', updated_at = NOW()
		WHERE pay_run_id = $1 AND company_id = $2 AND status = 'ARCHIVED'`, payRunID, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to release payslips: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ApplyPayment implements payslip.PayslipRepository. amountPaid is the new
// cumulative total, not the increment.
func (r *payslipRepositoryImpl) ApplyPayment(ctx context.Context, id string, companyID string, amountPaid decimal.Decimal, status payslip.Status) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payslips SET amount_paid = $1, status = $2, updated_at = NOW()
		WHERE id = $3 AND company_id = $4`, amountPaid, string(status), id, companyID)
	if err != nil {
		return fmt.Errorf("failed to apply payment to payslip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payslip.ErrPayslipNotFound
	}
	return nil
}

// UpdateStatus implements payslip.PayslipRepository.
func (r *payslipRepositoryImpl) UpdateStatus(ctx context.Context, id string, companyID string, status payslip.Status) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE payslips SET status = $1, updated_at = NOW() WHERE id = $2 AND company_id = $3`,
		string(status), id, companyID)
	if err != nil {
		return fmt.Errorf("failed to update payslip status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payslip.ErrPayslipNotFound
	}
	return nil
}

// CountByStatus implements payslip.PayslipRepository.
func (r *payslipRepositoryImpl) CountByStatus(ctx context.Context, companyID string) (map[payslip.Status]int64, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT status, COUNT(*) FROM payslips WHERE company_id = $1 GROUP BY status`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to count payslips by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[payslip.Status]int64)
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan payslip count: %w", err)
		}
		counts[payslip.Status(status)] = count
	}
	return counts, rows.Err()
}

func collectPayslips(rows pgx.Rows) ([]payslip.Payslip, error) {
	var payslips []payslip.Payslip
	for rows.Next() {
		p, err := scanPayslip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		payslips = append(payslips, p)
	}
	return payslips, rows.Err()
}
