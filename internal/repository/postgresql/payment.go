package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payment"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/database"
)

const paymentColumns = `pm.id, pm.company_id, pm.payslip_id, pm.amount, pm.method, pm.reference, pm.notes,
	pm.processed_by_id, pm.created_at, p.payslip_number, e.first_name || ' ' || e.last_name`

const paymentFrom = `payments pm
	JOIN payslips p ON p.id = pm.payslip_id
	JOIN employees e ON e.id = p.employee_id`

type paymentRepositoryImpl struct {
	db database.Querier
}

func NewPaymentRepository(db database.Querier) payment.PaymentRepository {
	return &paymentRepositoryImpl{db: db}
}

func scanPayment(row rowScanner) (payment.Payment, error) {
	var (
		p                       payment.Payment
		method                  string
		reference, notes        sql.NullString
		payslipNumber, employee sql.NullString
	)
	if err := row.Scan(
		&p.ID, &p.CompanyID, &p.PayslipID, &p.Amount, &method, &reference, &notes,
		&p.ProcessedByID, &p.CreatedAt, &payslipNumber, &employee,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payment.Payment{}, payment.ErrPaymentNotFound
		}
		return payment.Payment{}, err
	}
	p.Method = payment.Method(method)
	p.Reference = stringPtr(reference)
	p.Notes = stringPtr(notes)
	p.PayslipNumber = stringPtr(payslipNumber)
	p.EmployeeName = stringPtr(employee)
	return p, nil
}

// Create implements payment.PaymentRepository.
func (r *paymentRepositoryImpl) Create(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH pm AS (
			INSERT INTO payments (id, company_id, payslip_id, amount, method, reference, notes, processed_by_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING *
		)
		SELECT ` + paymentColumns + `
		FROM pm
		JOIN payslips p ON p.id = pm.payslip_id
		JOIN employees e ON e.id = p.employee_id`

	created, err := scanPayment(q.QueryRow(ctx, query,
		p.ID, p.CompanyID, p.PayslipID, p.Amount, string(p.Method), p.Reference, p.Notes, p.ProcessedByID,
	))
	if err != nil {
		return payment.Payment{}, fmt.Errorf("failed to create payment: %w", err)
	}
	return created, nil
}

// GetByID implements payment.PaymentRepository.
func (r *paymentRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (payment.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + paymentColumns + ` FROM ` + paymentFrom + ` WHERE pm.id = $1 AND pm.company_id = $2`
	return scanPayment(q.QueryRow(ctx, query, id, companyID))
}

// List implements payment.PaymentRepository. from and to bound the
// payment date, both inclusive.
func (r *paymentRepositoryImpl) List(ctx context.Context, filter payment.PaymentFilter, companyID string) ([]payment.Payment, int64, error) {
	q := GetQuerier(ctx, r.db)

	f := newFilter("pm.company_id", companyID)
	f.addString("pm.payslip_id = $%d", filter.PayslipID)
	f.addString("pm.method = $%d", filter.Method)
	f.addString("pm.created_at::date >= $%d", filter.From)
	f.addString("pm.created_at::date <= $%d", filter.To)
	where := f.where()

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM payments pm WHERE "+where, f.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	order := orderBy(filter.SortBy, filter.SortOrder, map[string]string{
		"createdAt": "pm.created_at",
		"amount":    "pm.amount",
		"method":    "pm.method",
	}, "pm.created_at")
	limit, args := f.page(filter.Page, filter.Limit)

	rows, err := q.Query(ctx, fmt.Sprintf("SELECT %s FROM %s WHERE %s %s %s", paymentColumns, paymentFrom, where, order, limit), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments, err := collectPayments(rows)
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// ListByPayslip implements payment.PaymentRepository.
func (r *paymentRepositoryImpl) ListByPayslip(ctx context.Context, payslipID string, companyID string) ([]payment.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + paymentColumns + ` FROM ` + paymentFrom + `
		WHERE pm.payslip_id = $1 AND pm.company_id = $2
		ORDER BY pm.created_at`
	rows, err := q.Query(ctx, query, payslipID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments of payslip: %w", err)
	}
	defer rows.Close()

	return collectPayments(rows)
}

// Stats implements payment.PaymentRepository. PayslipsByState is filled by
// the payslip repository.
func (r *paymentRepositoryImpl) Stats(ctx context.Context, companyID string, from, to *time.Time) (payment.Stats, error) {
	q := GetQuerier(ctx, r.db)

	f := newFilter("company_id", companyID)
	if from != nil {
		f.add("created_at >= $%d", *from)
	}
	if to != nil {
		f.add("created_at < $%d", to.AddDate(0, 0, 1))
	}

	rows, err := q.Query(ctx, `
		SELECT method, COUNT(*), COALESCE(SUM(amount), 0)
		FROM payments
		WHERE `+f.where()+`
		GROUP BY method
		ORDER BY method`, f.args...)
	if err != nil {
		return payment.Stats{}, fmt.Errorf("failed to compute payment stats: %w", err)
	}
	defer rows.Close()

	stats := payment.Stats{TotalAmount: decimal.Zero}
	for rows.Next() {
		var (
			m      payment.MethodTotal
			method string
		)
		if err := rows.Scan(&method, &m.Count, &m.Total); err != nil {
			return payment.Stats{}, fmt.Errorf("failed to scan payment stats: %w", err)
		}
		m.Method = payment.Method(method)
		stats.ByMethod = append(stats.ByMethod, m)
		stats.PaymentCount += m.Count
		stats.TotalAmount = stats.TotalAmount.Add(m.Total)
	}
	return stats, rows.Err()
}

func collectPayments(rows pgx.Rows) ([]payment.Payment, error) {
	var payments []payment.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
