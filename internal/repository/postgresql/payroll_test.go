package postgresql

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payrun"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payslip"
)

const (
	testPayRunID  = "0193a6b2-0000-7000-8000-0000000000a1"
	testPayslipID = "0193a6b2-0000-7000-8000-0000000000b1"
)

var (
	periodStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
)

func payRunRows(mock pgxmock.PgxPoolIface) *pgxmock.Rows {
	return mock.NewRows([]string{
		"id", "company_id", "title", "period_start", "period_end", "status", "total_gross", "total_net",
		"payslip_count", "created_by_id", "approved_by_id", "approved_at", "closed_at", "created_at", "updated_at",
	})
}

func payslipRows(mock pgxmock.PgxPoolIface) *pgxmock.Rows {
	return mock.NewRows([]string{
		"id", "company_id", "pay_run_id", "employee_id", "payslip_number",
		"gross_amount", "total_deductions", "net_amount", "amount_paid", "days_worked", "hours_worked",
		"status", "created_at", "updated_at",
		"employee_code", "first_name", "last_name", "title", "run_status", "period_start", "period_end",
	})
}

func pendingPayslipRow(rows *pgxmock.Rows) *pgxmock.Rows {
	return rows.AddRow(testPayslipID, testCompanyID, testPayRunID, testEmployeeID, "PS-202501-0001",
		"345000.00", "53475.00", "291525.00", "100000.00", int64(23), nil,
		"PARTIAL", fixedNow, fixedNow,
		"EMP-001", "Awa", "Diop", "Janvier 2025", "APPROVED", periodStart, periodEnd)
}

func TestPayRunRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPayRunRepository(mock)
	actor := "u-admin"

	mock.ExpectQuery("INSERT INTO pay_runs").
		WithArgs(testPayRunID, testCompanyID, "Janvier 2025", periodStart, periodEnd, "DRAFT", &actor).
		WillReturnRows(payRunRows(mock).AddRow(testPayRunID, testCompanyID, "Janvier 2025", periodStart, periodEnd, "DRAFT",
			"0", "0", 0, actor, nil, nil, nil, fixedNow, fixedNow))

	// Act
	run, err := repo.Create(context.Background(), payrun.PayRun{
		ID: testPayRunID, CompanyID: testCompanyID, Title: "Janvier 2025",
		PeriodStart: periodStart, PeriodEnd: periodEnd, Status: payrun.StatusDraft, CreatedByID: &actor,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, payrun.StatusDraft, run.Status)
	assert.True(t, run.TotalGross.IsZero())
	require.NotNil(t, run.CreatedByID)
	assert.Nil(t, run.ApprovedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayRunRepository_GetByIDForUpdate_Locks(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPayRunRepository(mock)

	mock.ExpectQuery("FROM pay_runs WHERE id = \\$1 AND company_id = \\$2 FOR UPDATE").
		WithArgs(testPayRunID, testCompanyID).
		WillReturnError(pgx.ErrNoRows)

	// Act
	_, err := repo.GetByIDForUpdate(context.Background(), testPayRunID, testCompanyID)

	// Assert
	assert.ErrorIs(t, err, payrun.ErrPayRunNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayRunRepository_MarkApproved_RequiresDraft(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPayRunRepository(mock)

	mock.ExpectQuery("status = 'DRAFT'").
		WithArgs("u-admin", fixedNow, testPayRunID, testCompanyID).
		WillReturnError(pgx.ErrNoRows)

	// Act
	_, err := repo.MarkApproved(context.Background(), testPayRunID, testCompanyID, "u-admin", fixedNow)

	// Assert
	assert.ErrorIs(t, err, payrun.ErrInvalidTransition)
}

func TestPayRunRepository_MarkClosed(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPayRunRepository(mock)

	mock.ExpectQuery("SET status = 'CLOSED'").
		WithArgs(fixedNow, testPayRunID, testCompanyID).
		WillReturnRows(payRunRows(mock).AddRow(testPayRunID, testCompanyID, "Janvier 2025", periodStart, periodEnd, "CLOSED",
			"345000.00", "291525.00", 1, nil, "u-admin", fixedNow, fixedNow, fixedNow, fixedNow))

	// Act
	run, err := repo.MarkClosed(context.Background(), testPayRunID, testCompanyID, fixedNow)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, payrun.StatusClosed, run.Status)
	require.NotNil(t, run.ClosedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayRunRepository_Delete_OnlyDraft(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPayRunRepository(mock)

	mock.ExpectExec("DELETE FROM pay_runs").
		WithArgs(testPayRunID, testCompanyID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	// Act
	err := repo.Delete(context.Background(), testPayRunID, testCompanyID)

	// Assert
	assert.ErrorIs(t, err, payrun.ErrOnlyDraftDeletable)
}

func TestPayRunRepository_List(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPayRunRepository(mock)
	status := "APPROVED"

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(testCompanyID, status).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery("ORDER BY period_start DESC").
		WithArgs(testCompanyID, status, 20, 0).
		WillReturnRows(payRunRows(mock))

	// Act
	runs, total, err := repo.List(context.Background(), payrun.PayRunFilter{Status: &status, SortBy: "periodStart"}, testCompanyID)

	// Assert
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, runs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayslipRepository_Create_DuplicateNumber(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPayslipRepository(mock)

	mock.ExpectQuery("INSERT INTO payslips").
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: payslipNumberConstraint})

	// Act
	_, err := repo.Create(context.Background(), payslip.Payslip{ID: testPayslipID, PayslipNumber: "PS-202501-0001"})

	// Assert
	assert.ErrorIs(t, err, payslip.ErrPayslipNumberExists)
}

func TestPayslipRepository_CreateDeductions(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPayslipRepository(mock)
	deductions := []payslip.Deduction{
		{ID: "d-1", PayslipID: testPayslipID, Type: payslip.DeductionTax, Description: "Impôt", Rate: decimal.RequireFromString("0.10"), Amount: decimal.RequireFromString("34500")},
		{ID: "d-2", PayslipID: testPayslipID, Type: payslip.DeductionSocial, Description: "Sécurité sociale", Rate: decimal.RequireFromString("0.055"), Amount: decimal.RequireFromString("18975")},
	}

	mock.ExpectExec("INSERT INTO payslip_deductions .* VALUES \\(\\$1, .*\\(\\$7, \\$8, \\$9, \\$10, \\$11, \\$12\\)").
		WithArgs("d-1", testPayslipID, "TAX", "Impôt", deductions[0].Rate, deductions[0].Amount,
			"d-2", testPayslipID, "SOCIAL", "Sécurité sociale", deductions[1].Rate, deductions[1].Amount).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))

	// Act
	err := repo.CreateDeductions(context.Background(), deductions)

	// Assert
	require.NoError(t, err)
	assert.NoError(t, repo.CreateDeductions(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayslipRepository_GetByIDForUpdate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPayslipRepository(mock)

	mock.ExpectQuery(`FOR UPDATE OF p FOR SHARE OF r$`).
		WithArgs(testPayslipID, testCompanyID).
		WillReturnRows(pendingPayslipRow(payslipRows(mock)))

	// Act
	p, err := repo.GetByIDForUpdate(context.Background(), testPayslipID, testCompanyID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, payslip.StatusPartial, p.Status)
	assert.True(t, p.Remaining().Equal(decimal.RequireFromString("191525")))
	require.NotNil(t, p.DaysWorked)
	assert.Equal(t, 23, *p.DaysWorked)
	assert.Nil(t, p.HoursWorked)
	assert.Equal(t, "APPROVED", p.PayRunStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayslipRepository_ReleaseArchived(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPayslipRepository(mock)

	mock.ExpectExec("SET status = 'PENDING'").
		WithArgs(testPayRunID, testCompanyID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	// Act
	released, err := repo.ReleaseArchived(context.Background(), testPayRunID, testCompanyID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(3), released)
}

func TestPayslipRepository_ApplyPayment(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPayslipRepository(mock)
	paid := decimal.RequireFromString("291525")

	mock.ExpectExec("SET amount_paid = \\$1, status = \\$2").
		WithArgs(paid, "PAID", testPayslipID, testCompanyID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	// Act
	err := repo.ApplyPayment(context.Background(), testPayslipID, testCompanyID, paid, payslip.StatusPaid)

	// Assert
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayslipRepository_UpdateStatus_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPayslipRepository(mock)

	mock.ExpectExec("UPDATE payslips SET status").
		WithArgs("PENDING", testPayslipID, testCompanyID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	// Act
	err := repo.UpdateStatus(context.Background(), testPayslipID, testCompanyID, payslip.StatusPending)

	// Assert
	assert.ErrorIs(t, err, payslip.ErrPayslipNotFound)
}

func TestPayslipRepository_CountByStatus(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPayslipRepository(mock)

	mock.ExpectQuery("GROUP BY status").
		WithArgs(testCompanyID).
		WillReturnRows(mock.NewRows([]string{"status", "count"}).
			AddRow("PENDING", int64(4)).
			AddRow("PAID", int64(2)))

	// Act
	counts, err := repo.CountByStatus(context.Background(), testCompanyID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(4), counts[payslip.StatusPending])
	assert.Equal(t, int64(2), counts[payslip.StatusPaid])
}

func TestPayslipRepository_ListDeductions(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPayslipRepository(mock)

	mock.ExpectQuery("FROM payslip_deductions").
		WithArgs(testPayslipID).
		WillReturnRows(mock.NewRows([]string{"id", "payslip_id", "type", "description", "rate", "amount", "created_at"}).
			AddRow("d-1", testPayslipID, "TAX", "Impôt", "0.1000", "34500.00", fixedNow))

	// Act
	deductions, err := repo.ListDeductions(context.Background(), testPayslipID)

	// Assert
	require.NoError(t, err)
	require.Len(t, deductions, 1)
	assert.Equal(t, payslip.DeductionTax, deductions[0].Type)
	assert.True(t, deductions[0].Rate.Equal(decimal.RequireFromString("0.1")))
}
