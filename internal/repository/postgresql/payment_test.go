package postgresql

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payment"
)

func paymentRows(mock pgxmock.PgxPoolIface) *pgxmock.Rows {
	return mock.NewRows([]string{
		"id", "company_id", "payslip_id", "amount", "method", "reference", "notes",
		"processed_by_id", "created_at", "payslip_number", "employee_name",
	})
}

func TestPaymentRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPaymentRepository(mock)
	amount := decimal.RequireFromString("100000")
	ref := "OM-7781"

	mock.ExpectQuery("INSERT INTO payments").
		WithArgs("pm-1", testCompanyID, testPayslipID, amount, "ORANGE_MONEY", &ref, pgxmock.AnyArg(), "u-cashier").
		WillReturnRows(paymentRows(mock).AddRow("pm-1", testCompanyID, testPayslipID, "100000.00", "ORANGE_MONEY", ref, nil,
			"u-cashier", fixedNow, "PS-202501-0001", "Awa Diop"))

	// Act
	created, err := repo.Create(context.Background(), payment.Payment{
		ID: "pm-1", CompanyID: testCompanyID, PayslipID: testPayslipID, Amount: amount,
		Method: payment.MethodOrangeMoney, Reference: &ref, ProcessedByID: "u-cashier",
	})

	// Assert
	require.NoError(t, err)
	assert.True(t, created.Amount.Equal(amount))
	require.NotNil(t, created.PayslipNumber)
	assert.Equal(t, "PS-202501-0001", *created.PayslipNumber)
	assert.Nil(t, created.Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_GetByID_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPaymentRepository(mock)

	mock.ExpectQuery("pm.id = \\$1 AND pm.company_id = \\$2").
		WithArgs("pm-x", testCompanyID).
		WillReturnError(pgx.ErrNoRows)

	// Act
	_, err := repo.GetByID(context.Background(), "pm-x", testCompanyID)

	// Assert
	assert.ErrorIs(t, err, payment.ErrPaymentNotFound)
}

func TestPaymentRepository_List(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPaymentRepository(mock)
	method := "WAVE"
	from := "2025-01-01"

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM payments pm WHERE pm.company_id = \\$1 AND pm.method = \\$2 AND pm.created_at::date >= \\$3").
		WithArgs(testCompanyID, method, from).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("ORDER BY pm.amount DESC LIMIT \\$4 OFFSET \\$5").
		WithArgs(testCompanyID, method, from, 20, 0).
		WillReturnRows(paymentRows(mock).AddRow("pm-1", testCompanyID, testPayslipID, "5000.00", "WAVE", nil, nil,
			"u-cashier", fixedNow, "PS-202501-0001", "Awa Diop"))

	// Act
	payments, total, err := repo.List(context.Background(), payment.PaymentFilter{
		Method: &method, From: &from, SortBy: "amount",
	}, testCompanyID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, payments, 1)
	assert.Equal(t, payment.MethodWave, payments[0].Method)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_Stats(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPaymentRepository(mock)
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("GROUP BY method").
		WithArgs(testCompanyID, from, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)).
		WillReturnRows(mock.NewRows([]string{"method", "count", "sum"}).
			AddRow("CASH", int64(2), "150000.00").
			AddRow("WAVE", int64(1), "41525.00"))

	// Act
	stats, err := repo.Stats(context.Background(), testCompanyID, &from, &to)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.PaymentCount)
	assert.True(t, stats.TotalAmount.Equal(decimal.RequireFromString("191525")))
	require.Len(t, stats.ByMethod, 2)
	assert.Equal(t, payment.MethodCash, stats.ByMethod[0].Method)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_Stats_Unbounded(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPaymentRepository(mock)

	mock.ExpectQuery("WHERE company_id = \\$1\\s+GROUP BY method").
		WithArgs(testCompanyID).
		WillReturnRows(mock.NewRows([]string{"method", "count", "sum"}))

	// Act
	stats, err := repo.Stats(context.Background(), testCompanyID, nil, nil)

	// Assert
	require.NoError(t, err)
	assert.True(t, stats.TotalAmount.IsZero())
	assert.Empty(t, stats.ByMethod)
}
