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
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/employee"
)

const testEmployeeID = "0193a6b2-0000-7000-8000-0000000000e1"

func employeeRows(mock pgxmock.PgxPoolIface) *pgxmock.Rows {
	return mock.NewRows([]string{
		"id", "company_id", "employee_code", "first_name", "last_name", "email", "phone", "position",
		"contract_type", "daily_rate", "fixed_salary", "hourly_rate", "hire_date", "is_active", "created_at", "updated_at",
	})
}

func dailyEmployeeRow(rows *pgxmock.Rows) *pgxmock.Rows {
	return rows.AddRow(testEmployeeID, testCompanyID, "EMP-001", "Awa", "Diop", nil, nil, "Caissière",
		"DAILY", "15000.00", nil, nil, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), true, fixedNow, fixedNow)
}

func TestEmployeeRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)
	rate := decimal.RequireFromString("15000")

	mock.ExpectQuery("INSERT INTO employees").
		WithArgs(testEmployeeID, testCompanyID, "EMP-001", "Awa", "Diop",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "DAILY",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), true).
		WillReturnRows(dailyEmployeeRow(employeeRows(mock)))

	// Act
	created, err := repo.Create(context.Background(), employee.Employee{
		ID: testEmployeeID, CompanyID: testCompanyID, EmployeeCode: "EMP-001", FirstName: "Awa", LastName: "Diop",
		ContractType: employee.ContractDaily, DailyRate: &rate, HireDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), IsActive: true,
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, created.DailyRate)
	assert.True(t, created.DailyRate.Equal(rate))
	assert.Nil(t, created.FixedSalary)
	assert.Nil(t, created.Email)
	require.NotNil(t, created.Position)
	assert.Equal(t, "Caissière", *created.Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Create_DuplicateCode(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery("INSERT INTO employees").
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: employeeCodeConstraint})

	// Act
	_, err := repo.Create(context.Background(), employee.Employee{ID: testEmployeeID, CompanyID: testCompanyID, EmployeeCode: "EMP-001"})

	// Assert
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)
}

func TestEmployeeRepository_GetByID_ScopedToCompany(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery("FROM employees WHERE id = \\$1 AND company_id = \\$2").
		WithArgs(testEmployeeID, "other-company").
		WillReturnError(pgx.ErrNoRows)

	// Act
	_, err := repo.GetByID(context.Background(), testEmployeeID, "other-company")

	// Assert
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_List_Filters(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)
	search := "awa"
	contract := "DAILY"
	active := true

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM employees WHERE company_id = \\$1 AND \\(first_name ILIKE \\$2").
		WithArgs(testCompanyID, "%awa%", "DAILY", true).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("ORDER BY employee_code ASC LIMIT \\$5 OFFSET \\$6").
		WithArgs(testCompanyID, "%awa%", "DAILY", true, 20, 0).
		WillReturnRows(dailyEmployeeRow(employeeRows(mock)))

	// Act
	employees, total, err := repo.List(context.Background(), employee.EmployeeFilter{
		Search: &search, ContractType: &contract, IsActive: &active, SortBy: "employeeCode", SortOrder: "asc",
	}, testCompanyID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, employees, 1)
	assert.Equal(t, "EMP-001", employees[0].EmployeeCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Update(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)
	phone := "+221770000000"

	mock.ExpectQuery("UPDATE employees SET phone = \\$1, updated_at = \\$2 WHERE id = \\$3 AND company_id = \\$4").
		WithArgs(phone, pgxmock.AnyArg(), testEmployeeID, testCompanyID).
		WillReturnRows(dailyEmployeeRow(employeeRows(mock)))

	// Act
	_, err := repo.Update(context.Background(), testEmployeeID, testCompanyID, employee.UpdateEmployeeRequest{Phone: &phone})

	// Assert
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Delete(t *testing.T) {
	tests := []struct {
		name    string
		result  pgconn.CommandTag
		dbErr   error
		wantErr error
	}{
		{name: "deleted", result: pgxmock.NewResult("DELETE", 1)},
		{name: "missing", result: pgxmock.NewResult("DELETE", 0), wantErr: employee.ErrEmployeeNotFound},
		{name: "has records", dbErr: &pgconn.PgError{Code: foreignKeyViolationCode}, wantErr: employee.ErrEmployeeHasRecords},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			repo := NewEmployeeRepository(mock)

			exp := mock.ExpectExec("DELETE FROM employees").WithArgs(testEmployeeID, testCompanyID)
			if tt.dbErr != nil {
				exp.WillReturnError(tt.dbErr)
			} else {
				exp.WillReturnResult(tt.result)
			}

			// Act
			err := repo.Delete(context.Background(), testEmployeeID, testCompanyID)

			// Assert
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEmployeeRepository_GetActiveByCompanyID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery("is_active = TRUE").
		WithArgs(testCompanyID).
		WillReturnRows(dailyEmployeeRow(employeeRows(mock)))

	// Act
	employees, err := repo.GetActiveByCompanyID(context.Background(), testCompanyID)

	// Assert
	require.NoError(t, err)
	assert.Len(t, employees, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
