package employee

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/company"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/employee"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/validator"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/service/servicetest"
)

func strPtr(s string) *string { return &s }

func newEmployeeService() (*servicetest.Store, employee.EmployeeService) {
	store := servicetest.NewStore()
	store.Companies["c-1"] = company.Company{ID: "c-1", Name: "Acme", IsActive: true}
	store.Companies["c-2"] = company.Company{ID: "c-2", Name: "Globex", IsActive: true}
	return store, NewEmployeeService(servicetest.EmployeeRepo{Store: store}, servicetest.CompanyRepo{Store: store})
}

func dailyWorker(code string) employee.CreateEmployeeRequest {
	rate := decimal.NewFromInt(5000)
	return employee.CreateEmployeeRequest{
		EmployeeCode: code,
		FirstName:    "Moussa",
		LastName:     "Ndiaye",
		ContractType: employee.ContractDaily,
		DailyRate:    &rate,
		HireDate:     "2024-06-01",
	}
}

func TestEmployeeService_Create(t *testing.T) {
	_, svc := newEmployeeService()

	// Act
	created, err := svc.Create(context.Background(), "c-1", dailyWorker("EMP-001"))

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "c-1", created.CompanyID)
	assert.Equal(t, "2024-06-01", created.HireDate)
	assert.True(t, created.IsActive)
	require.NotNil(t, created.DailyRate)
	assert.True(t, decimal.NewFromInt(5000).Equal(*created.DailyRate))
}

func TestEmployeeService_Create_CodeUniquePerCompany(t *testing.T) {
	_, svc := newEmployeeService()
	ctx := context.Background()
	_, err := svc.Create(ctx, "c-1", dailyWorker("EMP-001"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, "c-1", dailyWorker("EMP-001"))
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)

	_, err = svc.Create(ctx, "c-2", dailyWorker("EMP-001"))
	assert.NoError(t, err, "codes are scoped to a company")
}

func TestEmployeeService_Create_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid request writes nothing", func(t *testing.T) {
		store, svc := newEmployeeService()
		req := dailyWorker("")
		req.HireDate = "June 1st"

		_, err := svc.Create(ctx, "c-1", req)

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs.ToMap(), "employeeCode")
		assert.Contains(t, verrs.ToMap(), "hireDate")
		assert.Zero(t, store.WriteCount())
	})

	t.Run("unknown company", func(t *testing.T) {
		_, svc := newEmployeeService()

		_, err := svc.Create(ctx, "c-404", dailyWorker("EMP-001"))

		assert.ErrorIs(t, err, company.ErrCompanyNotFound)
	})
}

func TestEmployeeService_UpdateAndStatus(t *testing.T) {
	_, svc := newEmployeeService()
	ctx := context.Background()
	created, err := svc.Create(ctx, "c-1", dailyWorker("EMP-001"))
	require.NoError(t, err)

	salary := decimal.NewFromInt(350000)
	fixed := employee.ContractFixed
	updated, err := svc.Update(ctx, "c-1", created.ID, employee.UpdateEmployeeRequest{ContractType: &fixed, FixedSalary: &salary, Position: strPtr("Accountant")})
	require.NoError(t, err)
	assert.Equal(t, employee.ContractFixed, updated.ContractType)
	assert.Equal(t, "Accountant", *updated.Position)

	deactivated, err := svc.SetActive(ctx, "c-1", created.ID, false)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	_, err = svc.Update(ctx, "c-2", created.ID, employee.UpdateEmployeeRequest{Position: strPtr("Spy")})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeService_ListAndDelete(t *testing.T) {
	_, svc := newEmployeeService()
	ctx := context.Background()
	first, err := svc.Create(ctx, "c-1", dailyWorker("EMP-001"))
	require.NoError(t, err)
	other := dailyWorker("EMP-002")
	other.FirstName = "Fatou"
	_, err = svc.Create(ctx, "c-1", other)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "c-2", dailyWorker("EMP-001"))
	require.NoError(t, err)

	all, total, err := svc.List(ctx, "c-1", employee.EmployeeFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	found, _, err := svc.List(ctx, "c-1", employee.EmployeeFilter{Search: strPtr("fatou")})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "EMP-002", found[0].EmployeeCode)

	require.NoError(t, svc.Delete(ctx, "c-1", first.ID))
	_, err = svc.GetByID(ctx, "c-1", first.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "c-1", first.ID), employee.ErrEmployeeNotFound)
}
