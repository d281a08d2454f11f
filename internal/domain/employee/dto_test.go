package employee

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/validator"
)

func TestCreateEmployeeRequest_Validate(t *testing.T) {
	rate := decimal.NewFromInt(5000)
	req := CreateEmployeeRequest{
		EmployeeCode: " EMP-001 ",
		FirstName:    "Awa",
		LastName:     "Diop",
		ContractType: ContractDaily,
		DailyRate:    &rate,
		HireDate:     "2024-03-01",
	}

	require.NoError(t, req.Validate())
	assert.Equal(t, "EMP-001", req.EmployeeCode)
}

func TestCreateEmployeeRequest_ValidateRejectsBadInput(t *testing.T) {
	negative := decimal.NewFromInt(-1)
	fraction := decimal.RequireFromString("10.123")
	req := CreateEmployeeRequest{
		ContractType: "WEEKLY",
		DailyRate:    &negative,
		HourlyRate:   &fraction,
		HireDate:     "01/03/2024",
	}

	// Act
	err := req.Validate()

	// Assert
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	m := errs.ToMap()
	assert.Contains(t, m, "employeeCode")
	assert.Contains(t, m, "firstName")
	assert.Contains(t, m, "contractType")
	assert.Contains(t, m, "hireDate")
	assert.Equal(t, "dailyRate must not be negative", m["dailyRate"])
	assert.Equal(t, "hourlyRate must have at most 2 decimal places", m["hourlyRate"])
}

func TestEmployee_Rate(t *testing.T) {
	daily := decimal.NewFromInt(5000)
	fixed := decimal.NewFromInt(300000)
	e := Employee{ContractType: ContractFixed, DailyRate: &daily, FixedSalary: &fixed}

	require.NotNil(t, e.Rate())
	assert.True(t, e.Rate().Equal(fixed))

	e.ContractType = ContractHonorarium
	assert.Nil(t, e.Rate())
}
