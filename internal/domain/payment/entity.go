package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Method string

const (
	MethodCash         Method = "CASH"
	MethodBankTransfer Method = "BANK_TRANSFER"
	MethodOrangeMoney  Method = "ORANGE_MONEY"
	MethodWave         Method = "WAVE"
	MethodMobileMoney  Method = "MOBILE_MONEY"
	MethodCheck        Method = "CHECK"
)

// Payment is one disbursement against a payslip. The amounts of a payslip's
// payments never add up to more than its net amount.
type Payment struct {
	ID            string
	CompanyID     string
	PayslipID     string
	Amount        decimal.Decimal
	Method        Method
	Reference     *string
	Notes         *string
	ProcessedByID string
	CreatedAt     time.Time

	// DTO / Join
	PayslipNumber *string
	EmployeeName  *string
}

type MethodTotal struct {
	Method Method
	Count  int64
	Total  decimal.Decimal
}

type Stats struct {
	TotalAmount     decimal.Decimal
	PaymentCount    int64
	ByMethod        []MethodTotal
	PayslipsByState map[string]int64
}
