package payslip

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	net := decimal.NewFromInt(253500)

	tests := []struct {
		name string
		paid string
		want Status
	}{
		{"nothing paid", "0", StatusPending},
		{"partially paid", "100000", StatusPartial},
		{"one cent short", "253499.99", StatusPartial},
		{"fully paid", "253500", StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(decimal.RequireFromString(tt.paid), net))
		})
	}
}

func TestPayslip_Remaining(t *testing.T) {
	p := Payslip{NetAmount: decimal.NewFromInt(253500), AmountPaid: decimal.NewFromInt(100000)}

	assert.True(t, p.Remaining().Equal(decimal.NewFromInt(153500)))
}
