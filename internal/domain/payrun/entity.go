package payrun

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusApproved Status = "APPROVED"
	StatusClosed   Status = "CLOSED"
)

// CanTransition reports whether a pay run may move from one status to
// another. CLOSED is terminal.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusDraft:
		return to == StatusApproved
	case StatusApproved:
		return to == StatusClosed
	default:
		return false
	}
}

type PayRun struct {
	ID           string
	CompanyID    string
	Title        string
	PeriodStart  time.Time
	PeriodEnd    time.Time
	Status       Status
	TotalGross   decimal.Decimal
	TotalNet     decimal.Decimal
	PayslipCount int
	CreatedByID  *string
	ApprovedByID *string
	ApprovedAt   *time.Time
	ClosedAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
