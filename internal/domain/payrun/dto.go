package payrun

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payslip"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/validator"
)

type PayRunResponse struct {
	ID           string                    `json:"id"`
	CompanyID    string                    `json:"companyId"`
	Title        string                    `json:"title"`
	PeriodStart  string                    `json:"periodStart"`
	PeriodEnd    string                    `json:"periodEnd"`
	Status       Status                    `json:"status"`
	TotalGross   decimal.Decimal           `json:"totalGross"`
	TotalNet     decimal.Decimal           `json:"totalNet"`
	PayslipCount int                       `json:"payslipCount"`
	CreatedByID  *string                   `json:"createdById,omitempty"`
	ApprovedByID *string                   `json:"approvedById,omitempty"`
	ApprovedAt   *time.Time                `json:"approvedAt,omitempty"`
	ClosedAt     *time.Time                `json:"closedAt,omitempty"`
	CreatedAt    time.Time                 `json:"createdAt"`
	UpdatedAt    time.Time                 `json:"updatedAt"`
	Payslips     []payslip.PayslipResponse `json:"payslips,omitempty"`
}

func NewPayRunResponse(p PayRun) PayRunResponse {
	return PayRunResponse{
		ID:           p.ID,
		CompanyID:    p.CompanyID,
		Title:        p.Title,
		PeriodStart:  p.PeriodStart.Format(time.DateOnly),
		PeriodEnd:    p.PeriodEnd.Format(time.DateOnly),
		Status:       p.Status,
		TotalGross:   p.TotalGross,
		TotalNet:     p.TotalNet,
		PayslipCount: p.PayslipCount,
		CreatedByID:  p.CreatedByID,
		ApprovedByID: p.ApprovedByID,
		ApprovedAt:   p.ApprovedAt,
		ClosedAt:     p.ClosedAt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

type CreatePayRunRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	PeriodStart string `json:"periodStart" validate:"required,date"`
	PeriodEnd   string `json:"periodEnd" validate:"required,date"`

	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

func (r *CreatePayRunRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)

	errs := validator.Struct(r)
	if len(errs) > 0 {
		return errs
	}

	r.Start, _ = validator.IsValidDate(r.PeriodStart)
	r.End, _ = validator.IsValidDate(r.PeriodEnd)
	if !r.Start.Before(r.End) {
		errs.Add("periodEnd", ErrInvalidPeriod.Error())
	}
	return errs.Err()
}

type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=DRAFT APPROVED CLOSED"`
}

func (r *UpdateStatusRequest) Validate() error {
	return validator.Struct(r).Err()
}

type PayRunFilter struct {
	Status    *string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}
