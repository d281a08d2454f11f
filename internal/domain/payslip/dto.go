package payslip

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/validator"
)

type DeductionResponse struct {
	ID          string          `json:"id"`
	Type        DeductionType   `json:"type"`
	Description string          `json:"description"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

type PayslipResponse struct {
	ID              string              `json:"id"`
	CompanyID       string              `json:"companyId"`
	PayRunID        string              `json:"payRunId"`
	PayRunTitle     string              `json:"payRunTitle,omitempty"`
	PayRunStatus    string              `json:"payRunStatus,omitempty"`
	EmployeeID      string              `json:"employeeId"`
	EmployeeCode    string              `json:"employeeCode,omitempty"`
	EmployeeName    string              `json:"employeeName,omitempty"`
	PayslipNumber   string              `json:"payslipNumber"`
	GrossAmount     decimal.Decimal     `json:"grossAmount"`
	TotalDeductions decimal.Decimal     `json:"totalDeductions"`
	NetAmount       decimal.Decimal     `json:"netAmount"`
	AmountPaid      decimal.Decimal     `json:"amountPaid"`
	RemainingAmount decimal.Decimal     `json:"remainingAmount"`
	DaysWorked      *int                `json:"daysWorked,omitempty"`
	HoursWorked     *decimal.Decimal    `json:"hoursWorked,omitempty"`
	Status          Status              `json:"status"`
	Deductions      []DeductionResponse `json:"deductions,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

func NewPayslipResponse(p Payslip) PayslipResponse {
	resp := PayslipResponse{
		ID:              p.ID,
		CompanyID:       p.CompanyID,
		PayRunID:        p.PayRunID,
		PayRunTitle:     p.PayRunTitle,
		PayRunStatus:    p.PayRunStatus,
		EmployeeID:      p.EmployeeID,
		EmployeeCode:    p.EmployeeCode,
		PayslipNumber:   p.PayslipNumber,
		GrossAmount:     p.GrossAmount,
		TotalDeductions: p.TotalDeductions,
		NetAmount:       p.NetAmount,
		AmountPaid:      p.AmountPaid,
		RemainingAmount: p.Remaining(),
		DaysWorked:      p.DaysWorked,
		HoursWorked:     p.HoursWorked,
		Status:          p.Status,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.EmployeeFirstName != "" || p.EmployeeLastName != "" {
		resp.EmployeeName = p.EmployeeFirstName + " " + p.EmployeeLastName
	}
	for _, d := range p.Deductions {
		resp.Deductions = append(resp.Deductions, DeductionResponse{
			ID:          d.ID,
			Type:        d.Type,
			Description: d.Description,
			Rate:        d.Rate,
			Amount:      d.Amount,
		})
	}
	return resp
}

type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=ARCHIVED PENDING PARTIAL PAID"`
}

func (r *UpdateStatusRequest) Validate() error {
	return validator.Struct(r).Err()
}

type PayslipFilter struct {
	Status     *string
	PayRunID   *string
	EmployeeID *string
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}

// Document is a rendered payslip ready to be streamed.
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}
