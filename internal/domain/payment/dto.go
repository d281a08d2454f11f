package payment

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payslip"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/validator"
)

type PaymentResponse struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"companyId"`
	PayslipID     string          `json:"payslipId"`
	PayslipNumber *string         `json:"payslipNumber,omitempty"`
	EmployeeName  *string         `json:"employeeName,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Method        Method          `json:"method"`
	Reference     *string         `json:"reference,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	ProcessedByID string          `json:"processedById"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func NewPaymentResponse(p Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		CompanyID:     p.CompanyID,
		PayslipID:     p.PayslipID,
		PayslipNumber: p.PayslipNumber,
		EmployeeName:  p.EmployeeName,
		Amount:        p.Amount,
		Method:        p.Method,
		Reference:     p.Reference,
		Notes:         p.Notes,
		ProcessedByID: p.ProcessedByID,
		CreatedAt:     p.CreatedAt,
	}
}

type RecordPaymentRequest struct {
	PayslipID string          `json:"payslipId" validate:"required,uuid"`
	Amount    decimal.Decimal `json:"amount"`
	Method    Method          `json:"method" validate:"required,oneof=CASH BANK_TRANSFER ORANGE_MONEY WAVE MOBILE_MONEY CHECK"`
	Reference *string         `json:"reference,omitempty" validate:"omitempty,max=100"`
	Notes     *string         `json:"notes,omitempty" validate:"omitempty,max=500"`
}

func (r *RecordPaymentRequest) Validate() error {
	r.Method = Method(strings.ToUpper(strings.TrimSpace(string(r.Method))))

	errs := validator.Struct(r)
	if !r.Amount.IsPositive() {
		errs.Add("amount", "amount must be greater than 0")
	} else if !validator.HasMaxTwoDecimals(r.Amount) {
		errs.Add("amount", "amount must have at most 2 decimal places")
	}
	return errs.Err()
}

type RecordPaymentResponse struct {
	Payment PaymentResponse         `json:"payment"`
	Payslip payslip.PayslipResponse `json:"payslip"`
}

type PaymentFilter struct {
	PayslipID *string
	Method    *string
	From      *string
	To        *string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

type StatsFilter struct {
	From *string
	To   *string
}

type MethodTotalResponse struct {
	Method Method          `json:"method"`
	Count  int64           `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

type StatsResponse struct {
	TotalAmount      decimal.Decimal       `json:"totalAmount"`
	PaymentCount     int64                 `json:"paymentCount"`
	ByMethod         []MethodTotalResponse `json:"byMethod"`
	PayslipsByStatus map[string]int64      `json:"payslipsByStatus"`
}

func NewStatsResponse(s Stats) StatsResponse {
	resp := StatsResponse{
		TotalAmount:      s.TotalAmount,
		PaymentCount:     s.PaymentCount,
		ByMethod:         make([]MethodTotalResponse, 0, len(s.ByMethod)),
		PayslipsByStatus: s.PayslipsByState,
	}
	for _, m := range s.ByMethod {
		resp.ByMethod = append(resp.ByMethod, MethodTotalResponse{Method: m.Method, Count: m.Count, Total: m.Total})
	}
	if resp.PayslipsByStatus == nil {
		resp.PayslipsByStatus = map[string]int64{}
	}
	return resp
}
