package company

import (
	"io"
	"strings"
	"time"

	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/validator"
)

type CompanyResponse struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Address       *string       `json:"address,omitempty"`
	Currency      string        `json:"currency"`
	PayPeriodType PayPeriodType `json:"payPeriodType"`
	IsActive      bool          `json:"isActive"`
	LogoURL       *string       `json:"logoUrl,omitempty"`
	ThemeColor    *string       `json:"themeColor,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

func NewCompanyResponse(c Company) CompanyResponse {
	return CompanyResponse{
		ID:            c.ID,
		Name:          c.Name,
		Address:       c.Address,
		Currency:      c.Currency,
		PayPeriodType: c.PayPeriodType,
		IsActive:      c.IsActive,
		LogoURL:       c.LogoURL,
		ThemeColor:    c.ThemeColor,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

type CreateCompanyRequest struct {
	Name          string        `json:"name" validate:"required,max=255"`
	Address       *string       `json:"address,omitempty" validate:"omitempty,max=500"`
	Currency      string        `json:"currency" validate:"omitempty,len=3,alpha"`
	PayPeriodType PayPeriodType `json:"payPeriodType" validate:"omitempty,oneof=MONTHLY WEEKLY DAILY"`
	ThemeColor    *string       `json:"themeColor,omitempty" validate:"omitempty,hexcolor"`
}

func (r *CreateCompanyRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Currency == "" {
		r.Currency = DefaultCurrency
	}
	r.Currency = strings.ToUpper(r.Currency)
	if r.PayPeriodType == "" {
		r.PayPeriodType = PayPeriodMonthly
	}
	return validator.Struct(r).Err()
}

type UpdateCompanyRequest struct {
	Name          *string        `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Address       *string        `json:"address,omitempty" validate:"omitempty,max=500"`
	Currency      *string        `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
	PayPeriodType *PayPeriodType `json:"payPeriodType,omitempty" validate:"omitempty,oneof=MONTHLY WEEKLY DAILY"`
	ThemeColor    *string        `json:"themeColor,omitempty" validate:"omitempty,hexcolor"`
}

func (r *UpdateCompanyRequest) Validate() error {
	if r.Currency != nil {
		upper := strings.ToUpper(*r.Currency)
		r.Currency = &upper
	}
	return validator.Struct(r).Err()
}

type SetActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

func (r *SetActiveRequest) Validate() error {
	return validator.Struct(r).Err()
}

type CompanyFilter struct {
	Search    *string
	IsActive  *bool
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

type UploadCompanyLogoRequest struct {
	CompanyID   string
	File        io.Reader
	Filename    string
	ContentType string
	Size        int64
}

type UploadCompanyLogoResponse struct {
	LogoURL string `json:"logoUrl"`
}
