package company

import "time"

type PayPeriodType string

const (
	PayPeriodMonthly PayPeriodType = "MONTHLY"
	PayPeriodWeekly  PayPeriodType = "WEEKLY"
	PayPeriodDaily   PayPeriodType = "DAILY"
)

const DefaultCurrency = "XOF"

type Company struct {
	ID            string
	Name          string
	Address       *string
	Currency      string
	PayPeriodType PayPeriodType
	IsActive      bool
	LogoURL       *string
	ThemeColor    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MaxLogoSize is the largest accepted logo upload in bytes.
const MaxLogoSize = 2 << 20
