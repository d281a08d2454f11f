package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent  Status = "PRESENT"
	StatusLate     Status = "LATE"
	StatusAbsent   Status = "ABSENT"
	StatusHalfDay  Status = "HALF_DAY"
	StatusVacation Status = "VACATION"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent, StatusHalfDay, StatusVacation:
		return true
	}
	return false
}

type Attendance struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	Date        time.Time
	CheckIn     *time.Time
	CheckOut    *time.Time
	Status      Status
	HoursWorked decimal.Decimal
	LateMinutes int
	IsValidated bool
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// DTO
	EmployeeCode *string
	EmployeeName *string
}
