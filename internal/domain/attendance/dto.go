package attendance

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/validator"
)

type AttendanceResponse struct {
	ID           string          `json:"id"`
	CompanyID    string          `json:"companyId"`
	EmployeeID   string          `json:"employeeId"`
	EmployeeCode *string         `json:"employeeCode,omitempty"`
	EmployeeName *string         `json:"employeeName,omitempty"`
	Date         string          `json:"date"`
	CheckIn      *time.Time      `json:"checkIn,omitempty"`
	CheckOut     *time.Time      `json:"checkOut,omitempty"`
	Status       Status          `json:"status"`
	HoursWorked  decimal.Decimal `json:"hoursWorked"`
	LateMinutes  int             `json:"lateMinutes"`
	IsValidated  bool            `json:"isValidated"`
	Notes        *string         `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:           a.ID,
		CompanyID:    a.CompanyID,
		EmployeeID:   a.EmployeeID,
		EmployeeCode: a.EmployeeCode,
		EmployeeName: a.EmployeeName,
		Date:         a.Date.Format(time.DateOnly),
		CheckIn:      a.CheckIn,
		CheckOut:     a.CheckOut,
		Status:       a.Status,
		HoursWorked:  a.HoursWorked,
		LateMinutes:  a.LateMinutes,
		IsValidated:  a.IsValidated,
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// CheckInRequest records an arrival. At defaults to the current time.
type CheckInRequest struct {
	EmployeeID string  `json:"employeeId" validate:"required,uuid"`
	At         *string `json:"at,omitempty"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=500"`

	Time time.Time `json:"-"`
}

func (r *CheckInRequest) Validate() error {
	errs := validator.Struct(r)
	r.Time = parseInstant(&errs, "at", r.At)
	return errs.Err()
}

type CheckOutRequest struct {
	EmployeeID string  `json:"employeeId" validate:"required,uuid"`
	At         *string `json:"at,omitempty"`

	Time time.Time `json:"-"`
}

func (r *CheckOutRequest) Validate() error {
	errs := validator.Struct(r)
	r.Time = parseInstant(&errs, "at", r.At)
	return errs.Err()
}

type MarkAbsenceRequest struct {
	EmployeeID string  `json:"employeeId" validate:"required,uuid"`
	Date       string  `json:"date" validate:"required,date"`
	Status     Status  `json:"status" validate:"required,oneof=ABSENT VACATION"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

func (r *MarkAbsenceRequest) Validate() error {
	return validator.Struct(r).Err()
}

// HalfDayRequest records a half day. Check-out is set to the midday cutoff.
type HalfDayRequest struct {
	EmployeeID string  `json:"employeeId" validate:"required,uuid"`
	CheckIn    string  `json:"checkIn" validate:"required"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=500"`

	CheckInTime time.Time `json:"-"`
}

func (r *HalfDayRequest) Validate() error {
	errs := validator.Struct(r)
	if r.CheckIn != "" {
		t, ok := validator.IsValidDateTime(r.CheckIn)
		if !ok {
			errs.Add("checkIn", "checkIn must be an RFC3339 timestamp")
		}
		r.CheckInTime = t
	}
	return errs.Err()
}

type AttendanceFilter struct {
	EmployeeID  *string
	Status      *string
	From        *string
	To          *string
	IsValidated *bool
	Page        int
	Limit       int
	SortBy      string
	SortOrder   string
}

func parseInstant(errs *validator.ValidationErrors, field string, value *string) time.Time {
	if value == nil || *value == "" {
		return time.Now()
	}
	t, ok := validator.IsValidDateTime(*value)
	if !ok {
		errs.Add(field, field+" must be an RFC3339 timestamp")
	}
	return t
}
