package attendance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type AttendanceRepository interface {
	Create(ctx context.Context, a Attendance) (Attendance, error)
	GetByID(ctx context.Context, id string, companyID string) (Attendance, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID string, companyID string, date time.Time) (Attendance, error)
	UpdateCheckOut(ctx context.Context, id string, companyID string, checkOut time.Time, hoursWorked decimal.Decimal) (Attendance, error)
	MarkValidated(ctx context.Context, id string, companyID string) (Attendance, error)
	List(ctx context.Context, filter AttendanceFilter, companyID string) ([]Attendance, int64, error)
	// SumValidatedHours returns validated hours per employee in [from, to].
	SumValidatedHours(ctx context.Context, companyID string, from, to time.Time) (map[string]decimal.Decimal, error)
}
