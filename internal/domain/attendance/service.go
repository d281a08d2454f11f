package attendance

import "context"

type AttendanceService interface {
	CheckIn(ctx context.Context, companyID string, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, companyID string, req CheckOutRequest) (AttendanceResponse, error)
	MarkAbsence(ctx context.Context, companyID string, req MarkAbsenceRequest) (AttendanceResponse, error)
	MarkHalfDay(ctx context.Context, companyID string, req HalfDayRequest) (AttendanceResponse, error)
	Validate(ctx context.Context, companyID string, id string) (AttendanceResponse, error)
	GetByID(ctx context.Context, companyID string, id string) (AttendanceResponse, error)
	List(ctx context.Context, companyID string, filter AttendanceFilter) ([]AttendanceResponse, int64, error)
}
