package schedule

import (
	"fmt"

	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/validator"
)

type WorkScheduleDayResponse struct {
	DayOfWeek    int    `json:"dayOfWeek"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	IsWorkingDay bool   `json:"isWorkingDay"`
}

type WorkScheduleResponse struct {
	CompanyID       string                    `json:"companyId"`
	Days            []WorkScheduleDayResponse `json:"days"`
	WorkingDaysWeek int                       `json:"workingDaysPerWeek"`
}

func NewWorkScheduleResponse(companyID string, w Week) WorkScheduleResponse {
	resp := WorkScheduleResponse{CompanyID: companyID, Days: make([]WorkScheduleDayResponse, 0, 7)}
	for _, d := range w {
		resp.Days = append(resp.Days, WorkScheduleDayResponse{
			DayOfWeek:    d.DayOfWeek,
			StartTime:    d.StartTime,
			EndTime:      d.EndTime,
			IsWorkingDay: d.IsWorkingDay,
		})
		if d.IsWorkingDay {
			resp.WorkingDaysWeek++
		}
	}
	return resp
}

type WorkScheduleDayRequest struct {
	DayOfWeek    *int   `json:"dayOfWeek" validate:"required,gte=0,lte=6"`
	StartTime    string `json:"startTime" validate:"required,clock"`
	EndTime      string `json:"endTime" validate:"required,clock"`
	IsWorkingDay bool   `json:"isWorkingDay"`
}

type ReplaceWorkScheduleRequest struct {
	Days []WorkScheduleDayRequest `json:"days" validate:"required,len=7,dive"`
}

func (r *ReplaceWorkScheduleRequest) Validate() error {
	errs := validator.Struct(r)
	if len(errs) > 0 {
		return errs
	}

	seen := make(map[int]bool, 7)
	for i, d := range r.Days {
		field := fmt.Sprintf("days[%d]", i)
		if seen[*d.DayOfWeek] {
			errs.Add(field+".dayOfWeek", "dayOfWeek must be unique")
		}
		seen[*d.DayOfWeek] = true
		if d.IsWorkingDay && d.StartTime >= d.EndTime {
			errs.Add(field+".endTime", "endTime must be after startTime")
		}
	}
	return errs.Err()
}

// ToDays converts the request into schedule rows.
func (r *ReplaceWorkScheduleRequest) ToDays(companyID string) []WorkScheduleDay {
	days := make([]WorkScheduleDay, 0, len(r.Days))
	for _, d := range r.Days {
		days = append(days, WorkScheduleDay{
			CompanyID:    companyID,
			DayOfWeek:    *d.DayOfWeek,
			StartTime:    d.StartTime,
			EndTime:      d.EndTime,
			IsWorkingDay: d.IsWorkingDay,
		})
	}
	return days
}
