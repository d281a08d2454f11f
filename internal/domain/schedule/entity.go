package schedule

import (
	"fmt"
	"time"
)

// WorkScheduleDay is one row of a company's weekly schedule.
type WorkScheduleDay struct {
	CompanyID    string
	DayOfWeek    int // 0=Sunday, ..., 6=Saturday
	StartTime    string
	EndTime      string
	IsWorkingDay bool
	UpdatedAt    time.Time
}

const (
	DefaultStartTime = "08:00"
	DefaultEndTime   = "17:00"
)

// Week is a complete seven-day schedule indexed by time.Weekday.
type Week [7]WorkScheduleDay

// DefaultWeek is Monday to Friday, 08:00 to 17:00.
func DefaultWeek(companyID string) Week {
	var w Week
	for d := 0; d < 7; d++ {
		w[d] = WorkScheduleDay{
			CompanyID:    companyID,
			DayOfWeek:    d,
			StartTime:    DefaultStartTime,
			EndTime:      DefaultEndTime,
			IsWorkingDay: d != int(time.Saturday) && d != int(time.Sunday),
		}
	}
	return w
}

// NewWeek builds a week from stored rows. A company without rows gets the
// default week; days missing from a configured week are non-working.
func NewWeek(companyID string, days []WorkScheduleDay) Week {
	if len(days) == 0 {
		return DefaultWeek(companyID)
	}
	var w Week
	for d := 0; d < 7; d++ {
		w[d] = WorkScheduleDay{CompanyID: companyID, DayOfWeek: d, StartTime: DefaultStartTime, EndTime: DefaultEndTime}
	}
	for _, day := range days {
		if day.DayOfWeek >= 0 && day.DayOfWeek < 7 {
			w[day.DayOfWeek] = day
		}
	}
	return w
}

func (w Week) Day(weekday time.Weekday) WorkScheduleDay {
	return w[int(weekday)]
}

func (w Week) IsWorkingDay(date time.Time) bool {
	return w[int(date.Weekday())].IsWorkingDay
}

// CountWorkingDays counts working days in [start, end], both inclusive,
// comparing calendar dates only.
func (w Week) CountWorkingDays(start, end time.Time) int {
	from := dateOf(start)
	to := dateOf(end)
	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if w.IsWorkingDay(d) {
			count++
		}
	}
	return count
}

// ScheduledStart returns the start of the working day that contains date,
// in date's location.
func (w Week) ScheduledStart(date time.Time) (time.Time, error) {
	return AtClock(date, w[int(date.Weekday())].StartTime)
}

func (w Week) Days() []WorkScheduleDay {
	return w[:]
}

// ParseClock parses "HH:MM".
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// AtClock returns the instant at clock "HH:MM" on date's calendar day.
func AtClock(date time.Time, clock string) (time.Time, error) {
	h, m, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, h, m, 0, 0, date.Location()), nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
