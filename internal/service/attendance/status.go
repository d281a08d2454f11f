package attendance

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/attendance"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/schedule"
)

// Rules derive attendance status and hours from clock times.
type Rules struct {
	LateThreshold  time.Duration
	LunchThreshold time.Duration
	LunchBreak     time.Duration
	HalfDayCutoff  string // "HH:MM"
}

func DefaultRules() Rules {
	return Rules{
		LateThreshold:  15 * time.Minute,
		LunchThreshold: 6 * time.Hour,
		LunchBreak:     time.Hour,
		HalfDayCutoff:  "12:00",
	}
}

// Arrival classifies a check-in against the scheduled start. Late minutes
// are counted from the scheduled start, not from the end of the grace
// period.
func (r Rules) Arrival(checkIn, scheduledStart time.Time) (attendance.Status, int) {
	graceLimit := scheduledStart.Add(r.LateThreshold)
	if !checkIn.After(graceLimit) {
		return attendance.StatusPresent, 0
	}
	diff := checkIn.Sub(scheduledStart).Minutes()
	return attendance.StatusLate, int(math.Floor(diff))
}

// HoursWorked returns the worked hours between check-in and check-out,
// rounded to two decimals. With lunch set, the lunch break is removed when
// the raw duration exceeds the lunch threshold.
func (r Rules) HoursWorked(checkIn, checkOut time.Time, lunch bool) decimal.Decimal {
	worked := checkOut.Sub(checkIn)
	if lunch && worked > r.LunchThreshold {
		worked -= r.LunchBreak
	}
	if worked <= 0 {
		return decimal.Zero
	}
	seconds := decimal.NewFromInt(int64(worked / time.Second))
	return seconds.Div(decimal.NewFromInt(3600)).Round(2)
}

// HalfDayCheckOut is the midday cutoff on the check-in's calendar day.
func (r Rules) HalfDayCheckOut(checkIn time.Time) (time.Time, error) {
	return schedule.AtClock(checkIn, r.HalfDayCutoff)
}
