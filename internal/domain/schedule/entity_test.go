package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDefaultWeek_CountWorkingDays(t *testing.T) {
	w := DefaultWeek("c-1")

	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		// January 2025 starts on a Wednesday.
		{"full month", "2025-01-01", "2025-01-31", 23},
		{"single weekday", "2025-01-06", "2025-01-06", 1},
		{"weekend only", "2025-01-04", "2025-01-05", 0},
		{"one full week", "2025-01-06", "2025-01-12", 5},
		{"end before start", "2025-01-10", "2025-01-01", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.CountWorkingDays(date(tt.start), date(tt.end)))
		})
	}
}

func TestNewWeek_CustomDays(t *testing.T) {
	// Six-day week: Monday to Saturday
	var days []WorkScheduleDay
	for d := 1; d <= 6; d++ {
		days = append(days, WorkScheduleDay{DayOfWeek: d, StartTime: "07:30", EndTime: "16:30", IsWorkingDay: true})
	}

	w := NewWeek("c-1", days)

	assert.True(t, w.IsWorkingDay(date("2025-01-04")))  // Saturday
	assert.False(t, w.IsWorkingDay(date("2025-01-05"))) // Sunday
	assert.Equal(t, 6, w.CountWorkingDays(date("2025-01-06"), date("2025-01-12")))
}

func TestNewWeek_EmptyFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultWeek("c-1"), NewWeek("c-1", nil))
}

func TestScheduledStart(t *testing.T) {
	loc := time.FixedZone("GMT", 0)
	w := DefaultWeek("c-1")
	day := time.Date(2025, 1, 6, 9, 45, 0, 0, loc)

	start, err := w.ScheduledStart(day)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 6, 8, 0, 0, 0, loc), start)
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("13:05")
	require.NoError(t, err)
	assert.Equal(t, 13, h)
	assert.Equal(t, 5, m)

	_, _, err = ParseClock("25:00")
	assert.Error(t, err)
}

func TestReplaceWorkScheduleRequest_Validate(t *testing.T) {
	day := func(d int, start, end string, working bool) WorkScheduleDayRequest {
		return WorkScheduleDayRequest{DayOfWeek: &d, StartTime: start, EndTime: end, IsWorkingDay: working}
	}

	valid := ReplaceWorkScheduleRequest{Days: []WorkScheduleDayRequest{
		day(0, "08:00", "17:00", false), day(1, "08:00", "17:00", true), day(2, "08:00", "17:00", true),
		day(3, "08:00", "17:00", true), day(4, "08:00", "17:00", true), day(5, "08:00", "17:00", true),
		day(6, "08:00", "12:00", false),
	}}
	require.NoError(t, valid.Validate())

	dup := valid
	dup.Days = append([]WorkScheduleDayRequest(nil), valid.Days...)
	dup.Days[6] = day(5, "17:00", "08:00", true)
	err := dup.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dayOfWeek must be unique")
	assert.Contains(t, err.Error(), "endTime must be after startTime")

	short := ReplaceWorkScheduleRequest{Days: valid.Days[:3]}
	assert.Error(t, short.Validate())
}
