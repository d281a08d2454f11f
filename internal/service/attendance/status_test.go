package attendance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/attendance"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 1, 6, hour, minute, 0, 0, time.UTC)
}

func TestRules_Arrival(t *testing.T) {
	rules := DefaultRules()
	start := at(8, 0)

	tests := []struct {
		name        string
		checkIn     time.Time
		wantStatus  attendance.Status
		wantMinutes int
	}{
		{"early", at(7, 45), attendance.StatusPresent, 0},
		{"on time", at(8, 0), attendance.StatusPresent, 0},
		{"within grace", at(8, 10), attendance.StatusPresent, 0},
		{"at grace limit", at(8, 15), attendance.StatusPresent, 0},
		{"late", at(8, 20), attendance.StatusLate, 20},
		{"late with seconds", at(8, 16).Add(59 * time.Second), attendance.StatusLate, 16},
		{"very late", at(10, 5), attendance.StatusLate, 125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, minutes := rules.Arrival(tt.checkIn, start)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMinutes, minutes)
		})
	}
}

func TestRules_HoursWorked(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name     string
		in, out  time.Time
		lunch    bool
		expected string
	}{
		{"full day with lunch", at(8, 0), at(17, 0), true, "8"},
		{"short day keeps lunch", at(8, 0), at(13, 30), true, "5.5"},
		{"exactly at threshold", at(8, 0), at(14, 0), true, "6"},
		{"just over threshold", at(8, 0), at(14, 30), true, "5.5"},
		{"no lunch deduction", at(8, 0), at(17, 0), false, "9"},
		{"rounded to cents", at(8, 0), at(8, 20), true, "0.33"},
		{"check-out before check-in", at(12, 0), at(8, 0), true, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rules.HoursWorked(tt.in, tt.out, tt.lunch)

			assert.True(t, decimal.RequireFromString(tt.expected).Equal(got), "got %s", got)
		})
	}
}

func TestRules_HalfDayCheckOut(t *testing.T) {
	rules := DefaultRules()
	dakar := time.FixedZone("GMT", 0)
	checkIn := time.Date(2025, 1, 6, 8, 5, 0, 0, dakar)

	checkOut, err := rules.HalfDayCheckOut(checkIn)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 6, 12, 0, 0, 0, dakar), checkOut)

	rules.HalfDayCutoff = "noon"
	_, err = rules.HalfDayCheckOut(checkIn)
	assert.Error(t, err)
}
