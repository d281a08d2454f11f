package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyRecorded    = errors.New("attendance already recorded for this date")
	ErrNotCheckedIn       = errors.New("employee has not checked in on this date")
	ErrAlreadyCheckedOut  = errors.New("employee has already checked out")
	ErrCheckOutBeforeIn   = errors.New("check-out must be after check-in")
	ErrNonWorkingDay      = errors.New("date is not a working day")
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
