package attendance

import "errors"

// Attendance domain errors
var (
	// Lifecycle errors
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrNotCheckedIn      = errors.New("you need to check in first")
	ErrAlreadyCheckedOut = errors.New("already checked out today")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
