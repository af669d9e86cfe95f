package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half-day"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay:
		return true
	}
	return false
}

// Check-in policy thresholds, local wall clock.
const (
	LateHour    = 9
	LateMinute  = 0
	HalfDayHour = 12
)

var millisPerHour = decimal.NewFromInt(int64(time.Hour / time.Millisecond))

// Attendance is one user's record for one calendar day. (UserID, Date) is unique.
type Attendance struct {
	ID           string
	UserID       string
	Date         time.Time // start of the local day
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	Status       Status
	TotalHours   float64
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	EmployeeName       *string
	EmployeeEmail      *string
	EmployeeCode       *string
	EmployeeDepartment *string
}

// DetermineStatus derives the status from the check-in wall clock time in loc.
func (a *Attendance) DetermineStatus(loc *time.Location) Status {
	a.Status = DeriveStatus(a.CheckInTime, loc)
	return a.Status
}

// CalculateTotalHours derives worked hours from the two timestamps.
func (a *Attendance) CalculateTotalHours() float64 {
	a.TotalHours = DeriveTotalHours(a.CheckInTime, a.CheckOutTime)
	return a.TotalHours
}

func (a *Attendance) IsCheckedIn() bool {
	return a != nil && a.CheckInTime != nil
}

func (a *Attendance) IsCheckedOut() bool {
	return a != nil && a.CheckOutTime != nil
}

// DeriveStatus classifies a check-in: absent without one, half-day after 12:00,
// late after 09:00, present otherwise. Boundaries themselves are not exceeded.
func DeriveStatus(checkIn *time.Time, loc *time.Location) Status {
	if checkIn == nil {
		return StatusAbsent
	}

	local := checkIn.In(loc)
	hour, minute := local.Hour(), local.Minute()

	switch {
	case hour > HalfDayHour || (hour == HalfDayHour && minute > 0):
		return StatusHalfDay
	case hour > LateHour || (hour == LateHour && minute > LateMinute):
		return StatusLate
	default:
		return StatusPresent
	}
}

// DeriveTotalHours returns checkOut-checkIn in hours rounded half-up to two
// decimals, or zero while either timestamp is missing.
func DeriveTotalHours(checkIn, checkOut *time.Time) float64 {
	if checkIn == nil || checkOut == nil {
		return 0
	}

	diff := checkOut.Sub(*checkIn)
	if diff <= 0 {
		return 0
	}

	return decimal.NewFromInt(diff.Milliseconds()).
		Div(millisPerHour).
		Round(2).
		InexactFloat64()
}
