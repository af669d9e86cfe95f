package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var wib = time.FixedZone("WIB", 7*60*60)

func at(hour, minute, second int) *time.Time {
	t := time.Date(2024, 6, 12, hour, minute, second, 0, wib)
	return &t
}

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name    string
		checkIn *time.Time
		want    Status
	}{
		{"no check-in", nil, StatusAbsent},
		{"early", at(7, 45, 0), StatusPresent},
		{"exactly nine", at(9, 0, 0), StatusPresent},
		{"nine with seconds", at(9, 0, 59), StatusPresent},
		{"one past nine", at(9, 1, 0), StatusLate},
		{"before noon", at(11, 59, 59), StatusLate},
		{"exactly noon", at(12, 0, 0), StatusLate},
		{"one past noon", at(12, 1, 0), StatusHalfDay},
		{"afternoon", at(15, 30, 0), StatusHalfDay},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, DeriveStatus(c.checkIn, wib))
		})
	}
}

func TestDeriveStatus_UsesLocation(t *testing.T) {
	// 02:30 UTC is 09:30 in WIB
	checkIn := time.Date(2024, 6, 12, 2, 30, 0, 0, time.UTC)

	assert.Equal(t, StatusLate, DeriveStatus(&checkIn, wib))
	assert.Equal(t, StatusPresent, DeriveStatus(&checkIn, time.UTC))
}

func TestDeriveTotalHours(t *testing.T) {
	t.Run("full day", func(t *testing.T) {
		assert.Equal(t, 8.5, DeriveTotalHours(at(9, 0, 0), at(17, 30, 0)))
	})

	t.Run("rounds half up to two decimals", func(t *testing.T) {
		// 1h 0m 18s = 1.005h
		assert.Equal(t, 1.01, DeriveTotalHours(at(9, 0, 0), at(10, 0, 18)))
		// 20 minutes = 0.3333h
		assert.Equal(t, 0.33, DeriveTotalHours(at(9, 0, 0), at(9, 20, 0)))
	})

	t.Run("open session", func(t *testing.T) {
		assert.Zero(t, DeriveTotalHours(at(9, 0, 0), nil))
		assert.Zero(t, DeriveTotalHours(nil, nil))
	})

	t.Run("never negative", func(t *testing.T) {
		assert.Zero(t, DeriveTotalHours(at(10, 0, 0), at(9, 0, 0)))
	})
}

func TestAttendance_DerivationsAreIdempotent(t *testing.T) {
	a := Attendance{CheckInTime: at(8, 0, 0), CheckOutTime: at(23, 0, 0)}

	first := a.DetermineStatus(wib)
	hours := a.CalculateTotalHours()

	assert.Equal(t, StatusPresent, first)
	assert.Equal(t, 15.0, hours)
	assert.Equal(t, first, a.DetermineStatus(wib))
	assert.Equal(t, hours, a.CalculateTotalHours())
}

func TestAttendance_Flags(t *testing.T) {
	var empty *Attendance
	assert.False(t, empty.IsCheckedIn())
	assert.False(t, empty.IsCheckedOut())

	open := &Attendance{CheckInTime: at(9, 0, 0)}
	assert.True(t, open.IsCheckedIn())
	assert.False(t, open.IsCheckedOut())
}
